// Package recordings stores metadata of saved spoken answers.
package recordings

import (
	"context"

	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
)

type Repository interface {
	// Create inserts rec. ID must be set by the caller; CreatedAt is filled in.
	Create(ctx context.Context, rec *models.Recording) error
	// ListByUser returns userID's recordings, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Recording, error)
}
