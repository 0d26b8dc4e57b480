// Package questions declares the repository contract for interview questions.
package questions

import (
	"context"

	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	// List returns every question ordered by id.
	List(ctx context.Context) ([]*models.Question, error)
	// Replace overwrites text and category of an existing question.
	Replace(ctx context.Context, q *models.Question) error
}
