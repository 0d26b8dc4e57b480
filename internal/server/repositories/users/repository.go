// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/shadowinterview/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in ID and CreatedAt. A taken username
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Update stores the username and password hash of user.
	Update(ctx context.Context, user *models.User) error
	SetPasswordHash(ctx context.Context, userID, hash string) error
	SetRole(ctx context.Context, userID, role string) error
}
