// Package users declares the repository contract for user accounts and
// provides the PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create stores a new user and returns it with the store-assigned id.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByLogin returns the user with the given username, or
	// common.ErrorNotFound.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)

	// GetUserByID returns the user with the given id, or common.ErrorNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
