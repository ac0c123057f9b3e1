package userRepo

import (
	"context"

	"studybuddy/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a user and, when profile is non-nil, its tutor profile in
	// the same unit. A taken email yields utils.ErrConflict.
	Create(ctx context.Context, user *models.User, profile *models.Tutor) error
	// GetByEmail retrieves a user by their email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByLogin retrieves a user whose name or email equals username.
	GetByLogin(ctx context.Context, username string) (*models.User, error)
}
