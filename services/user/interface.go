package user

import (
	"context"
	"time"

	userRepo "studybuddy/database/repository/user"
	"studybuddy/models"
)

type UserService interface {
	// Register creates the account and, for tutors, an empty tutor profile.
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Login checks the password of the user named or addressed by username.
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}
