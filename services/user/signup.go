package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"studybuddy/models"
	"studybuddy/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserExists is returned when the email is already registered.
var ErrUserExists = fmt.Errorf("user already exists: %w", utils.ErrValidation)

// Register validates the request, hashes the password and persists the user.
// A Tutor also gets a default profile in the same write.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", utils.ErrValidation)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("invalid email address: %w", utils.ErrValidation)
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, utils.ErrValidation)
	}

	// Checked before hashing; Create still reports a concurrent duplicate.
	_, err := s.Repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), cost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to secure password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}
	var profile *models.Tutor
	if user.Role == models.RoleTutor {
		profile = models.NewTutorProfile(uuid.NewString(), user)
	}

	if err := s.Repo.Create(ctx, user, profile); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	utils.GetLogger().Info("User registered", zap.String("userID", user.ID), zap.String("role", user.Role))
	return user, nil
}
