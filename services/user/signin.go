package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studybuddy/config"
	"studybuddy/models"
	"studybuddy/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown user and a wrong password.
var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", utils.ErrValidation)

func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.GetByLogin(ctx, username)
	if errors.Is(err, utils.ErrNotFound) && strings.Contains(username, "@") {
		user, err = s.Repo.GetByLogin(ctx, strings.ToLower(username))
	}
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		utils.GetLogger().Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := s.TokenTTL
	if ttl == 0 {
		ttl = config.TokenTTL()
	}
	token, err := utils.GenerateToken(user.ID, user.Role, ttl)
	if err != nil {
		utils.GetLogger().Error("Login: token generation failed", zap.Error(err))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		UserID: user.ID,
		Token:  token,
	}, nil
}
