package memory

import (
	"context"
	"fmt"

	"studybuddy/models"
	"studybuddy/utils"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(_ context.Context, user *models.User, profile *models.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, utils.ErrConflict)
		}
	}
	if profile != nil {
		for _, t := range r.s.tutors {
			if t.UserID == profile.UserID {
				return fmt.Errorf("tutor profile for user %s already exists: %w", profile.UserID, utils.ErrConflict)
			}
		}
		r.s.tutors[profile.ID] = cloneTutor(profile)
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email }, email)
}

func (r *UserRepo) GetByLogin(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Name == username || u.Email == username }, username)
}

func (r *UserRepo) find(match func(*models.User) bool, label string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", label, utils.ErrNotFound)
}
