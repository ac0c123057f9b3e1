package tutorRepo

import (
	"context"
	"slices"
	"strings"

	"studybuddy/models"
)

// TutorRepository defines methods for tutor profile data access.
type TutorRepository interface {
	// Create inserts a new tutor profile.
	Create(ctx context.Context, tutor *models.Tutor) error
	// GetByID retrieves a profile by its own id.
	GetByID(ctx context.Context, id string) (*models.Tutor, error)
	// GetByUserID retrieves the profile owned by a user.
	GetByUserID(ctx context.Context, userID string) (*models.Tutor, error)
	// Search lists profiles matching criteria, ordered by name.
	Search(ctx context.Context, criteria models.TutorSearchCriteria) ([]models.Tutor, error)
	// UpdateProfile applies a partial update to the profile owned by userID.
	UpdateProfile(ctx context.Context, userID string, update models.TutorUpdate) (*models.Tutor, error)
	// PruneExpiredSlots drops stored slots dated before the given "YYYY-MM-DD"
	// day and returns how many profiles changed.
	PruneExpiredSlots(ctx context.Context, before string) (int64, error)
}

// Matches reports whether t satisfies criteria. Module is an exact code
// match; Query is a case-insensitive substring of the name or any topic.
func Matches(t *models.Tutor, criteria models.TutorSearchCriteria) bool {
	if criteria.Module != "" && !slices.Contains(t.Modules, criteria.Module) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(criteria.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Name), q) {
		return true
	}
	return slices.ContainsFunc(t.Topics, func(topic string) bool {
		return strings.Contains(strings.ToLower(topic), q)
	})
}
