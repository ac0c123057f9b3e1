package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tutorRepo "studybuddy/database/repository/tutor"
	"studybuddy/models"
	"studybuddy/utils"
)

type TutorRepo struct {
	s *Store
}

func (r *TutorRepo) Create(_ context.Context, tutor *models.Tutor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tutors {
		if t.ID == tutor.ID || t.UserID == tutor.UserID {
			return fmt.Errorf("tutor profile for user %s already exists: %w", tutor.UserID, utils.ErrConflict)
		}
	}
	r.s.tutors[tutor.ID] = cloneTutor(tutor)
	return nil
}

func (r *TutorRepo) GetByID(_ context.Context, id string) (*models.Tutor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tutors[id]
	if !ok {
		return nil, fmt.Errorf("tutor %s: %w", id, utils.ErrNotFound)
	}
	return cloneTutor(t), nil
}

func (r *TutorRepo) GetByUserID(_ context.Context, userID string) (*models.Tutor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.s.tutorOfUser(userID)
	if t == nil {
		return nil, fmt.Errorf("tutor of user %s: %w", userID, utils.ErrNotFound)
	}
	return cloneTutor(t), nil
}

// tutorOfUser must be called with the lock held.
func (s *Store) tutorOfUser(userID string) *models.Tutor {
	for _, t := range s.tutors {
		if t.UserID == userID {
			return t
		}
	}
	return nil
}

func (r *TutorRepo) Search(_ context.Context, criteria models.TutorSearchCriteria) ([]models.Tutor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tutors := []models.Tutor{}
	for _, t := range r.s.tutors {
		if tutorRepo.Matches(t, criteria) {
			tutors = append(tutors, *cloneTutor(t))
		}
	}
	slices.SortFunc(tutors, func(a, b models.Tutor) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return tutors, nil
}

func (r *TutorRepo) UpdateProfile(_ context.Context, userID string, update models.TutorUpdate) (*models.Tutor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := r.s.tutorOfUser(userID)
	if t == nil {
		return nil, fmt.Errorf("tutor of user %s: %w", userID, utils.ErrNotFound)
	}
	updated := cloneTutor(t)
	update.Apply(updated)
	updated.Availability = slices.Clone(updated.Availability)
	updated.UpdatedAt = time.Now()
	r.s.tutors[t.ID] = updated
	return cloneTutor(updated), nil
}

func (r *TutorRepo) PruneExpiredSlots(_ context.Context, before string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var changed int64
	for _, t := range r.s.tutors {
		kept := slices.DeleteFunc(slices.Clone(t.Availability), func(s models.Slot) bool {
			return s.Date < before
		})
		if len(kept) != len(t.Availability) {
			t.Availability = kept
			changed++
		}
	}
	return changed, nil
}
