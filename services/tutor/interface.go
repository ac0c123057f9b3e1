package tutor

import (
	"context"
	"sync/atomic"
	"time"

	tutorRepo "studybuddy/database/repository/tutor"
	"studybuddy/models"
	"studybuddy/services/availability"
	"studybuddy/utils"
)

// ListingCacheKey holds the unfiltered tutor listing.
const ListingCacheKey = "tutors:all"

type TutorService interface {
	// List returns every matching tutor with only active slots, sorted.
	List(ctx context.Context, criteria models.TutorSearchCriteria) ([]models.Tutor, error)
	Get(ctx context.Context, id string) (*models.Tutor, error)
	Update(ctx context.Context, userID string, update models.TutorUpdate) (*models.Tutor, error)
	// InvalidateListing drops the cached listing after availability changed.
	InvalidateListing(ctx context.Context)
	// PruneExpired deletes stored slots dated before today.
	PruneExpired(ctx context.Context) (int64, error)
}

// DefaultTutorService serves tutor profiles. Cache is optional.
type DefaultTutorService struct {
	Repo     tutorRepo.TutorRepository
	Cache    utils.Cache
	CacheTTL time.Duration
	Location *time.Location
	Now      func() time.Time
	Allocate availability.IDAllocator

	// generation is bumped on every invalidation. A listing read that
	// overlapped one is not written back to the cache.
	generation atomic.Uint64
}

func (s *DefaultTutorService) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}
