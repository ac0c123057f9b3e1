package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"studybuddy/models"
	"studybuddy/services/availability"
	"studybuddy/utils"

	"go.uber.org/zap"
)

func (s *DefaultTutorService) List(ctx context.Context, criteria models.TutorSearchCriteria) ([]models.Tutor, error) {
	cacheable := s.Cache != nil && criteria.Module == "" && criteria.Query == ""
	gen := s.generation.Load()
	if cacheable {
		if tutors, ok := s.cachedListing(ctx); ok {
			return tutors, nil
		}
	}

	tutors, err := s.Repo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}
	now := s.now()
	for i := range tutors {
		tutors[i].Availability = availability.Active(tutors[i].Availability, now)
	}

	if cacheable {
		s.storeListing(ctx, tutors, gen)
	}
	return tutors, nil
}

func (s *DefaultTutorService) cachedListing(ctx context.Context) ([]models.Tutor, bool) {
	raw, err := s.Cache.Get(ctx, ListingCacheKey)
	if err != nil {
		if !errors.Is(err, utils.ErrCacheMiss) {
			utils.GetLogger().Warn("tutor listing cache read failed", zap.Error(err))
		}
		utils.RecordTutorCache(false)
		return nil, false
	}
	var tutors []models.Tutor
	if err := json.Unmarshal(raw, &tutors); err != nil {
		utils.GetLogger().Warn("discarding corrupt tutor listing cache entry", zap.Error(err))
		utils.RecordTutorCache(false)
		return nil, false
	}
	utils.RecordTutorCache(true)
	return tutors, true
}

func (s *DefaultTutorService) storeListing(ctx context.Context, tutors []models.Tutor, gen uint64) {
	if s.generation.Load() != gen {
		utils.GetLogger().Debug("tutor listing changed during read; not caching")
		return
	}
	raw, err := json.Marshal(tutors)
	if err != nil {
		utils.GetLogger().Warn("failed to encode tutor listing", zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, ListingCacheKey, raw, s.CacheTTL); err != nil {
		utils.GetLogger().Warn("tutor listing cache write failed", zap.Error(err))
	}
}

func (s *DefaultTutorService) Get(ctx context.Context, id string) (*models.Tutor, error) {
	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tutor: %w", err)
	}
	t.Availability = availability.Active(t.Availability, s.now())
	return t, nil
}

// Update applies a partial profile update. A supplied availability list is
// normalized before it is stored.
func (s *DefaultTutorService) Update(ctx context.Context, userID string, update models.TutorUpdate) (*models.Tutor, error) {
	if update.Empty() {
		return nil, fmt.Errorf("no profile fields supplied: %w", utils.ErrValidation)
	}
	if update.Name != nil && *update.Name == "" {
		return nil, fmt.Errorf("name cannot be empty: %w", utils.ErrValidation)
	}
	if update.HourlyRate != nil && *update.HourlyRate < 0 {
		return nil, fmt.Errorf("hourly rate cannot be negative: %w", utils.ErrValidation)
	}
	if update.Availability != nil {
		normalized := availability.Normalize(*update.Availability, s.now(), s.Allocate)
		update.Availability = &normalized
	}

	updated, err := s.Repo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update tutor profile: %w", err)
	}
	s.InvalidateListing(ctx)

	utils.GetLogger().Info("Tutor profile updated",
		zap.String("tutorID", updated.ID), zap.Int("slots", len(updated.Availability)))
	return updated, nil
}

func (s *DefaultTutorService) InvalidateListing(ctx context.Context) {
	s.generation.Add(1)
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, ListingCacheKey); err != nil {
		utils.GetLogger().Warn("failed to invalidate tutor listing cache", zap.Error(err))
	}
}

func (s *DefaultTutorService) PruneExpired(ctx context.Context) (int64, error) {
	before := s.now().Format(models.DateLayout)
	changed, err := s.Repo.PruneExpiredSlots(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune slots before %s: %w", before, err)
	}
	if changed > 0 {
		s.InvalidateListing(ctx)
	}
	return changed, nil
}
