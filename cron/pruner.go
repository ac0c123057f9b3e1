package cron

import (
	"context"
	"time"

	"studybuddy/utils"

	"go.uber.org/zap"
)

// Pruner is the part of the tutor service that drops expired slots.
type Pruner interface {
	PruneExpired(ctx context.Context) (int64, error)
}

// StartSlotPruner removes slots dated before today once at start and then
// every interval, until ctx is done.
func StartSlotPruner(ctx context.Context, pruner Pruner, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		runPrune(ctx, pruner)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runPrune(ctx, pruner)
			}
		}
	}()
}

func runPrune(ctx context.Context, pruner Pruner) {
	changed, err := pruner.PruneExpired(ctx)
	if err != nil {
		utils.GetLogger().Error("Slot pruning failed", zap.Error(err))
		return
	}
	if changed > 0 {
		utils.GetLogger().Info("Pruned expired slots", zap.Int64("tutors", changed))
	}
}
