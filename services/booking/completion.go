package booking

import (
	"context"
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/services/tasks"
	"studybuddy/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CompletionScheduler arranges for a booking to be marked Completed after
// its session ends.
type CompletionScheduler interface {
	Schedule(ctx context.Context, b models.Booking, loc *time.Location) error
}

// AsynqCompletionScheduler enqueues a booking:complete task at session start
// plus SessionLength.
type AsynqCompletionScheduler struct {
	Client        *asynq.Client
	SessionLength time.Duration
}

func NewAsynqCompletionScheduler(client *asynq.Client, sessionLength time.Duration) *AsynqCompletionScheduler {
	return &AsynqCompletionScheduler{Client: client, SessionLength: sessionLength}
}

func (a *AsynqCompletionScheduler) Schedule(ctx context.Context, b models.Booking, loc *time.Location) error {
	start, ok := SessionStart(b.Date, b.Time, loc)
	if !ok {
		return fmt.Errorf("booking %s has unparseable time %s %s: %w", b.ID, b.Date, b.Time, utils.ErrValidation)
	}
	fireAt := start.Add(a.SessionLength)

	task, opts, err := tasks.NewCompletionTask(models.CompletionPayload{
		BookingID: b.ID,
		Date:      b.Date,
		Time:      b.Time,
	}, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build completion task: %w", err)
	}

	info, err := a.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue completion task: %w", err)
	}
	utils.GetLogger().Debug("Completion scheduled",
		zap.String("bookingID", b.ID), zap.String("taskID", info.ID), zap.Time("fireAt", fireAt))
	return nil
}
