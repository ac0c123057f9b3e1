package cron

import (
	"context"
	"fmt"
	"time"

	"studybuddy/config"
	"studybuddy/models"
	"studybuddy/services/tasks"
	"studybuddy/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Completer is the part of the booking service the worker drives.
type Completer interface {
	Complete(ctx context.Context, payload models.CompletionPayload) (bool, error)
}

// QueueRedisOpt is the asynq connection shared by the client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitCompletionWorker runs the booking:complete worker in the background
// and returns the server so the caller can shut it down.
func InitCompletionWorker(ctx context.Context, completer Completer) *asynq.Server {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCompleteBooking, handleCompletionTask(completer))

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("Starting completion worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Completion worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("Giving up on completion worker; bookings will not auto-complete")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleCompletionTask(completer Completer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseCompletionPayload(task)
		if err != nil {
			utils.GetLogger().Error("Invalid completion payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		done, err := completer.Complete(ctx, p)
		if err != nil {
			return err
		}
		utils.GetLogger().Debug("Completion task handled",
			zap.String("bookingID", p.BookingID), zap.Bool("completed", done))
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	opt := QueueRedisOpt()
	client := redis.NewClient(&redis.Options{Addr: opt.Addr, Password: opt.Password, DB: opt.DB})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
