package tasks

import (
	"encoding/json"
	"time"

	"studybuddy/models"

	"github.com/hibiken/asynq"
)

const TypeCompleteBooking = "booking:complete"

func NewCompletionTask(payload models.CompletionPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCompleteBooking, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(5)}

	return task, opts, nil
}

// ParseCompletionPayload decodes a booking:complete task body.
func ParseCompletionPayload(t *asynq.Task) (models.CompletionPayload, error) {
	var p models.CompletionPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
