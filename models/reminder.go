package models

// CompletionPayload is the asynq payload that asks the worker to mark a
// booking Completed once its session has ended.
type CompletionPayload struct {
	BookingID string `json:"bookingId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}
