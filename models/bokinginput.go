package models

// CreateBookingRequest is the payload of POST /api/bookings.
type CreateBookingRequest struct {
	StudentID string `json:"studentId"`
	TutorID   string `json:"tutorId"`
	TutorName string `json:"tutorName"`
	Module    string `json:"module"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	SlotID    string `json:"slotId"`
}

// RescheduleBookingRequest is the payload of PUT /api/bookings/:id. The legacy
// "date"/"time" keys are accepted when the new* keys are absent.
type RescheduleBookingRequest struct {
	NewSlotID string `json:"newSlotId"`
	NewDate   string `json:"newDate"`
	NewTime   string `json:"newTime"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// Target resolves the slot reference the reschedule should consume.
func (r RescheduleBookingRequest) Target() SlotRef {
	ref := SlotRef{ID: r.NewSlotID, Date: r.NewDate, Time: r.NewTime}
	if ref.Date == "" {
		ref.Date = r.Date
	}
	if ref.Time == "" {
		ref.Time = r.Time
	}
	return ref
}
