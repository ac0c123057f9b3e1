package models

import "time"

const (
	BookingConfirmed   = "Confirmed"
	BookingCancelled   = "Cancelled"
	BookingCompleted   = "Completed"
	BookingRescheduled = "Rescheduled"
)

// Booking links a student to a tutor slot. TutorName is a snapshot taken when
// the booking is created and is not kept in sync with later profile renames.
type Booking struct {
	ID        string    `bson:"id" json:"_id"`
	StudentID string    `bson:"studentId" json:"studentId"`
	TutorID   string    `bson:"tutorId" json:"tutorId"`
	TutorName string    `bson:"tutorName" json:"tutorName"`
	Module    string    `bson:"module" json:"module"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GroupedBookings is a student's bookings split by the upcoming/past classifier.
type GroupedBookings struct {
	Upcoming []Booking `json:"upcoming"`
	Past     []Booking `json:"past"`
}
