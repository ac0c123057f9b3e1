package schedulerRepo

import (
	"context"
	"time"

	"studybuddy/models"
)

// SchedulerRepository owns the booking lifecycle. Every mutating method is a
// single atomic unit across the bookings collection and the tutor's
// availability list.
type SchedulerRepository interface {
	// CreateBooking consumes the slot ref points at and inserts booking. The
	// booking's date and time are taken from the consumed slot.
	CreateBooking(ctx context.Context, booking *models.Booking, ref models.SlotRef) (*models.Booking, error)
	// CancelBooking restores the booking's slot under restoredSlotID and deletes
	// the booking. It returns the deleted record.
	CancelBooking(ctx context.Context, bookingID, restoredSlotID string) (*models.Booking, error)
	// RescheduleBooking consumes target, restores the old slot under
	// restoredSlotID and moves the booking onto target.
	RescheduleBooking(ctx context.Context, bookingID string, target models.SlotRef, restoredSlotID string, now time.Time) (*models.Booking, error)
	// CompleteBooking marks the booking Completed if it still sits at (date, tm).
	CompleteBooking(ctx context.Context, bookingID, date, tm string, now time.Time) (bool, error)

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error)
}
