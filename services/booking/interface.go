package booking

import (
	"context"
	"time"

	schedulerRepo "studybuddy/database/repository/scheduler"
	tutorRepo "studybuddy/database/repository/tutor"
	"studybuddy/models"
	"studybuddy/services/availability"
)

// BookingService runs the booking lifecycle on top of the scheduler repository.
type BookingService interface {
	Create(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	Reschedule(ctx context.Context, bookingID string, req models.RescheduleBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error)
	ListGrouped(ctx context.Context, studentID string) (*models.GroupedBookings, error)
	Complete(ctx context.Context, payload models.CompletionPayload) (bool, error)
}

// ListingInvalidator is told whenever a lifecycle operation changed a
// tutor's availability.
type ListingInvalidator interface {
	InvalidateListing(ctx context.Context)
}

// DefaultBookingService implements BookingService. Only Scheduler and Tutors
// are required.
type DefaultBookingService struct {
	Scheduler  schedulerRepo.SchedulerRepository
	Tutors     tutorRepo.TutorRepository
	Completion CompletionScheduler
	Listings   ListingInvalidator
	Location   *time.Location
	Now        func() time.Time
	Allocate   availability.IDAllocator
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.Local
}

func (s *DefaultBookingService) allocate() string {
	if s.Allocate != nil {
		return s.Allocate()
	}
	return availability.NewSlotID()
}

func (s *DefaultBookingService) availabilityChanged(ctx context.Context) {
	if s.Listings != nil {
		s.Listings.InvalidateListing(ctx)
	}
}
