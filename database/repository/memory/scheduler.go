package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	schedulerRepo "studybuddy/database/repository/scheduler"
	"studybuddy/models"
	"studybuddy/utils"
)

type SchedulerRepo struct {
	s *Store
}

// Each method works on copies and only commits them once every step has
// succeeded, so a failed operation leaves the store untouched.

func (r *SchedulerRepo) CreateBooking(_ context.Context, booking *models.Booking, ref models.SlotRef) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tutors[booking.TutorID]
	if !ok {
		return nil, fmt.Errorf("tutor %s: %w", booking.TutorID, utils.ErrNotFound)
	}
	tutor := cloneTutor(stored)
	slot, err := schedulerRepo.ConsumeSlot(tutor, ref)
	if err != nil {
		return nil, err
	}
	if _, exists := r.s.bookings[booking.ID]; exists {
		return nil, fmt.Errorf("booking %s already exists: %w", booking.ID, utils.ErrConflict)
	}

	booking.Date, booking.Time = slot.Date, slot.Time
	tutor.UpdatedAt = booking.CreatedAt
	r.s.tutors[tutor.ID] = tutor
	r.s.bookings[booking.ID] = cloneBooking(booking)
	r.s.bookingOrder = append(r.s.bookingOrder, booking.ID)
	return cloneBooking(booking), nil
}

func (r *SchedulerRepo) CancelBooking(_ context.Context, bookingID, restoredSlotID string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	booking, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
	}
	if err := schedulerRepo.Reschedulable(booking); err != nil {
		return nil, err
	}

	if stored, ok := r.s.tutors[booking.TutorID]; ok {
		tutor := cloneTutor(stored)
		schedulerRepo.RestoreSlot(tutor, booking.Date, booking.Time, restoredSlotID)
		tutor.UpdatedAt = time.Now()
		r.s.tutors[tutor.ID] = tutor
	}

	delete(r.s.bookings, bookingID)
	r.s.bookingOrder = slices.DeleteFunc(r.s.bookingOrder, func(id string) bool { return id == bookingID })
	return cloneBooking(booking), nil
}

func (r *SchedulerRepo) RescheduleBooking(_ context.Context, bookingID string, target models.SlotRef, restoredSlotID string, now time.Time) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
	}
	if err := schedulerRepo.Reschedulable(stored); err != nil {
		return nil, err
	}
	storedTutor, ok := r.s.tutors[stored.TutorID]
	if !ok {
		return nil, fmt.Errorf("tutor %s: %w", stored.TutorID, utils.ErrNotFound)
	}

	booking := cloneBooking(stored)
	tutor := cloneTutor(storedTutor)
	slot, err := schedulerRepo.ConsumeSlot(tutor, target)
	if err != nil {
		return nil, err
	}
	schedulerRepo.RestoreSlot(tutor, booking.Date, booking.Time, restoredSlotID)
	schedulerRepo.ApplyReschedule(booking, slot, now)
	tutor.UpdatedAt = now

	r.s.tutors[tutor.ID] = tutor
	r.s.bookings[booking.ID] = booking
	return cloneBooking(booking), nil
}

func (r *SchedulerRepo) CompleteBooking(_ context.Context, bookingID, date, tm string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok || b.Date != date || b.Time != tm || b.Status == models.BookingCompleted {
		return false, nil
	}
	b.Status = models.BookingCompleted
	b.UpdatedAt = now
	return true, nil
}

func (r *SchedulerRepo) GetBooking(_ context.Context, bookingID string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", bookingID, utils.ErrNotFound)
	}
	return cloneBooking(b), nil
}

func (r *SchedulerRepo) ListByStudent(_ context.Context, studentID string) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	bookings := []models.Booking{}
	for _, id := range r.s.bookingOrder {
		if b := r.s.bookings[id]; b.StudentID == studentID {
			bookings = append(bookings, *cloneBooking(b))
		}
	}
	slices.SortStableFunc(bookings, func(a, b models.Booking) int {
		if a.Date != b.Date {
			if a.Date < b.Date {
				return -1
			}
			return 1
		}
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return bookings, nil
}
