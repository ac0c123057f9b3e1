package booking

import (
	"context"
	"fmt"
	"slices"

	"studybuddy/models"
)

// ListForStudent returns every booking of the student, unfiltered, in date
// and time order.
func (s *DefaultBookingService) ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	if studentID == "" {
		return nil, validationError("user id is required")
	}
	bookings, err := s.Scheduler.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListGrouped splits the student's bookings into upcoming (soonest first)
// and past (most recent first).
func (s *DefaultBookingService) ListGrouped(ctx context.Context, studentID string) (*models.GroupedBookings, error) {
	bookings, err := s.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	now, loc := s.now(), s.location()
	grouped := &models.GroupedBookings{Upcoming: []models.Booking{}, Past: []models.Booking{}}
	for _, b := range bookings {
		if IsUpcoming(b.Date, b.Time, now, loc) {
			grouped.Upcoming = append(grouped.Upcoming, b)
		} else {
			grouped.Past = append(grouped.Past, b)
		}
	}
	slices.SortStableFunc(grouped.Upcoming, compareBookings)
	slices.SortStableFunc(grouped.Past, func(a, b models.Booking) int { return compareBookings(b, a) })
	return grouped, nil
}

func compareBookings(a, b models.Booking) int {
	ka, kb := a.Date+"T"+a.Time, b.Date+"T"+b.Time
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}
