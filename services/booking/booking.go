package booking

import (
	"context"
	"fmt"

	"studybuddy/models"
	"studybuddy/services/availability"
	"studybuddy/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create books a slot for a student. The slot is found by SlotID when given,
// otherwise by date and time.
func (s *DefaultBookingService) Create(ctx context.Context, req models.CreateBookingRequest) (booking *models.Booking, err error) {
	defer func() { utils.RecordBookingOperation("create", err) }()
	logger := utils.GetLogger()

	req.Time = availability.NormalizeTime(req.Time)
	if req.StudentID == "" || req.TutorID == "" || req.Date == "" || req.Time == "" {
		return nil, validationError("studentId, tutorId, date and time are required")
	}
	if err := validateSlotRef(req.Date, req.Time); err != nil {
		return nil, err
	}

	tutor, err := s.Tutors.GetByID(ctx, req.TutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor: %w", err)
	}
	if tutor.UserID == req.StudentID {
		return nil, validationError("tutors cannot book their own profile")
	}
	if req.TutorName == "" {
		req.TutorName = tutor.Name
	}
	if req.Module == "" && len(tutor.Modules) > 0 {
		req.Module = tutor.Modules[0]
	}
	if req.Module == "" {
		return nil, validationError("module is required")
	}

	now := s.now()
	draft := &models.Booking{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		TutorID:   req.TutorID,
		TutorName: req.TutorName,
		Module:    req.Module,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.BookingConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	ref := models.SlotRef{ID: req.SlotID, Date: req.Date, Time: req.Time}

	booking, err = s.Scheduler.CreateBooking(ctx, draft, ref)
	if err != nil {
		logger.Warn("Booking not created",
			zap.String("studentID", req.StudentID), zap.String("tutorID", req.TutorID), zap.Error(err))
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.availabilityChanged(ctx)
	s.scheduleCompletion(ctx, booking)

	logger.Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("tutorID", booking.TutorID),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time))
	return booking, nil
}

// Cancel deletes the booking and gives its slot back to the tutor.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string) (booking *models.Booking, err error) {
	defer func() { utils.RecordBookingOperation("cancel", err) }()

	if bookingID == "" {
		return nil, validationError("booking id is required")
	}
	booking, err = s.Scheduler.CancelBooking(ctx, bookingID, s.allocate())
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	s.availabilityChanged(ctx)

	utils.GetLogger().Info("Booking cancelled",
		zap.String("bookingID", booking.ID), zap.String("date", booking.Date), zap.String("time", booking.Time))
	return booking, nil
}

// Reschedule moves a booking onto another of the same tutor's slots. The old
// slot is given back under a fresh id.
func (s *DefaultBookingService) Reschedule(ctx context.Context, bookingID string, req models.RescheduleBookingRequest) (booking *models.Booking, err error) {
	defer func() { utils.RecordBookingOperation("reschedule", err) }()

	target := req.Target()
	target.Time = availability.NormalizeTime(target.Time)
	if bookingID == "" {
		return nil, validationError("booking id is required")
	}
	if target.ID == "" {
		if target.Date == "" || target.Time == "" {
			return nil, validationError("newDate and newTime are required")
		}
		if err := validateSlotRef(target.Date, target.Time); err != nil {
			return nil, err
		}
	}

	booking, err = s.Scheduler.RescheduleBooking(ctx, bookingID, target, s.allocate(), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}
	s.availabilityChanged(ctx)
	s.scheduleCompletion(ctx, booking)

	utils.GetLogger().Info("Booking rescheduled",
		zap.String("bookingID", booking.ID), zap.String("date", booking.Date), zap.String("time", booking.Time))
	return booking, nil
}

func (s *DefaultBookingService) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Scheduler.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return b, nil
}

// Complete marks a booking Completed if it still sits at the payload's date
// and time. A moved or cancelled booking is left alone.
func (s *DefaultBookingService) Complete(ctx context.Context, payload models.CompletionPayload) (done bool, err error) {
	defer func() { utils.RecordBookingOperation("complete", err) }()

	done, err = s.Scheduler.CompleteBooking(ctx, payload.BookingID, payload.Date, payload.Time, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to complete booking: %w", err)
	}
	if done {
		utils.GetLogger().Info("Booking completed", zap.String("bookingID", payload.BookingID))
	} else {
		utils.GetLogger().Debug("Stale completion skipped", zap.String("bookingID", payload.BookingID))
	}
	return done, nil
}

func (s *DefaultBookingService) scheduleCompletion(ctx context.Context, b *models.Booking) {
	if s.Completion == nil {
		return
	}
	if err := s.Completion.Schedule(ctx, *b, s.location()); err != nil {
		utils.GetLogger().Error("Failed to schedule booking completion",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}
