package schedulerRepo

import (
	"fmt"
	"time"

	"studybuddy/models"
	"studybuddy/services/availability"
	"studybuddy/utils"
)

// ConsumeSlot removes the slot ref points at from the tutor's availability and
// returns it. A slot that is no longer listed means someone else booked it.
func ConsumeSlot(t *models.Tutor, ref models.SlotRef) (models.Slot, error) {
	list, slot, ok := availability.Remove(t.Availability, ref)
	if !ok {
		return models.Slot{}, fmt.Errorf("slot %s is no longer available for tutor %s: %w", describe(ref), t.ID, utils.ErrConflict)
	}
	t.Availability = list
	return slot, nil
}

// RestoreSlot returns an Available slot at (date, tm) to the tutor's list,
// keeping it sorted.
func RestoreSlot(t *models.Tutor, date, tm, slotID string) models.Slot {
	slot := restoredSlot(date, tm, slotID)
	t.Availability = availability.InsertSorted(t.Availability, slot)
	return slot
}

// Reschedulable rejects bookings that can no longer move or be cancelled.
func Reschedulable(b *models.Booking) error {
	if b.Status == models.BookingCompleted {
		return fmt.Errorf("booking %s is already completed: %w", b.ID, utils.ErrConflict)
	}
	return nil
}

// ApplyReschedule mutates the booking in place to point at slot.
func ApplyReschedule(b *models.Booking, slot models.Slot, now time.Time) {
	b.Date = slot.Date
	b.Time = slot.Time
	b.Status = models.BookingRescheduled
	b.UpdatedAt = now
}

func restoredSlot(date, tm, slotID string) models.Slot {
	return availability.Restore(date, tm, func() string { return slotID })
}

func describe(ref models.SlotRef) string {
	if ref.ID != "" {
		return ref.ID
	}
	return ref.Date + " " + ref.Time
}
