// Package availability implements the ordered slot list a tutor profile owns.
// Every function treats its input slice as a value: the caller's slice is
// never modified in place.
package availability

import (
	"iter"
	"slices"
	"strings"
	"time"

	"studybuddy/models"

	"github.com/google/uuid"
)

// IDAllocator returns a fresh slot id.
type IDAllocator func() string

// NewSlotID is the default allocator.
func NewSlotID() string {
	return uuid.NewString()
}

// Compare orders slots by date, then by time. Both are compared as strings,
// which is chronological for "YYYY-MM-DD" and zero-padded "HH:MM".
func Compare(a, b models.Slot) int {
	if c := strings.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	return strings.Compare(NormalizeTime(a.Time), NormalizeTime(b.Time))
}

// Sort returns a copy of list ordered by Compare. Equal keys keep their order.
func Sort(list []models.Slot) []models.Slot {
	out := slices.Clone(list)
	slices.SortStableFunc(out, Compare)
	return out
}

// InsertSorted adds slot and returns the list in total (date, time) order.
func InsertSorted(list []models.Slot, slot models.Slot) []models.Slot {
	out := Sort(list)
	i := len(out)
	for j, s := range out {
		if Compare(s, slot) > 0 {
			i = j
			break
		}
	}
	return slices.Insert(out, i, slot)
}

// RemoveByID drops the slot with the given id. A missing id is not an error;
// the second result reports whether anything was removed.
func RemoveByID(list []models.Slot, id string) ([]models.Slot, bool) {
	i := slices.IndexFunc(list, func(s models.Slot) bool { return s.ID == id })
	if i < 0 || id == "" {
		return slices.Clone(list), false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}

// RemoveByDateTime drops the first slot matching date and time exactly. When
// duplicates exist only the first one is removed.
func RemoveByDateTime(list []models.Slot, date, tm string) ([]models.Slot, bool) {
	tm = NormalizeTime(tm)
	i := slices.IndexFunc(list, func(s models.Slot) bool { return s.Date == date && NormalizeTime(s.Time) == tm })
	if i < 0 {
		return slices.Clone(list), false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}

// Find returns the slot ref points at: by id when set, else by date and time.
func Find(list []models.Slot, ref models.SlotRef) (models.Slot, bool) {
	i := slices.IndexFunc(list, func(s models.Slot) bool { return matches(s, ref) })
	if i < 0 {
		return models.Slot{}, false
	}
	return list[i], true
}

// Remove consumes the slot ref points at and returns it.
func Remove(list []models.Slot, ref models.SlotRef) ([]models.Slot, models.Slot, bool) {
	slot, ok := Find(list, ref)
	if !ok {
		return slices.Clone(list), models.Slot{}, false
	}
	if ref.ID != "" {
		out, _ := RemoveByID(list, ref.ID)
		return out, slot, true
	}
	out, _ := RemoveByDateTime(list, ref.Date, ref.Time)
	return out, slot, true
}

func matches(s models.Slot, ref models.SlotRef) bool {
	if ref.ID != "" {
		return s.ID == ref.ID
	}
	return ref.Date != "" && s.Date == ref.Date && NormalizeTime(s.Time) == NormalizeTime(ref.Time)
}

// Restore builds the Available slot returned to a tutor when a booking at
// (date, time) is cancelled or moved away.
func Restore(date, tm string, allocate IDAllocator) models.Slot {
	if allocate == nil {
		allocate = NewSlotID
	}
	return models.Slot{ID: allocate(), Date: date, Time: tm, Status: models.SlotAvailable}
}

// FilterActive yields the slots dated on or after reference's calendar day.
// Slots whose date does not parse are skipped.
func FilterActive(list []models.Slot, reference time.Time) iter.Seq[models.Slot] {
	y, m, d := reference.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, reference.Location())
	return func(yield func(models.Slot) bool) {
		for _, s := range list {
			day, err := time.ParseInLocation(models.DateLayout, s.Date, reference.Location())
			if err != nil || day.Before(midnight) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Active is the listing view of a slot list: active slots only, sorted.
func Active(list []models.Slot, reference time.Time) []models.Slot {
	out := slices.Collect(FilterActive(list, reference))
	if out == nil {
		out = []models.Slot{}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// NormalizeTime accepts "HHMM", "H:MM" or "HH:MM" and returns zero-padded
// "HH:MM". Anything that does not parse is returned trimmed but otherwise
// unchanged.
func NormalizeTime(tm string) string {
	tm = strings.TrimSpace(tm)
	if len(tm) == 4 && !strings.Contains(tm, ":") {
		tm = tm[:2] + ":" + tm[2:]
	}
	if parsed, err := time.Parse(models.TimeLayout, tm); err == nil {
		return parsed.Format(models.TimeLayout)
	}
	return tm
}

// Normalize prepares a client-supplied list for storage: expired or corrupt
// slots are dropped, times are normalized, missing or repeated ids are
// reallocated, repeated (date, time) pairs collapse to the first one, empty
// statuses become Available, and the result is sorted.
func Normalize(list []models.Slot, reference time.Time, allocate IDAllocator) []models.Slot {
	if allocate == nil {
		allocate = NewSlotID
	}

	seenIDs := make(map[string]bool, len(list))
	seenKeys := make(map[string]bool, len(list))
	out := make([]models.Slot, 0, len(list))
	for s := range FilterActive(list, reference) {
		s.Time = NormalizeTime(s.Time)
		if _, err := time.Parse(models.TimeLayout, s.Time); err != nil {
			continue
		}
		key := s.Date + "T" + s.Time
		if seenKeys[key] {
			continue
		}
		seenKeys[key] = true

		if s.ID == "" || seenIDs[s.ID] {
			s.ID = allocate()
		}
		seenIDs[s.ID] = true

		if s.Status == "" {
			s.Status = models.SlotAvailable
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, Compare)
	return out
}
