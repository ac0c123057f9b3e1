package booking

import (
	"time"

	"studybuddy/services/availability"
)

const (
	LabelUpcoming = "upcoming"
	LabelPast     = "past"
)

const dateTimeLayout = "2006-01-02T15:04"

// IsUpcoming reports whether the session at date and tm starts at or after
// now, reading both in loc. Times may be "HH:MM" or "HHMM". Input that does
// not parse counts as past.
func IsUpcoming(date, tm string, now time.Time, loc *time.Location) bool {
	start, ok := SessionStart(date, tm, loc)
	if !ok {
		return false
	}
	return !start.Before(now)
}

// Classify labels a booking time as LabelUpcoming or LabelPast.
func Classify(date, tm string, now time.Time, loc *time.Location) string {
	if IsUpcoming(date, tm, now, loc) {
		return LabelUpcoming
	}
	return LabelPast
}

// SessionStart parses a slot's date and time in loc.
func SessionStart(date, tm string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation(dateTimeLayout, date+"T"+availability.NormalizeTime(tm), loc)
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}
