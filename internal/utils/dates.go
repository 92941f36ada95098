package utils

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format of expiry dates.
const DateLayout = "2006-01-02"

// Clock returns the current time; services take one so tests can pin "today".
type Clock func() time.Time

// DateOnly truncates t to local midnight in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date (or an RFC3339 timestamp, as older
// stored blobs carry) at midnight in loc. ok is false for empty or
// unparseable input.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOnly(t.In(loc)), true
	}
	return time.Time{}, false
}

// DaysBetween counts whole calendar days from a to b (both truncated to midnight).
func DaysBetween(a, b time.Time) int {
	a, b = DateOnly(a), DateOnly(b.In(a.Location()))
	// Round to absorb DST hour shifts.
	return int(math.Round(b.Sub(a).Hours() / 24))
}
