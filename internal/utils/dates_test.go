package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	loc := time.UTC

	d, ok := ParseDate("2026-06-01", loc)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, loc), d)

	d, ok = ParseDate("2026-06-01T15:04:05Z", loc)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, loc), d)

	for _, bad := range []string{"", "   ", "tomorrow", "2026-13-01", "06/01/2026"} {
		_, ok := ParseDate(bad, loc)
		assert.False(t, ok, bad)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 1, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(a, time.Date(2026, 1, 15, 0, 1, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysBetween(a, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, DaysBetween(a, time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, -5, DaysBetween(a, time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)))
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	a := time.Date(2026, 3, 7, 12, 0, 0, 0, ny)
	b := time.Date(2026, 3, 9, 12, 0, 0, 0, ny)
	assert.Equal(t, 2, DaysBetween(a, b))
}
