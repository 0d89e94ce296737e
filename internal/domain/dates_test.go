package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripTime_KeepsCalendarDayOfOwnLocation(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"utc", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"east of utc after midnight", time.Date(2024, 3, 15, 0, 30, 0, 0, time.FixedZone("CET", 60*60))},
		{"west of utc late evening", time.Date(2024, 3, 15, 22, 0, 0, 0, time.FixedZone("MST", -7*60*60))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, StripTime(tt.in))
		})
	}
}

func TestMonthBoundaries(t *testing.T) {
	d := time.Date(2024, 3, 15, 23, 0, 0, 0, time.FixedZone("MST", -7*60*60))

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), FirstOfMonth(d))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), FirstOfYear(d))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), LastOfPreviousMonth(d))
	assert.Equal(t, YearMonth{Year: 2023, Month: time.December}, YearMonth{Year: 2024, Month: time.January}.Previous())
}
