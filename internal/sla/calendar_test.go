package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

func weekdayHours(start, end int) []domain.BusinessHours {
	days := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
	rows := make([]domain.BusinessHours, 0, len(days))
	for _, day := range days {
		rows = append(rows, domain.BusinessHours{
			DayOfWeek:    day,
			StartMinutes: start,
			EndMinutes:   end,
			TimeZone:     "UTC",
		})
	}
	return rows
}

func TestCalendarAddSkipsWeekend(t *testing.T) {
	// Mon-Fri 09:00-17:00 UTC, created Friday 16:30 needing 120 minutes:
	// 30 min Friday + weekend skipped + 90 min Monday -> Monday 10:30.
	c, err := NewCalendar(weekdayHours(9*60, 17*60), nil)
	require.NoError(t, err)

	start := time.Date(2025, 1, 10, 16, 30, 0, 0, time.UTC) // Friday
	got := c.Add(start, 120)
	assert.Equal(t, time.Date(2025, 1, 13, 10, 30, 0, 0, time.UTC), got)
}

func TestCalendarAddWithinSameDay(t *testing.T) {
	c, err := NewCalendar(weekdayHours(9*60, 17*60), nil)
	require.NoError(t, err)

	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC) // Monday
	got := c.Add(start, 60)
	assert.Equal(t, time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC), got)
}

func TestCalendarAddBeforeWindowOpens(t *testing.T) {
	c, err := NewCalendar(weekdayHours(9*60, 17*60), nil)
	require.NoError(t, err)

	// Clock starts ticking at 09:00, not at the creation instant.
	start := time.Date(2025, 1, 6, 6, 0, 0, 0, time.UTC) // Monday 06:00
	got := c.Add(start, 90)
	assert.Equal(t, time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC), got)
}

func TestCalendarAddSkipsHoliday(t *testing.T) {
	holidays := []domain.Holiday{
		{Name: "Founders Day", Date: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)}, // Monday
	}
	c, err := NewCalendar(weekdayHours(9*60, 17*60), holidays)
	require.NoError(t, err)

	start := time.Date(2025, 1, 10, 16, 30, 0, 0, time.UTC) // Friday
	got := c.Add(start, 120)
	// Monday is a holiday, so the remaining 90 minutes land on Tuesday.
	assert.Equal(t, time.Date(2025, 1, 14, 10, 30, 0, 0, time.UTC), got)
}

func TestCalendarAddMultipleWindowsPerDay(t *testing.T) {
	rows := []domain.BusinessHours{
		{DayOfWeek: time.Monday, StartMinutes: 9 * 60, EndMinutes: 12 * 60, TimeZone: "UTC"},
		{DayOfWeek: time.Monday, StartMinutes: 13 * 60, EndMinutes: 17 * 60, TimeZone: "UTC"},
	}
	c, err := NewCalendar(rows, nil)
	require.NoError(t, err)

	start := time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC) // Monday
	got := c.Add(start, 120)
	// 60 minutes until noon, lunch break skipped, 60 minutes after 13:00.
	assert.Equal(t, time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC), got)
}

func TestCalendarAddDeterministic(t *testing.T) {
	c, err := NewCalendar(weekdayHours(9*60, 17*60), nil)
	require.NoError(t, err)

	start := time.Date(2025, 1, 8, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, c.Add(start, 300), c.Add(start, 300))
}

func TestEmptyCalendarDegradesToPlainAdd(t *testing.T) {
	c, err := NewCalendar(nil, nil)
	require.NoError(t, err)

	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(45*time.Minute), c.Add(start, 45))
}

func TestComputeDueDatePlainAdd(t *testing.T) {
	createdAt := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	target := Target{ResolutionTimeMinutes: 240}

	got := ComputeDueDate(createdAt, target, nil)
	assert.Equal(t, createdAt.Add(240*time.Minute), got)
}

func TestComputeDueDateBusinessHours(t *testing.T) {
	c, err := NewCalendar(weekdayHours(9*60, 17*60), nil)
	require.NoError(t, err)

	createdAt := time.Date(2025, 1, 10, 16, 30, 0, 0, time.UTC) // Friday
	target := Target{ResolutionTimeMinutes: 120, BusinessHoursOnly: true}

	got := ComputeDueDate(createdAt, target, c)
	assert.Equal(t, time.Date(2025, 1, 13, 10, 30, 0, 0, time.UTC), got)
}

func TestComputeResponseDue(t *testing.T) {
	createdAt := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	got := ComputeResponseDue(createdAt, Target{ResponseTimeMinutes: 30, ResolutionTimeMinutes: 240}, nil)
	assert.Equal(t, createdAt.Add(30*time.Minute), got)

	assert.True(t, ComputeResponseDue(createdAt, Target{ResolutionTimeMinutes: 240}, nil).IsZero())
}
