package sla

import (
	"context"
	"sort"
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// maxWalkDays bounds the business-hours walk so a misconfigured calendar
// (all days holidays, zero-width windows) cannot loop forever.
const maxWalkDays = 366 * 5

type window struct {
	start int // minutes from midnight
	end   int
}

// Calendar is an immutable snapshot of business-hours windows and holiday
// exclusions. Deadline arithmetic on a snapshot is pure: the same inputs
// always produce the same output.
type Calendar struct {
	loc      *time.Location
	windows  map[time.Weekday][]window
	holidays map[string]struct{} // keyed by yyyy-mm-dd in loc
}

// CalendarSource supplies business-hours rows.
type CalendarSource interface {
	ListActive(ctx context.Context) ([]domain.BusinessHours, error)
}

// HolidaySource supplies holiday dates.
type HolidaySource interface {
	List(ctx context.Context) ([]domain.Holiday, error)
}

// LoadCalendar builds a snapshot from the configured stores. The time zone
// of the first window wins; mixed-zone configurations are collapsed into
// it. UTC is the default for an empty configuration.
func LoadCalendar(ctx context.Context, hours CalendarSource, holidays HolidaySource) (*Calendar, error) {
	rows, err := hours.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	days, err := holidays.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCalendar(rows, days)
}

// NewCalendar builds a snapshot from already-loaded rows.
func NewCalendar(rows []domain.BusinessHours, days []domain.Holiday) (*Calendar, error) {
	loc := time.UTC
	for _, row := range rows {
		if row.TimeZone == "" {
			continue
		}
		parsed, err := time.LoadLocation(row.TimeZone)
		if err != nil {
			return nil, err
		}
		loc = parsed
		break
	}

	c := &Calendar{
		loc:      loc,
		windows:  make(map[time.Weekday][]window),
		holidays: make(map[string]struct{}),
	}
	for _, row := range rows {
		if row.EndMinutes <= row.StartMinutes {
			continue
		}
		c.windows[row.DayOfWeek] = append(c.windows[row.DayOfWeek], window{
			start: row.StartMinutes,
			end:   row.EndMinutes,
		})
	}
	for day, wins := range c.windows {
		sort.Slice(wins, func(i, j int) bool { return wins[i].start < wins[j].start })
		c.windows[day] = wins
	}
	for _, h := range days {
		c.holidays[h.Date.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	return c, nil
}

// Empty reports whether no working windows are configured at all.
func (c *Calendar) Empty() bool {
	return len(c.windows) == 0
}

// Add walks forward from start accumulating only minutes that fall inside
// the configured windows, skipping holidays entirely, until the required
// minute count is exhausted. An empty calendar degrades to plain addition.
func (c *Calendar) Add(start time.Time, minutes int) time.Time {
	if minutes <= 0 {
		return start
	}
	if c.Empty() {
		return start.Add(time.Duration(minutes) * time.Minute)
	}

	cursor := start.In(c.loc)
	remaining := minutes

	for day := 0; day < maxWalkDays; day++ {
		if !c.isHoliday(cursor) {
			midnight := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 0, 0, 0, 0, c.loc)
			offset := int(cursor.Sub(midnight) / time.Minute)

			for _, win := range c.windows[cursor.Weekday()] {
				from := win.start
				if offset > from {
					from = offset
				}
				if from >= win.end {
					continue
				}
				available := win.end - from
				if available >= remaining {
					return midnight.Add(time.Duration(from+remaining) * time.Minute)
				}
				remaining -= available
			}
		}
		next := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 0, 0, 0, 0, c.loc).AddDate(0, 0, 1)
		cursor = next
	}

	// Safety stop for degenerate configurations.
	return start.Add(time.Duration(minutes) * time.Minute)
}

func (c *Calendar) isHoliday(t time.Time) bool {
	_, ok := c.holidays[t.In(c.loc).Format(time.DateOnly)]
	return ok
}

// ComputeDueDate returns the resolution deadline for a ticket created at
// createdAt under the given target.
func ComputeDueDate(createdAt time.Time, target Target, calendar *Calendar) time.Time {
	return computeDeadline(createdAt, target.ResolutionTimeMinutes, target.BusinessHoursOnly, calendar)
}

// ComputeResponseDue returns the first-response deadline, or the zero time
// when the target carries no response window.
func ComputeResponseDue(createdAt time.Time, target Target, calendar *Calendar) time.Time {
	if target.ResponseTimeMinutes <= 0 {
		return time.Time{}
	}
	return computeDeadline(createdAt, target.ResponseTimeMinutes, target.BusinessHoursOnly, calendar)
}

func computeDeadline(createdAt time.Time, minutes int, businessHoursOnly bool, calendar *Calendar) time.Time {
	if !businessHoursOnly || calendar == nil {
		return createdAt.Add(time.Duration(minutes) * time.Minute)
	}
	return calendar.Add(createdAt, minutes)
}
