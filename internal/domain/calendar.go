package domain

import "time"

// BusinessHours defines a working window for one day of the week.
// Start and end are minutes from midnight in the window's time zone.
type BusinessHours struct {
	ID           string
	DayOfWeek    time.Weekday
	StartMinutes int
	EndMinutes   int
	TimeZone     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Holiday is a calendar exclusion; the SLA clock does not run on it.
type Holiday struct {
	ID        string
	Name      string
	Date      time.Time
	CreatedAt time.Time
}
