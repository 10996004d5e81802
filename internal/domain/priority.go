package domain

import "time"

// Priority is the authoritative urgency lookup. Its response/resolution
// minutes are the SLA fallback when no SLARule matches.
type Priority struct {
	ID                    string
	Name                  string
	Level                 int
	ResponseTimeMinutes   int
	ResolutionTimeMinutes int
	IsDefault             bool
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
