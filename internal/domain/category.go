package domain

import "time"

// Category classifies tickets. ParentID forms a tree; the write boundary
// rejects updates that would introduce a cycle.
type Category struct {
	ID          string
	Name        string
	Description string
	ParentID    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
