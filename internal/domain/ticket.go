package domain

import "time"

// Ticket is the aggregate for support requests. Lookup references
// (status, priority, category) are authoritative; the referenced rows
// carry the behavioral flags.
type Ticket struct {
	ID                 string
	TicketNumber       string
	Title              string
	Description        string
	PriorityID         string
	StatusID           string
	CategoryID         string
	CompanyID          string
	DepartmentID       string
	TeamID             *string
	AssignedToID       *string
	CreatedByID        string
	Tags               []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DueDate            *time.Time
	ResponseDue        *time.Time
	FirstResponseAt    *time.Time
	ResolvedAt         *time.Time
	ClosedAt           *time.Time
	IsSLABreached      bool
	IsDeleted          bool
	DeletedAt          *time.Time
	MergedIntoTicketID *string
}

// IsMerged reports whether the ticket has been folded into another one.
// Merged tickets are inert and redirect to the target.
func (t *Ticket) IsMerged() bool {
	return t.MergedIntoTicketID != nil
}

// Mutable reports whether the ticket can accept direct mutation.
// Soft-deleted and merged-away tickets cannot.
func (t *Ticket) Mutable() bool {
	return !t.IsDeleted && !t.IsMerged()
}
