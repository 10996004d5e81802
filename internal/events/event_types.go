package events

import (
	"time"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
	EventTicketMerged          EventType = "ticket_merged"
	EventTicketDeleted         EventType = "ticket_deleted"
	EventTicketEscalated       EventType = "ticket_escalated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	CompanyID    string  `json:"company_id"`
	DepartmentID string  `json:"department_id"`
	TeamID       *string `json:"team_id,omitempty"`
	PriorityID   string  `json:"priority_id"`
	Title        string  `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatusID string `json:"old_status_id"`
	NewStatusID string `json:"new_status_id"`
	Comment     string `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriorityID string `json:"old_priority_id"`
	NewPriorityID string `json:"new_priority_id"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeStaffID *string `json:"assignee_staff_id,omitempty"`
	TeamID          *string `json:"team_id,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID     string                   `json:"comment_id"`
	CommentType   domain.TicketCommentType `json:"comment_type"`
	AuthorType    domain.CommentAuthorType `json:"author_type"`
	AuthorID      *string                  `json:"author_id,omitempty"`
	BodyPreview   string                   `json:"body_preview"`
	FirstResponse bool                     `json:"first_response"`
}

// TicketMergedPayload payload published on the merge target.
type TicketMergedPayload struct {
	SourceTicketIDs []string `json:"source_ticket_ids"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketNumber string `json:"ticket_number"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	RuleID          string                  `json:"rule_id"`
	Action          domain.EscalationAction `json:"action"`
	NotifiedUserIDs []string                `json:"notified_user_ids,omitempty"`
	NewPriorityID   *string                 `json:"new_priority_id,omitempty"`
	ReassignedToID  *string                 `json:"reassigned_to_id,omitempty"`
}
