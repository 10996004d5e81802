package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus        TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee      TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypePriority      TicketChangeType = "PRIORITY_CHANGE"
	ChangeTypeTeam          TicketChangeType = "TEAM_CHANGE"
	ChangeTypeDepartment    TicketChangeType = "DEPARTMENT_CHANGE"
	ChangeTypeMerge         TicketChangeType = "MERGE"
	ChangeTypeLink          TicketChangeType = "LINK"
	ChangeTypeDelete        TicketChangeType = "SOFT_DELETE"
	ChangeTypeFirstResponse TicketChangeType = "FIRST_RESPONSE"
	ChangeTypeEscalation    TicketChangeType = "ESCALATION"
)

// TicketHistory is an immutable audit trail entry. Entries are append-only
// and never mutated; reopening a resolved ticket keeps the earlier rows.
type TicketHistory struct {
	ID            string
	TicketID      string
	ChangedByType CommentAuthorType
	ChangedByID   *string
	ChangeType    TicketChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
