package domain

import "time"

// TicketLinkType enumerates relation kinds between tickets.
type TicketLinkType string

const (
	LinkTypeRelated   TicketLinkType = "RELATED"
	LinkTypeDuplicate TicketLinkType = "DUPLICATE"
	LinkTypeBlocks    TicketLinkType = "BLOCKS"
	LinkTypeBlockedBy TicketLinkType = "BLOCKED_BY"
)

// ValidLinkType reports whether t is a known link type.
func ValidLinkType(t TicketLinkType) bool {
	switch t {
	case LinkTypeRelated, LinkTypeDuplicate, LinkTypeBlocks, LinkTypeBlockedBy:
		return true
	}
	return false
}

// TicketLink is a directed edge between two tickets. Self-links are
// forbidden, as is a second edge between the same pair in either
// direction.
type TicketLink struct {
	ID             string
	SourceTicketID string
	TargetTicketID string
	LinkType       TicketLinkType
	CreatedByID    *string
	CreatedAt      time.Time
}
