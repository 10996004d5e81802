package domain

import (
	"strings"
	"time"
)

// EscalationAction enumerates what an escalation rule does when it fires.
type EscalationAction string

const (
	EscalationActionNotify           EscalationAction = "NOTIFY"
	EscalationActionReassign         EscalationAction = "REASSIGN"
	EscalationActionEscalatePriority EscalationAction = "ESCALATE_PRIORITY"
)

// EscalationRule defines an elapsed-time trigger against open tickets.
// It is linked either to an SLARule or directly to a priority/category
// condition. Notification targets are stored as comma-delimited ID lists
// and parsed at evaluation time.
type EscalationRule struct {
	ID             string
	Name           string
	SLARuleID      *string
	PriorityID     *string
	CategoryID     *string
	TriggerMinutes int
	Action         EscalationAction
	NotifyUserIDs  string
	NotifyRoleIDs  string
	ReassignToID   *string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TargetUserIDs parses the delimited notification user list.
func (r *EscalationRule) TargetUserIDs() []string {
	return splitIDList(r.NotifyUserIDs)
}

// TargetRoleIDs parses the delimited notification role list.
func (r *EscalationRule) TargetRoleIDs() []string {
	return splitIDList(r.NotifyRoleIDs)
}

func splitIDList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// EscalationRecord marks that a rule already fired for a ticket so the
// evaluator stays at-most-once per ticket and rule.
type EscalationRecord struct {
	ID        string
	TicketID  string
	RuleID    string
	Action    EscalationAction
	FiredAt   time.Time
	CreatedAt time.Time
}
