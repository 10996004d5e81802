package sla

import "time"

// IsBreached reports whether a ticket missed its resolution deadline.
// An unresolved ticket breaches once now passes the due date; a resolved
// ticket breaches when resolution landed after it. A breach is permanent:
// resolving late or reopening never clears it.
func IsBreached(resolvedAt *time.Time, dueDate time.Time, now time.Time) bool {
	if dueDate.IsZero() {
		return false
	}
	if resolvedAt == nil {
		return now.After(dueDate)
	}
	return resolvedAt.After(dueDate)
}
