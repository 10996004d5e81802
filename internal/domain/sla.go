package domain

import "time"

// SLARule binds response/resolution targets to an optional combination of
// priority, category and company. A nil dimension is a wildcard matching
// any value. When several rules match a ticket, the most specific one
// (most non-nil dimensions) wins.
type SLARule struct {
	ID                    string
	Name                  string
	PriorityID            *string
	CategoryID            *string
	CompanyID             *string
	ResponseTimeMinutes   int
	ResolutionTimeMinutes int
	BusinessHoursOnly     bool
	IsActive              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Specificity counts the non-nil match dimensions of the rule.
func (r *SLARule) Specificity() int {
	n := 0
	if r.PriorityID != nil {
		n++
	}
	if r.CategoryID != nil {
		n++
	}
	if r.CompanyID != nil {
		n++
	}
	return n
}

// Matches reports whether every non-nil dimension of the rule equals the
// ticket's value for that dimension.
func (r *SLARule) Matches(priorityID, categoryID, companyID string) bool {
	if r.PriorityID != nil && *r.PriorityID != priorityID {
		return false
	}
	if r.CategoryID != nil && *r.CategoryID != categoryID {
		return false
	}
	if r.CompanyID != nil && *r.CompanyID != companyID {
		return false
	}
	return true
}
