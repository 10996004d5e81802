package dto

// StatusRequest payload for status lookup rows.
type StatusRequest struct {
	Name       string `json:"name"`
	IsDefault  bool   `json:"is_default"`
	IsResolved bool   `json:"is_resolved"`
	IsClosed   bool   `json:"is_closed"`
	IsActive   bool   `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

// PriorityRequest payload for priority lookup rows.
type PriorityRequest struct {
	Name                  string `json:"name"`
	Level                 int    `json:"level"`
	ResponseTimeMinutes   int    `json:"response_time_minutes"`
	ResolutionTimeMinutes int    `json:"resolution_time_minutes"`
	IsDefault             bool   `json:"is_default"`
	IsActive              bool   `json:"is_active"`
}

// CategoryRequest payload for categories.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id,omitempty"`
	IsActive    bool    `json:"is_active"`
}

// CompanyRequest payload for tenant companies.
type CompanyRequest struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	IsActive bool   `json:"is_active"`
}

// DepartmentRequest payload for departments.
type DepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// TeamRequest payload for teams.
type TeamRequest struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
}

// SLARuleRequest payload for SLA rules. Nil dimensions are wildcards.
type SLARuleRequest struct {
	Name                  string  `json:"name"`
	PriorityID            *string `json:"priority_id,omitempty"`
	CategoryID            *string `json:"category_id,omitempty"`
	CompanyID             *string `json:"company_id,omitempty"`
	ResponseTimeMinutes   int     `json:"response_time_minutes"`
	ResolutionTimeMinutes int     `json:"resolution_time_minutes"`
	BusinessHoursOnly     bool    `json:"business_hours_only"`
	IsActive              bool    `json:"is_active"`
}

// EscalationRuleRequest payload for escalation rules.
type EscalationRuleRequest struct {
	Name           string  `json:"name"`
	SLARuleID      *string `json:"sla_rule_id,omitempty"`
	PriorityID     *string `json:"priority_id,omitempty"`
	CategoryID     *string `json:"category_id,omitempty"`
	TriggerMinutes int     `json:"trigger_minutes"`
	Action         string  `json:"action"`
	NotifyUserIDs  string  `json:"notify_user_ids,omitempty"`
	NotifyRoleIDs  string  `json:"notify_role_ids,omitempty"`
	ReassignToID   *string `json:"reassign_to_id,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// BusinessHoursRequest payload for working windows.
type BusinessHoursRequest struct {
	DayOfWeek    int    `json:"day_of_week"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	TimeZone     string `json:"time_zone"`
	IsActive     bool   `json:"is_active"`
}

// HolidayRequest payload for holidays, date formatted YYYY-MM-DD.
type HolidayRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}
