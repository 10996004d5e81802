// Package sla resolves service-level targets for tickets and computes
// business-hours-aware deadlines and breach state.
package sla

import "errors"

// ErrNoApplicableSLA signals that neither an SLA rule nor a priority
// fallback supplies targets for a ticket. It is advisory: callers treat
// the ticket as unmonitored instead of failing the request.
var ErrNoApplicableSLA = errors.New("no applicable sla")

// Target is the effective response/resolution window for a ticket.
type Target struct {
	ResponseTimeMinutes   int
	ResolutionTimeMinutes int
	BusinessHoursOnly     bool
	// RuleID is set when a configured SLARule supplied the target, nil
	// when the priority fallback did.
	RuleID *string
}
