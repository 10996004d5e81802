package sla

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

// RuleSource supplies the active SLA rules to score.
type RuleSource interface {
	ListActive(ctx context.Context) ([]domain.SLARule, error)
}

// PrioritySource supplies the priority lookup used as fallback.
type PrioritySource interface {
	GetByID(ctx context.Context, id string) (*domain.Priority, error)
}

// Resolver selects the effective SLA target for a ticket's
// priority/category/company triple.
type Resolver struct {
	rules      RuleSource
	priorities PrioritySource
}

// NewResolver constructs the resolver.
func NewResolver(rules RuleSource, priorities PrioritySource) *Resolver {
	return &Resolver{rules: rules, priorities: priorities}
}

// Resolve scans active rules and returns the most specific match: among
// rules whose non-nil dimensions all match, the one with the most non-nil
// dimensions wins. Ties are broken deterministically by newest CreatedAt,
// then by greater ID, so overlapping rules with equal specificity are a
// resolved ambiguity rather than an error. With no matching rule the
// priority entity's own minutes are the fallback; if those are absent too,
// ErrNoApplicableSLA is returned.
func (r *Resolver) Resolve(ctx context.Context, priorityID, categoryID, companyID string) (Target, error) {
	rules, err := r.rules.ListActive(ctx)
	if err != nil {
		return Target{}, err
	}

	var best *domain.SLARule
	for i := range rules {
		rule := &rules[i]
		if !rule.Matches(priorityID, categoryID, companyID) {
			continue
		}
		if best == nil || betterCandidate(rule, best) {
			best = rule
		}
	}
	if best != nil {
		ruleID := best.ID
		return Target{
			ResponseTimeMinutes:   best.ResponseTimeMinutes,
			ResolutionTimeMinutes: best.ResolutionTimeMinutes,
			BusinessHoursOnly:     best.BusinessHoursOnly,
			RuleID:                &ruleID,
		}, nil
	}

	return r.priorityFallback(ctx, priorityID)
}

func (r *Resolver) priorityFallback(ctx context.Context, priorityID string) (Target, error) {
	priority, err := r.priorities.GetByID(ctx, priorityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Target{}, ErrNoApplicableSLA
		}
		return Target{}, err
	}
	if priority.ResolutionTimeMinutes <= 0 {
		return Target{}, ErrNoApplicableSLA
	}
	return Target{
		ResponseTimeMinutes:   priority.ResponseTimeMinutes,
		ResolutionTimeMinutes: priority.ResolutionTimeMinutes,
	}, nil
}

// betterCandidate reports whether rule beats the current best: higher
// specificity first, then newest CreatedAt, then greater ID.
func betterCandidate(rule, best *domain.SLARule) bool {
	rs, bs := rule.Specificity(), best.Specificity()
	if rs != bs {
		return rs > bs
	}
	if !rule.CreatedAt.Equal(best.CreatedAt) {
		return rule.CreatedAt.After(best.CreatedAt)
	}
	return rule.ID > best.ID
}
