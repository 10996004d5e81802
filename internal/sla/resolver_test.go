package sla

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/helpdesk-service/internal/domain"
)

type fakeRuleSource struct {
	rules []domain.SLARule
}

func (f *fakeRuleSource) ListActive(_ context.Context) ([]domain.SLARule, error) {
	return f.rules, nil
}

type fakePrioritySource struct {
	priorities map[string]*domain.Priority
}

func (f *fakePrioritySource) GetByID(_ context.Context, id string) (*domain.Priority, error) {
	p, ok := f.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func strptr(s string) *string { return &s }

func newResolverFixture(rules []domain.SLARule) *Resolver {
	return NewResolver(
		&fakeRuleSource{rules: rules},
		&fakePrioritySource{priorities: map[string]*domain.Priority{
			"prio-high": {
				ID:                    "prio-high",
				Name:                  "High",
				Level:                 3,
				ResponseTimeMinutes:   30,
				ResolutionTimeMinutes: 240,
			},
			"prio-untracked": {
				ID:   "prio-untracked",
				Name: "Untracked",
			},
		}},
	)
}

func TestResolveMostSpecificRuleWins(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rules := []domain.SLARule{
		{
			ID:                    "rule-priority-only",
			PriorityID:            strptr("prio-high"),
			ResponseTimeMinutes:   60,
			ResolutionTimeMinutes: 480,
			CreatedAt:             base,
		},
		{
			ID:                    "rule-full",
			PriorityID:            strptr("prio-high"),
			CategoryID:            strptr("cat-net"),
			CompanyID:             strptr("co-acme"),
			ResponseTimeMinutes:   15,
			ResolutionTimeMinutes: 120,
			BusinessHoursOnly:     true,
			CreatedAt:             base,
		},
	}
	resolver := newResolverFixture(rules)

	target, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	require.NotNil(t, target.RuleID)
	assert.Equal(t, "rule-full", *target.RuleID)
	assert.Equal(t, 15, target.ResponseTimeMinutes)
	assert.Equal(t, 120, target.ResolutionTimeMinutes)
	assert.True(t, target.BusinessHoursOnly)
}

func TestResolveNonMatchingDimensionExcludesRule(t *testing.T) {
	resolver := newResolverFixture([]domain.SLARule{
		{
			ID:                    "rule-other-company",
			PriorityID:            strptr("prio-high"),
			CompanyID:             strptr("co-other"),
			ResolutionTimeMinutes: 60,
		},
	})

	target, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	assert.Nil(t, target.RuleID, "should fall back to priority minutes")
	assert.Equal(t, 240, target.ResolutionTimeMinutes)
	assert.Equal(t, 30, target.ResponseTimeMinutes)
}

func TestResolveTieBrokenByNewestRule(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	resolver := newResolverFixture([]domain.SLARule{
		{
			ID:                    "rule-a",
			PriorityID:            strptr("prio-high"),
			ResolutionTimeMinutes: 300,
			CreatedAt:             older,
		},
		{
			ID:                    "rule-b",
			PriorityID:            strptr("prio-high"),
			ResolutionTimeMinutes: 180,
			CreatedAt:             newer,
		},
	})

	target, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	require.NotNil(t, target.RuleID)
	assert.Equal(t, "rule-b", *target.RuleID)
}

func TestResolveTieSameCreatedAtBrokenByID(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	resolver := newResolverFixture([]domain.SLARule{
		{ID: "rule-a", PriorityID: strptr("prio-high"), ResolutionTimeMinutes: 300, CreatedAt: created},
		{ID: "rule-z", PriorityID: strptr("prio-high"), ResolutionTimeMinutes: 180, CreatedAt: created},
	})

	target, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	require.NotNil(t, target.RuleID)
	assert.Equal(t, "rule-z", *target.RuleID)
}

func TestResolveDeterministic(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	resolver := newResolverFixture([]domain.SLARule{
		{ID: "rule-a", PriorityID: strptr("prio-high"), ResolutionTimeMinutes: 300, CreatedAt: created},
		{ID: "rule-b", CategoryID: strptr("cat-net"), ResolutionTimeMinutes: 200, CreatedAt: created},
	})

	first, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "prio-high", "cat-net", "co-acme")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveNoRuleNoFallback(t *testing.T) {
	resolver := newResolverFixture(nil)

	_, err := resolver.Resolve(context.Background(), "prio-untracked", "cat-net", "co-acme")
	assert.ErrorIs(t, err, ErrNoApplicableSLA)

	_, err = resolver.Resolve(context.Background(), "prio-missing", "cat-net", "co-acme")
	assert.ErrorIs(t, err, ErrNoApplicableSLA)
}
