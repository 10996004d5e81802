package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOnce(t *testing.T) {
	first := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	var field *time.Time
	assert.True(t, SetOnce(&field, first))
	require.NotNil(t, field)
	assert.Equal(t, first, *field)

	// Re-triggering the milestone is a no-op.
	assert.False(t, SetOnce(&field, second))
	assert.Equal(t, first, *field)
}

func TestEscalationRuleTargetLists(t *testing.T) {
	rule := EscalationRule{
		NotifyUserIDs: "u1, u2 ,,u3",
		NotifyRoleIDs: "",
	}
	assert.Equal(t, []string{"u1", "u2", "u3"}, rule.TargetUserIDs())
	assert.Nil(t, rule.TargetRoleIDs())
}
