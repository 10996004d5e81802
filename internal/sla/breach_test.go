package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBreached(t *testing.T) {
	due := time.Date(2025, 1, 6, 17, 0, 0, 0, time.UTC)
	before := due.Add(-time.Hour)
	after := due.Add(time.Hour)

	tests := []struct {
		name       string
		resolvedAt *time.Time
		now        time.Time
		want       bool
	}{
		{name: "unresolved before due", now: before, want: false},
		{name: "unresolved past due", now: after, want: true},
		{name: "resolved in time", resolvedAt: &before, now: after, want: false},
		{name: "resolved late stays breached", resolvedAt: &after, now: after.Add(48 * time.Hour), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBreached(tt.resolvedAt, due, tt.now))
		})
	}
}

func TestIsBreachedZeroDueDate(t *testing.T) {
	assert.False(t, IsBreached(nil, time.Time{}, time.Now()))
}
