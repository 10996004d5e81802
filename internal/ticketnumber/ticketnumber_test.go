package ticketnumber

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateGeneratorSequencesWithinDay(t *testing.T) {
	gen := &dateGenerator{
		prefix: "HD",
		store:  NewMemoryCounterStore(),
		now:    func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) },
	}

	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	second, err := gen.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "HD-20260314-00001", first)
	assert.Equal(t, "HD-20260314-00002", second)
}

func TestDateGeneratorResetsAcrossDays(t *testing.T) {
	current := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	gen := &dateGenerator{
		prefix: "HD",
		store:  NewMemoryCounterStore(),
		now:    func() time.Time { return current },
	}

	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HD-20260314-00001", first)

	current = current.Add(2 * time.Minute)
	next, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HD-20260315-00001", next)
}
