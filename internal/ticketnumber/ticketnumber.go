package ticketnumber

import (
	"context"
	"fmt"
	"time"
)

// CounterStore hands out monotonically increasing values per counter key.
type CounterStore interface {
	Increment(ctx context.Context, key string) (int64, error)
}

// Generator produces unique human-readable ticket numbers.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// dateGenerator issues numbers of the form PREFIX-YYYYMMDD-NNNNN where the
// counter resets each UTC day.
type dateGenerator struct {
	prefix string
	store  CounterStore
	now    func() time.Time
}

// NewDateGenerator builds a date-scoped generator on top of the store.
func NewDateGenerator(prefix string, store CounterStore) Generator {
	return &dateGenerator{prefix: prefix, store: store, now: time.Now}
}

func (g *dateGenerator) Next(ctx context.Context) (string, error) {
	day := g.now().UTC().Format("20060102")
	counter, err := g.store.Increment(ctx, "ticket:counter:"+day)
	if err != nil {
		return "", fmt.Errorf("increment ticket counter: %w", err)
	}
	return fmt.Sprintf("%s-%s-%05d", g.prefix, day, counter), nil
}
