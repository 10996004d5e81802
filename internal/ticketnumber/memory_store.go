package ticketnumber

import (
	"context"
	"sync"
)

// MemoryCounterStore keeps counters in process memory. It serves tests and
// single-instance deployments running without Redis.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryCounterStore builds an empty store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]int64)}
}

// Increment bumps the counter for the key.
func (s *MemoryCounterStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}
