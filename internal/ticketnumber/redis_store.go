package ticketnumber

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterTTL keeps stale per-day counters from accumulating in Redis.
const counterTTL = 48 * time.Hour

// RedisCounterStore backs ticket numbering with a shared Redis counter so
// multiple instances never hand out the same number.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore wraps the client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Increment atomically bumps the counter for the key.
func (s *RedisCounterStore) Increment(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if value == 1 {
		s.client.Expire(ctx, key, counterTTL)
	}
	return value, nil
}
