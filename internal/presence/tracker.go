package presence

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const staffSetKey = "presence:staff"

// Tracker keeps a Redis-backed registry of recently seen staff members.
// Each authenticated staff request refreshes the member's score; entries
// older than the TTL fall out of the active set.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewTracker builds a tracker. A nil client disables tracking.
func NewTracker(client *redis.Client, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Tracker{client: client, ttl: ttl, now: time.Now}
}

// Touch marks the staff member as seen now.
func (t *Tracker) Touch(ctx context.Context, staffID string) error {
	if t == nil || t.client == nil || staffID == "" {
		return nil
	}
	return t.client.ZAdd(ctx, staffSetKey, redis.Z{
		Score:  float64(t.now().Unix()),
		Member: staffID,
	}).Err()
}

// Active returns the IDs of staff seen within the TTL window and prunes
// expired entries.
func (t *Tracker) Active(ctx context.Context) ([]string, error) {
	if t == nil || t.client == nil {
		return nil, nil
	}
	cutoff := t.now().Add(-t.ttl).Unix()
	if err := t.client.ZRemRangeByScore(ctx, staffSetKey, "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return nil, err
	}
	return t.client.ZRangeByScore(ctx, staffSetKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
}
