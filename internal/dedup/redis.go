package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"NewsScreener/internal/ports"
)

const seenKeyPrefix = "screener:seen:"

// Redis remembers screened article IDs across process runs. Keys expire
// after the configured TTL so storage stays bounded.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SeenCache = (*Redis)(nil)

// NewRedis connects a seen cache to the given address.
func NewRedis(addr string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Seen reports whether the article ID was marked within the TTL window.
func (r *Redis) Seen(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, seenKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// Mark records the article ID with the configured expiry.
func (r *Redis) Mark(ctx context.Context, id string) error {
	if err := r.client.Set(ctx, seenKeyPrefix+id, 1, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
