package cache

import (
	"context"
	"log/slog"
	"time"
)

// Store is a byte-payload cache with per-entry TTL. Get returns ok=false on
// a miss; store errors are reported but a failing store only degrades to
// recomputation, it never fails a read.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache is a read-through cache over a Store. Entries are immutable
// snapshots: nothing evicts on write, staleness is bounded by the short
// per-endpoint TTLs. With no store configured every call computes.
type Cache struct {
	store Store
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// Disabled returns a cache that always computes.
func Disabled() *Cache {
	return &Cache{}
}

// GetOrCompute returns the cached payload for key, or runs compute and
// stores the result for ttl. Compute errors are returned as-is and nothing
// is cached for them.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if c.store != nil {
		value, ok, err := c.store.Get(ctx, key)
		if err != nil {
			slog.Warn("Cache read failed, computing", "key", key, "error", err)
		} else if ok {
			return value, nil
		}
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if err := c.store.Set(ctx, key, value, ttl); err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		}
	}

	return value, nil
}
