package cache

import (
	"context"
	"errors"
	"time"
)

// TieredConfig configures a TieredCache.
type TieredConfig struct {
	// BackfillTTL caps the L1 lifetime of entries. Entries copied from L2
	// also never outlive the L2 entry when L2 reports its remaining time.
	// A purge on one server leaves other servers' L1 copies in place for
	// at most this long. Default: 1 hour
	BackfillTTL time.Duration
}

// TieredCache reads through a fast local tier into a shared one. Hits in
// the shared tier are copied into the local tier; writes go to both.
type TieredCache struct {
	l1, l2      Cache
	backfillTTL time.Duration
}

// NewTieredCache layers l1 in front of l2.
func NewTieredCache(l1, l2 Cache, config TieredConfig) *TieredCache {
	if config.BackfillTTL <= 0 {
		config.BackfillTTL = time.Hour
	}
	return &TieredCache{l1: l1, l2: l2, backfillTTL: config.BackfillTTL}
}

// Get checks l1, then l2.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := c.l1.Get(ctx, key); ok {
		return v, true
	}
	v, remaining, ok := c.getL2(ctx, key)
	if !ok {
		return nil, false
	}
	ttl := c.backfillTTL
	if remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	_ = c.l1.Set(ctx, key, v, ttl)
	return v, true
}

func (c *TieredCache) getL2(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	if e, ok := c.l2.(ExpiringCache); ok {
		return e.GetWithTTL(ctx, key)
	}
	v, ok := c.l2.Get(ctx, key)
	return v, 0, ok
}

// Set writes both tiers. An l1 entry never outlives the l2 entry.
func (c *TieredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l1TTL := ttl
	if c.backfillTTL < l1TTL {
		l1TTL = c.backfillTTL
	}
	return errors.Join(
		c.l1.Set(ctx, key, value, l1TTL),
		c.l2.Set(ctx, key, value, ttl),
	)
}

// Delete removes key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.l1.Delete(ctx, key), c.l2.Delete(ctx, key))
}

// Ping checks the shared tier.
func (c *TieredCache) Ping(ctx context.Context) error {
	if p, ok := c.l2.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

var (
	_ Cache  = (*TieredCache)(nil)
	_ Pinger = (*TieredCache)(nil)
)
