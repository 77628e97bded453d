package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the entry bound used when MemoryConfig.Size is unset.
const DefaultMemorySize = 4096

// MemoryConfig configures a MemoryCache.
type MemoryConfig struct {
	// Size bounds the number of entries. Default: 4096
	Size int
}

// MemoryCache is a bounded in-process cache. Least recently used entries
// are evicted first. Expired entries read as misses and stay until they
// are overwritten or evicted, so Get never removes an entry a concurrent
// Set just stored.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a MemoryCache.
func NewMemoryCache(config MemoryConfig) *MemoryCache {
	if config.Size <= 0 {
		config.Size = DefaultMemorySize
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, memoryEntry](config.Size)
	return &MemoryCache{entries: entries, now: time.Now}
}

// Get retrieves a value from the cache. Returns (nil, false) on miss or expiry.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	v, _, ok := c.GetWithTTL(ctx, key)
	return v, ok
}

// GetWithTTL is Get plus the entry's remaining lifetime.
func (c *MemoryCache) GetWithTTL(_ context.Context, key string) ([]byte, time.Duration, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, 0, false
	}
	remaining := entry.expiresAt.Sub(c.now())
	if remaining <= 0 {
		return nil, 0, false
	}
	return entry.value, remaining, true
}

// Set stores a value with the given TTL. TTL=0 means no caching.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	c.entries.Add(key, memoryEntry{value: value, expiresAt: c.now().Add(ttl)})
	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of entries, including expired ones not yet
// dropped.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Ping always succeeds.
func (c *MemoryCache) Ping(context.Context) error {
	return nil
}

var (
	_ Cache         = (*MemoryCache)(nil)
	_ Pinger        = (*MemoryCache)(nil)
	_ ExpiringCache = (*MemoryCache)(nil)
)
