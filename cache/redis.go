package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/resilience"
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	// Executor guards every command. Default: a circuit breaker named
	// "redis" and a 250ms timeout.
	Executor *resilience.Executor

	// Logger receives backend failures. Default: no-op
	Logger observe.Logger
}

// RedisCache stores entries in Redis with SET and an expiry, so a fleet of
// servers shares one cache tier.
type RedisCache struct {
	client redis.UniversalClient
	exec   *resilience.Executor
	logger observe.Logger
}

// NewRedisCache creates a RedisCache on client.
func NewRedisCache(client redis.UniversalClient, config RedisConfig) *RedisCache {
	if config.Executor == nil {
		config.Executor = resilience.NewExecutor(
			resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "redis"})),
			resilience.WithTimeout(250*time.Millisecond),
		)
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &RedisCache{
		client: client,
		exec:   config.Executor,
		logger: config.Logger.With(observe.F("component", "cache.redis")),
	}
}

// Get retrieves a value. Backend failures are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		value = b
		return err
	})
	if err != nil {
		c.logger.Warn(ctx, "redis get failed", observe.F("key", key), observe.Err(err))
		return nil, false
	}
	if value == nil {
		return nil, false
	}
	return value, true
}

// GetWithTTL reads a value and its PTTL in one round trip. Backend
// failures are logged and reported as a miss.
func (c *RedisCache) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	var (
		value []byte
		ttl   time.Duration
	)
	err := c.exec.Execute(ctx, func(ctx context.Context) error {
		pipe := c.client.Pipeline()
		get := pipe.Get(ctx, key)
		pttl := pipe.PTTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		b, err := get.Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		value, ttl = b, pttl.Val()
		return nil
	})
	if err != nil {
		c.logger.Warn(ctx, "redis get failed", observe.F("key", key), observe.Err(err))
		return nil, 0, false
	}
	if value == nil {
		return nil, 0, false
	}
	return value, ttl, true
}

// Set stores a value with the given TTL. TTL=0 means no caching.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	return c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
}

// Delete removes a value. Idempotent - no error on miss.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.exec.Execute(ctx, func(ctx context.Context) error {
		return c.client.Del(ctx, key).Err()
	})
}

// Ping checks the connection, bypassing the circuit breaker so health
// probes see the real backend state.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

var (
	_ Cache         = (*RedisCache)(nil)
	_ Pinger        = (*RedisCache)(nil)
	_ ExpiringCache = (*RedisCache)(nil)
)
