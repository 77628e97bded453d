package resilience

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of requests per second per client.
	// Default: 50
	Rate float64

	// Burst is the bucket size per client. Default: 100
	Burst int

	// MaxClients bounds the number of tracked clients; the least recently
	// seen bucket is dropped first. Default: 10000
	MaxClients int
}

// RateLimiter keeps one token bucket per client key.
type RateLimiter struct {
	config RateLimiterConfig
	now    func() time.Time

	mu      sync.Mutex
	buckets *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 50
	}
	if config.Burst <= 0 {
		config.Burst = 100
	}
	if config.MaxClients <= 0 {
		config.MaxClients = 10000
	}
	// lru.New only fails for a non-positive size.
	buckets, _ := lru.New[string, *rate.Limiter](config.MaxClients)
	return &RateLimiter{
		config:  config,
		now:     time.Now,
		buckets: buckets,
	}
}

// Allow takes a token from key's bucket. When the bucket is empty it
// returns false and how long until the next token is available.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := rl.now()
	r := rl.bucket(key).ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Tokens returns the tokens left in key's bucket.
func (rl *RateLimiter) Tokens(key string) float64 {
	return rl.bucket(key).TokensAt(rl.now())
}

// Clients returns the number of tracked buckets.
func (rl *RateLimiter) Clients() int {
	return rl.buckets.Len()
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if lim, ok := rl.buckets.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Limit(rl.config.Rate), rl.config.Burst)
	rl.buckets.Add(key, lim)
	return lim
}
