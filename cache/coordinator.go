package cache

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/resilience"
	"github.com/jonwraymond/placeholders/svg"
)

// HeaderCacheHit marks responses served from the cache.
const HeaderCacheHit = "X-Worker-Cache"

// DefaultStoreTimeout bounds a single background store.
const DefaultStoreTimeout = 5 * time.Second

// Outcome describes how a request was served.
type Outcome int

const (
	// OutcomeBypass means the cache was not consulted.
	OutcomeBypass Outcome = iota
	// OutcomeMiss means the cache was consulted and the response rendered.
	OutcomeMiss
	// OutcomeHit means the response came from the cache.
	OutcomeHit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	default:
		return "bypass"
	}
}

// RenderFunc produces the response for a request. A zero StatusCode means 200.
type RenderFunc func(ctx context.Context, r *http.Request) (*Response, error)

// CoordinatorConfig configures a Coordinator.
type CoordinatorConfig struct {
	// Cache is the backend. Required unless Policy is disabled.
	Cache Cache

	// Keyer derives keys from request URLs. Default: URLKeyer
	Keyer Keyer

	// Policy holds the response TTLs. Zero TTLs take the defaults.
	Policy Policy

	// Lookup decides per request whether the cache is consulted. Fresh
	// responses are stored either way. Default: always consult.
	Lookup func(r *http.Request) bool

	// Bulkhead bounds concurrent background stores. Default: 32 slots,
	// waiting up to one second.
	Bulkhead *resilience.Bulkhead

	// StoreTimeout bounds one background store. Default: 5s
	StoreTimeout time.Duration

	// Observer wraps each background store. Default: no-op
	Observer *observe.Middleware

	// Logger receives store and decode failures. Default: no-op
	Logger observe.Logger
}

// Coordinator serves requests through the cache.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: Serve never waits for the store it schedules; Wait honors
//     cancellation.
//   - Errors: only render errors are returned. Cache failures are logged.
type Coordinator struct {
	cache        Cache
	keyer        Keyer
	policy       Policy
	lookup       func(r *http.Request) bool
	bulkhead     *resilience.Bulkhead
	storeTimeout time.Duration
	observer     *observe.Middleware
	logger       observe.Logger

	wg sync.WaitGroup
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(config CoordinatorConfig) (*Coordinator, error) {
	def := DefaultPolicy()
	if config.Policy.SuccessTTL <= 0 {
		config.Policy.SuccessTTL = def.SuccessTTL
	}
	if config.Policy.FailureTTL <= 0 {
		config.Policy.FailureTTL = def.FailureTTL
	}
	if config.Cache == nil && config.Policy.Enabled() {
		return nil, ErrNilCache
	}
	if config.Keyer == nil {
		config.Keyer = NewURLKeyer()
	}
	if config.Bulkhead == nil {
		config.Bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{MaxWait: time.Second})
	}
	if config.StoreTimeout <= 0 {
		config.StoreTimeout = DefaultStoreTimeout
	}
	if config.Observer == nil {
		config.Observer = observe.NewMiddleware(nil, nil, nil)
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Coordinator{
		cache:        config.Cache,
		keyer:        config.Keyer,
		policy:       config.Policy,
		lookup:       config.Lookup,
		bulkhead:     config.Bulkhead,
		storeTimeout: config.StoreTimeout,
		observer:     config.Observer,
		logger:       config.Logger.With(observe.F("component", "cache")),
	}, nil
}

// Policy returns the effective policy.
func (c *Coordinator) Policy() Policy {
	return c.policy
}

// Serve answers r from the cache or by calling render. The method of r is
// ignored. Hits carry HeaderCacheHit and never call render. Fresh
// responses get the SVG content type, an open CORS origin and a
// Cache-Control matching their status, and a copy is stored in the
// background.
func (c *Coordinator) Serve(ctx context.Context, r *http.Request, render RenderFunc) (*Response, Outcome, error) {
	if !c.policy.Enabled() {
		resp, err := c.render(ctx, r, render)
		c.record(ctx, OutcomeBypass)
		return resp, OutcomeBypass, err
	}

	key, err := c.keyer.Key(RequestURL(r))
	if err != nil {
		c.logger.Debug(ctx, "request not cacheable", observe.Err(err))
		resp, err := c.render(ctx, r, render)
		c.record(ctx, OutcomeBypass)
		return resp, OutcomeBypass, err
	}

	outcome := OutcomeBypass
	if c.lookup == nil || c.lookup(r) {
		outcome = OutcomeMiss
		if hit, ok := c.get(ctx, key); ok {
			hit.Header.Set(HeaderCacheHit, "true")
			c.record(ctx, OutcomeHit)
			return hit, OutcomeHit, nil
		}
	}
	c.record(ctx, outcome)

	resp, err := c.render(ctx, r, render)
	if err != nil {
		return nil, outcome, err
	}
	c.store(ctx, key, resp.Clone())
	return resp, outcome, nil
}

func (c *Coordinator) get(ctx context.Context, key string) (*Response, bool) {
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var resp Response
	if err := resp.UnmarshalBinary(raw); err != nil {
		c.logger.Warn(ctx, "discarding cache entry", observe.F("key", key), observe.Err(err))
		return nil, false
	}
	return &resp, true
}

func (c *Coordinator) render(ctx context.Context, r *http.Request, render RenderFunc) (*Response, error) {
	resp, err := render(ctx, r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	resp.Header.Set("Content-Type", svg.ContentType)
	resp.Header.Set("Access-Control-Allow-Origin", "*")
	resp.Header.Set("Cache-Control", c.policy.CacheControl(resp.StatusCode))
	return resp, nil
}

func (c *Coordinator) record(ctx context.Context, o Outcome) {
	c.observer.Metrics().RecordCacheLookup(ctx, o.String())
}

// store writes resp in the background. The store outlives ctx's
// cancellation but not StoreTimeout.
func (c *Coordinator) store(ctx context.Context, key string, resp *Response) {
	ttl := c.policy.TTL(resp.StatusCode)
	ctx = context.WithoutCancel(ctx)
	op := c.observer.Wrap(observe.Operation{Component: "cache", Name: "store"}, func(ctx context.Context) error {
		raw, err := resp.MarshalBinary()
		if err != nil {
			return err
		}
		return c.cache.Set(ctx, key, raw, ttl)
	})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
		defer cancel()
		if err := c.bulkhead.Acquire(ctx); err != nil {
			c.logger.Warn(ctx, "cache store dropped", observe.F("key", key), observe.Err(err))
			return
		}
		defer c.bulkhead.Release()
		// Failures are logged by the observer.
		_ = op(ctx)
	}()
}

// Wait blocks until every scheduled store has finished or ctx ends.
func (c *Coordinator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Purge removes the entry for u.
func (c *Coordinator) Purge(ctx context.Context, u *url.URL) error {
	if !c.policy.Enabled() {
		return nil
	}
	key, err := c.keyer.Key(u)
	if err != nil {
		return err
	}
	return c.cache.Delete(ctx, key)
}

// Ping reports the availability of the backend.
func (c *Coordinator) Ping(ctx context.Context) error {
	if p, ok := c.cache.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
