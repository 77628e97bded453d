package server

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/placeholders/analytics"
	"github.com/jonwraymond/placeholders/auth"
	"github.com/jonwraymond/placeholders/cache"
	"github.com/jonwraymond/placeholders/config"
	"github.com/jonwraymond/placeholders/health"
	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/resilience"
)

type closer func(ctx context.Context) error

// backend is the assembled cache tier.
type backend struct {
	cache   cache.Cache
	breaker *resilience.CircuitBreaker
	closers []closer
}

func buildCache(cfg config.Cache, logger observe.Logger) (*backend, error) {
	mem := func() *cache.MemoryCache {
		return cache.NewMemoryCache(cache.MemoryConfig{Size: cfg.MemorySize})
	}

	switch cfg.Backend {
	case "none":
		return &backend{}, nil
	case "memory":
		return &backend{cache: mem()}, nil
	case "redis", "tiered":
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("server: redis url: %w", err)
	}
	client := redis.NewClient(opt)

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:         "redis",
		MaxFailures:  cfg.Redis.BreakerFailures,
		ResetTimeout: cfg.Redis.BreakerReset,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				observe.F("breaker", name), observe.F("from", from.String()), observe.F("to", to.String()))
		},
	})
	rc := cache.NewRedisCache(client, cache.RedisConfig{
		Executor: resilience.NewExecutor(
			resilience.WithCircuitBreaker(breaker),
			resilience.WithTimeout(cfg.Redis.Timeout),
		),
		Logger: logger,
	})

	b := &backend{
		cache:   rc,
		breaker: breaker,
		closers: []closer{func(context.Context) error { return client.Close() }},
	}
	if cfg.Backend == "tiered" {
		b.cache = cache.NewTieredCache(mem(), rc, cache.TieredConfig{BackfillTTL: cfg.BackfillTTL})
	}
	return b, nil
}

func policyFor(cfg config.Cache, hasCache bool) cache.Policy {
	if !hasCache {
		return cache.NoCachePolicy()
	}
	return cache.Policy{SuccessTTL: cfg.SuccessTTL, FailureTTL: cfg.FailureTTL}
}

// sink is the assembled analytics pipeline.
type sink struct {
	sink    analytics.Sink
	ping    func(context.Context) error
	closers []closer
}

func buildSink(ctx context.Context, cfg config.Analytics, obs observe.Observer, logger observe.Logger) (*sink, error) {
	var s sink
	switch cfg.Sink {
	case "none":
		s.sink = analytics.Discard
	case "log":
		s.sink = analytics.NewLogSink(logger)
	case "mongo":
		ms, err := analytics.NewMongoSink(ctx, analytics.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		s.sink, s.ping = ms, ms.Ping
		s.closers = append(s.closers, ms.Close)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSink, cfg.Sink)
	}

	if cfg.Metrics {
		ms, err := analytics.NewMetricsSink(obs.Meter())
		if err != nil {
			return nil, err
		}
		s.sink = analytics.MultiSink{s.sink, ms}
	}
	return &s, nil
}

func buildAdmin(cfg config.Admin) auth.Authenticator {
	if !cfg.Enabled {
		return nil
	}
	var authns []auth.Authenticator
	if len(cfg.APIKeys) > 0 {
		authns = append(authns, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, auth.NewAdminKeyStore(cfg.APIKeys)))
	}
	if cfg.JWTSecret != "" {
		authns = append(authns, auth.NewJWTAuthenticator(auth.JWTConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.Issuer,
			Leeway: 30 * time.Second,
		}))
	}
	return auth.NewCompositeAuthenticator(authns...)
}

func buildHealth(b *backend, coord *cache.Coordinator, s *sink) *health.Aggregator {
	agg := health.NewAggregator()
	agg.Register(health.NewRuntimeChecker(health.RuntimeCheckerConfig{}))
	if b.cache != nil {
		agg.Register(health.NewPingChecker("cache", coord.Ping, health.StatusDegraded))
	}
	if b.breaker != nil {
		agg.Register(health.NewBreakerChecker("cache_breaker", b.breaker))
	}
	if s.ping != nil {
		agg.Register(health.NewPingChecker("analytics", s.ping, health.StatusDegraded))
	}
	return agg
}
