package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/secret"
)

// Config is the service configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Cache     Cache     `yaml:"cache"`
	Site      Site      `yaml:"site"`
	Analytics Analytics `yaml:"analytics"`
	Observe   Observe   `yaml:"observe"`
	RateLimit RateLimit `yaml:"ratelimit"`
	Admin     Admin     `yaml:"admin"`
	Secrets   Secrets   `yaml:"secrets"`
}

type Server struct {
	Addr string `yaml:"addr" env:"PLACEHOLDERS_ADDR" env-default:":8080"`

	// ImageHost serves the API from its root, e.g. images.placeholders.dev.
	ImageHost string `yaml:"image_host" env:"PLACEHOLDERS_IMAGE_HOST" env-default:"images.placeholders.dev"`

	// APIPrefix serves the API on every host.
	APIPrefix string `yaml:"api_prefix" env:"PLACEHOLDERS_API_PREFIX" env-default:"/api"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Cache struct {
	// Backend is memory, redis, tiered or none.
	Backend string `yaml:"backend" env:"PLACEHOLDERS_CACHE_BACKEND" env-default:"memory"`

	// LookupHostOnly consults the cache only for requests on the image
	// host. Fresh responses are stored either way.
	LookupHostOnly bool `yaml:"lookup_host_only" env:"PLACEHOLDERS_CACHE_LOOKUP_HOST_ONLY"`

	MemorySize int           `yaml:"memory_size" env-default:"4096"`
	SuccessTTL time.Duration `yaml:"success_ttl" env-default:"2160h"`
	FailureTTL time.Duration `yaml:"failure_ttl" env-default:"5m"`

	// BackfillTTL caps the memory tier TTL of the tiered backend.
	BackfillTTL time.Duration `yaml:"backfill_ttl" env-default:"1h"`

	Redis Redis `yaml:"redis"`

	// StoreTimeout bounds one background store.
	StoreTimeout time.Duration `yaml:"store_timeout" env-default:"5s"`

	// MaxConcurrentStores bounds background stores; a store that waits
	// longer than StoreMaxWait for a slot is dropped.
	MaxConcurrentStores int           `yaml:"max_concurrent_stores" env-default:"32"`
	StoreMaxWait        time.Duration `yaml:"store_max_wait" env-default:"1s"`
}

type Redis struct {
	URL string `yaml:"url" env:"PLACEHOLDERS_REDIS_URL"`

	// Timeout bounds one redis call.
	Timeout time.Duration `yaml:"timeout" env-default:"250ms"`

	// BreakerFailures opens the breaker; BreakerReset closes it again.
	BreakerFailures int           `yaml:"breaker_failures" env-default:"5"`
	BreakerReset    time.Duration `yaml:"breaker_reset" env-default:"30s"`
}

type Site struct {
	// Dir holds the static files.
	Dir           string `yaml:"dir" env:"PLACEHOLDERS_SITE_DIR" env-default:"public"`
	EdgeLocations int    `yaml:"edge_locations" env-default:"300"`
}

type Analytics struct {
	// Sink is none, log or mongo.
	Sink  string `yaml:"sink" env:"PLACEHOLDERS_ANALYTICS_SINK" env-default:"log"`
	Mongo Mongo  `yaml:"mongo"`

	// Metrics also counts requests on the meter.
	Metrics bool `yaml:"metrics" env:"PLACEHOLDERS_ANALYTICS_METRICS"`
}

type Mongo struct {
	URI        string `yaml:"uri" env:"PLACEHOLDERS_MONGO_URI"`
	Database   string `yaml:"database" env-default:"placeholders"`
	Collection string `yaml:"collection" env-default:"data_points"`
}

type Observe struct {
	ServiceName string `yaml:"service_name" env-default:"placeholders"`
	Version     string `yaml:"version" env-default:"dev"`
	LogLevel    string `yaml:"log_level" env:"PLACEHOLDERS_LOG_LEVEL" env-default:"info"`

	// Exporters: tracing otlp|stdout|none, metrics
	// otlp|prometheus|stdout|none, logs otlp|none.
	Tracing     string  `yaml:"tracing" env-default:"none"`
	SamplePct   float64 `yaml:"sample_pct" env-default:"0.1"`
	Metrics     string  `yaml:"metrics" env-default:"prometheus"`
	LogExporter string  `yaml:"log_exporter" env-default:"none"`
}

type RateLimit struct {
	// RPS per client; zero or less disables limiting.
	RPS   float64 `yaml:"rps" env:"PLACEHOLDERS_RATELIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env-default:"100"`
}

type Admin struct {
	Enabled   bool     `yaml:"enabled" env:"PLACEHOLDERS_ADMIN_ENABLED" env-default:"false"`
	APIKeys   []string `yaml:"api_keys" env:"PLACEHOLDERS_ADMIN_API_KEYS" env-separator:","`
	JWTSecret string   `yaml:"jwt_secret" env:"PLACEHOLDERS_ADMIN_JWT_SECRET"`
	Issuer    string   `yaml:"issuer" env-default:""`
}

type Secrets struct {
	// Dir is read by the file provider.
	Dir string `yaml:"dir" env:"PLACEHOLDERS_SECRETS_DIR" env-default:"/run/secrets"`
}

// Load reads path (YAML) and the environment. An empty path reads only
// the environment.
func Load(ctx context.Context, path string) (*Config, error) {
	var cfg Config
	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(path, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	if err := cfg.ResolveSecrets(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Usage describes the environment variables.
func Usage() string {
	desc, _ := cleanenv.GetDescription(&Config{}, nil)
	return desc
}

// ResolveSecrets expands ${VAR} and secretref: values in credential
// fields.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	r := secret.NewResolver(true, secret.EnvProvider{}, secret.NewFileProvider(c.Secrets.Dir))
	err := r.ResolveFields(ctx, map[string]*string{
		"cache.redis.url":     &c.Cache.Redis.URL,
		"analytics.mongo.uri": &c.Analytics.Mongo.URI,
		"admin.jwt_secret":    &c.Admin.JWTSecret,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	keys, err := r.ResolveSlice(ctx, c.Admin.APIKeys)
	if err != nil {
		return fmt.Errorf("config: resolve admin.api_keys: %w", err)
	}
	c.Admin.APIKeys = keys
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.Server.ImageHost, "/: ") {
		return fmt.Errorf("%w: %q", ErrInvalidImageHost, c.Server.ImageHost)
	}
	for name, d := range map[string]time.Duration{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"cache.success_ttl":       c.Cache.SuccessTTL,
		"cache.failure_ttl":       c.Cache.FailureTTL,
		"cache.store_timeout":     c.Cache.StoreTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDuration, name)
		}
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis", "tiered":
		if c.Cache.Redis.URL == "" {
			return ErrMissingRedisURL
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBackend, c.Cache.Backend)
	}

	switch c.Analytics.Sink {
	case "none", "log":
	case "mongo":
		if c.Analytics.Mongo.URI == "" || c.Analytics.Mongo.Database == "" {
			return ErrMissingMongo
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSink, c.Analytics.Sink)
	}

	if c.Admin.Enabled && len(c.Admin.APIKeys) == 0 && c.Admin.JWTSecret == "" {
		return ErrMissingAdminAuth
	}

	obs := c.ObserveConfig()
	return obs.Validate()
}

// ObserveConfig maps the observe section onto observe.Config.
func (c *Config) ObserveConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     o.Version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing != "" && o.Tracing != "none",
			Exporter:  o.Tracing,
			SamplePct: o.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics != "" && o.Metrics != "none",
			Exporter: o.Metrics,
		},
		Logging: observe.LoggingConfig{
			Level:    o.LogLevel,
			Exporter: o.LogExporter,
		},
	}
}
