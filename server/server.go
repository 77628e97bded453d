package server

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/placeholders/analytics"
	"github.com/jonwraymond/placeholders/auth"
	"github.com/jonwraymond/placeholders/cache"
	"github.com/jonwraymond/placeholders/config"
	"github.com/jonwraymond/placeholders/health"
	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/resilience"
	"github.com/jonwraymond/placeholders/site"
)

// Overrides replaces configured collaborators. Zero fields keep the
// configured ones.
type Overrides struct {
	Cache  cache.Cache
	Sink   analytics.Sink
	SiteFS fs.FS
}

// Server serves the image API and the static site.
//
// Contract:
//   - Concurrency: Handler is safe for concurrent use.
//   - Context: Run serves until ctx ends, then shuts down within the
//     configured shutdown timeout.
//   - Errors: handler failures answer 500 "Internal Error".
type Server struct {
	cfg       config.Server
	imageHost string
	echo      *echo.Echo
	coord     *cache.Coordinator
	analytics *analytics.Writer
	site      http.Handler
	limiter   *resilience.RateLimiter
	health    *health.Aggregator
	renderer  *observe.Middleware
	logger    observe.Logger
	closers   []closer
}

// New assembles a Server from cfg. A nil obs disables telemetry.
func New(ctx context.Context, cfg *config.Config, obs observe.Observer, ov Overrides) (*Server, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	logger := observe.NopLogger()
	mw := observe.NewMiddleware(nil, nil, nil)
	if obs != nil {
		logger = obs.Logger()
		var err error
		if mw, err = observe.MiddlewareFromObserver(obs); err != nil {
			return nil, err
		}
	} else {
		obs = nopObserver{}
	}

	s := &Server{
		cfg:       cfg.Server,
		imageHost: strings.ToLower(cfg.Server.ImageHost),
		renderer:  mw,
		logger:    logger.With(observe.F("component", "server")),
	}

	b := &backend{cache: ov.Cache}
	if ov.Cache == nil {
		var err error
		if b, err = buildCache(cfg.Cache, logger); err != nil {
			return nil, err
		}
		s.closers = append(s.closers, b.closers...)
	}

	var lookup func(*http.Request) bool
	if cfg.Cache.LookupHostOnly {
		lookup = s.onImageHost
	}
	coord, err := cache.NewCoordinator(cache.CoordinatorConfig{
		Cache:  b.cache,
		Policy: policyFor(cfg.Cache, b.cache != nil),
		Lookup: lookup,
		Bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: cfg.Cache.MaxConcurrentStores,
			MaxWait:       cfg.Cache.StoreMaxWait,
		}),
		StoreTimeout: cfg.Cache.StoreTimeout,
		Observer:     mw,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	s.coord = coord

	sk := &sink{sink: ov.Sink}
	if ov.Sink == nil {
		if sk, err = buildSink(ctx, cfg.Analytics, obs, logger); err != nil {
			return nil, errors.Join(err, s.close(ctx))
		}
		s.closers = append(s.closers, sk.closers...)
	}
	if s.analytics, err = analytics.NewWriter(sk.sink, analytics.WriterConfig{Logger: logger}); err != nil {
		return nil, errors.Join(err, s.close(ctx))
	}

	fsys := ov.SiteFS
	if fsys == nil {
		fsys = os.DirFS(cfg.Site.Dir)
	}
	if s.site, err = site.NewHandler(site.Config{
		FS:        fsys,
		Policy:    cache.DefaultStaticPolicy(),
		ImageHost: cfg.Server.ImageHost,
		Rewriter:  site.NewEdgeRewriter(cfg.Site.EdgeLocations),
		Logger:    logger,
	}); err != nil {
		return nil, errors.Join(err, s.close(ctx))
	}

	if cfg.RateLimit.RPS > 0 {
		s.limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:  cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
	}
	s.health = buildHealth(b, coord, sk)

	s.echo = s.routes(cfg.Observe.ServiceName, obs.MetricsHandler(), buildAdmin(cfg.Admin))
	return s, nil
}

func (s *Server) routes(service string, metrics http.Handler, admin auth.Authenticator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(service))
	e.Use(s.requestLogger())

	health.Register(e, s.health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
	if admin != nil {
		g := e.Group("/admin", auth.Middleware(admin, auth.RoleAdmin))
		g.DELETE("/cache", s.purge)
	}

	api := s.rateLimit(s.api)
	prefix := strings.TrimSuffix(s.cfg.APIPrefix, "/")
	if prefix != "" {
		e.Any(prefix, api)
		e.Any(prefix+"/*", api)
	}
	siteHandler := echo.WrapHandler(s.site)
	e.Any("/*", func(c echo.Context) error {
		if s.onImageHost(c.Request()) {
			return api(c)
		}
		return siteHandler(c)
	})
	return e
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Coordinator returns the cache coordinator.
func (s *Server) Coordinator() *cache.Coordinator {
	return s.coord
}

// Run serves on the configured address until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info(gctx, "listening", observe.F("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), timeout)
		defer cancel()
		s.logger.Info(sctx, "shutting down")
		return errors.Join(srv.Shutdown(sctx), s.Shutdown(sctx))
	})
	return g.Wait()
}

// Shutdown drains background cache stores and analytics writes, then
// closes the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(
		s.coord.Wait(ctx),
		s.analytics.Wait(ctx),
		s.close(ctx),
	)
}

func (s *Server) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}

// onImageHost reports whether r addresses the image host.
func (s *Server) onImageHost(r *http.Request) bool {
	if s.imageHost == "" {
		return false
	}
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.EqualFold(host, s.imageHost)
}
