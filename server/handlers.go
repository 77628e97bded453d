package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jonwraymond/placeholders/auth"
	"github.com/jonwraymond/placeholders/cache"
	"github.com/jonwraymond/placeholders/observe"
	"github.com/jonwraymond/placeholders/options"
	"github.com/jonwraymond/placeholders/svg"
)

var renderOp = observe.Operation{Component: "svg", Name: "render"}

// api renders the placeholder for the request through the cache.
func (s *Server) api(c echo.Context) error {
	r := c.Request()
	ctx := r.Context()

	resp, outcome, err := s.coord.Serve(ctx, r, s.render(s.sizeSegment(r)))
	if err != nil {
		return err
	}
	s.analytics.Record(ctx, r, outcome == cache.OutcomeHit)
	return resp.Write(c.Response())
}

func (s *Server) render(size string) cache.RenderFunc {
	return func(ctx context.Context, r *http.Request) (*cache.Response, error) {
		var body string
		err := s.renderer.Wrap(renderOp, func(context.Context) error {
			body = svg.Render(options.Resolve(options.APIDefaults(), r.URL.Query(), size))
			return nil
		})(ctx)
		if err != nil {
			return nil, err
		}
		return &cache.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
	}
}

// sizeSegment returns the path after the API prefix, or the whole path on
// the image host.
func (s *Server) sizeSegment(r *http.Request) string {
	p := r.URL.Path
	if prefix := strings.TrimSuffix(s.cfg.APIPrefix, "/"); prefix != "" {
		if rest, ok := strings.CutPrefix(p, prefix); ok && (rest == "" || rest[0] == '/') {
			p = rest
		}
	}
	return strings.Trim(p, "/")
}

// purge removes the cached response for the url query parameter.
func (s *Server) purge(c echo.Context) error {
	raw := c.QueryParam("url")
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return echo.NewHTTPError(http.StatusBadRequest, ErrInvalidURL.Error())
	}
	ctx := c.Request().Context()
	if err := s.coord.Purge(ctx, u); err != nil {
		return fmt.Errorf("server: purge: %w", err)
	}
	s.logger.Info(ctx, "cache entry purged",
		observe.F("url", cache.Canonicalize(u)),
		observe.F("principal", auth.PrincipalFromContext(ctx)))
	return c.NoContent(http.StatusNoContent)
}

// rateLimit answers 429 with Retry-After once a client's bucket is empty.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return func(c echo.Context) error {
		ok, wait := s.limiter.Allow(c.RealIP())
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			return echo.NewHTTPError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		}
		return next(c)
	}
}

// handleError answers client errors with their message and everything
// else with 500 "Internal Error".
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		_ = c.String(he.Code, msg)
		return
	}
	s.logger.Error(c.Request().Context(), "request failed",
		observe.F("path", c.Request().URL.Path), observe.Err(err))
	_ = c.String(http.StatusInternalServerError, "Internal Error")
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []observe.Field{
				observe.F("method", v.Method),
				observe.F("uri", v.URI),
				observe.F("status", v.Status),
				observe.F("latency_ms", v.Latency.Milliseconds()),
			}
			if hit := c.Response().Header().Get(cache.HeaderCacheHit); hit != "" {
				fields = append(fields, observe.F("cache_hit", hit))
			}
			s.logger.Debug(c.Request().Context(), "request completed", fields...)
			return nil
		},
	})
}
