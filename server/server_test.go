package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jonwraymond/placeholders/analytics"
	"github.com/jonwraymond/placeholders/config"
	"github.com/jonwraymond/placeholders/observe"
)

type recordingSink struct {
	mu     sync.Mutex
	points []analytics.DataPoint
}

func (s *recordingSink) Write(_ context.Context, p analytics.DataPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, p)
	return nil
}

func (s *recordingSink) cachedFlags() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []bool
	for _, p := range s.points {
		out = append(out, p.Cached())
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.Server{
			Addr:            "127.0.0.1:0",
			ImageHost:       "images.example.com",
			APIPrefix:       "/api",
			ShutdownTimeout: time.Second,
		},
		Cache: config.Cache{
			Backend:             "memory",
			MemorySize:          64,
			SuccessTTL:          90 * 24 * time.Hour,
			FailureTTL:          5 * time.Minute,
			StoreTimeout:        time.Second,
			MaxConcurrentStores: 4,
			StoreMaxWait:        time.Second,
		},
		Site:      config.Site{EdgeLocations: 300},
		Analytics: config.Analytics{Sink: "none"},
		Observe:   config.Observe{ServiceName: "placeholders-test"},
	}
}

func testSite() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte(`<html><head><title>t</title></head><body><span class="edgeLocations">0</span></body></html>`)},
		"404.html":   {Data: []byte("missing page")},
	}
}

type testServer struct {
	*Server
	sink *recordingSink
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	sink := &recordingSink{}
	s, err := New(context.Background(), cfg, nil, Overrides{Sink: sink, SiteFS: testSite()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return &testServer{Server: s, sink: sink}
}

func (ts *testServer) do(t *testing.T, method, target, host string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if host != "" {
		req.Host = host
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := ts.Coordinator().Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}

func TestAPI_RendersOnPrefix(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(t, http.MethodGet, "/api?width=100&height=50&text=hi", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	wantHeaders := map[string]string{
		"Content-Type":                "image/svg+xml; charset=utf-8",
		"Access-Control-Allow-Origin": "*",
		"Cache-Control":               "public, max-age=7776000",
		"X-Worker-Cache":              "",
	}
	for k, want := range wantHeaders {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "<svg") {
		t.Errorf("body = %q, want raw svg markup", body)
	}
	for _, want := range []string{`width="100"`, `height="50"`, ">hi</text>"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s: %s", want, body)
		}
	}
}

func TestAPI_CacheHitIgnoresParameterOrder(t *testing.T) {
	ts := newTestServer(t, testConfig())

	first := ts.do(t, http.MethodGet, "/api?width=120&height=40", "", nil)
	ts.drain(t)
	second := ts.do(t, http.MethodPost, "/api?height=40&width=120", "", nil)

	if got := second.Header().Get("X-Worker-Cache"); got != "true" {
		t.Errorf("X-Worker-Cache = %q, want true", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs from the fresh one")
	}
	if got := second.Header().Get("Cache-Control"); got != "public, max-age=7776000" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestAPI_ImageHostAndShorthand(t *testing.T) {
	ts := newTestServer(t, testConfig())

	tests := []struct {
		name   string
		target string
		host   string
		want   []string
	}{
		{"image host size", "/200x100", "images.example.com", []string{`width="200"`, `height="100"`}},
		{"image host with port", "/80", "IMAGES.example.com:8443", []string{`width="80"`, `height="80"`}},
		{"image host root", "/", "images.example.com", []string{`width="300"`, `height="150"`}},
		{"prefix square", "/api/64", "", []string{`width="64"`, `height="64"`}},
		{"query wins over path", "/api/64x32?width=10", "", []string{`width="10"`, `height="32"`}},
		{"bad shorthand ignored", "/api/abc", "", []string{`width="300"`, `height="150"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.target, tt.host, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != "image/svg+xml; charset=utf-8" {
				t.Fatalf("Content-Type = %q, want svg", got)
			}
			for _, want := range tt.want {
				if !strings.Contains(rec.Body.String(), want) {
					t.Errorf("body missing %s: %s", want, rec.Body.String())
				}
			}
		})
	}
}

func TestAPI_HostileInputStaysInert(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.do(t, http.MethodGet, "/api?text=%3Cscript%3Ealert(1)%3C/script%3Eok&bgColor=%22%3E%3Cscript%3E", "", nil)
	body := rec.Body.String()
	if strings.Contains(body, "<script") {
		t.Errorf("body contains markup from input: %s", body)
	}
	if !strings.Contains(body, `fill="#ddd"`) {
		t.Errorf("rejected color should keep the default: %s", body)
	}
}

func TestSite_ServedOffAPI(t *testing.T) {
	ts := newTestServer(t, testConfig())

	page := ts.do(t, http.MethodGet, "/", "www.example.com", nil)
	if page.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", page.Code)
	}
	if !strings.Contains(page.Body.String(), `<span class="edgeLocations">300</span>`) {
		t.Errorf("body = %q, want rewritten count", page.Body.String())
	}
	if got := page.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	missing := ts.do(t, http.MethodGet, "/nope.png", "www.example.com", nil)
	if missing.Code != http.StatusNotFound || missing.Body.String() != "missing page" {
		t.Errorf("missing asset = %d %q, want 404 fallback", missing.Code, missing.Body.String())
	}
}

func TestAnalytics_RecordsEveryAPIRequest(t *testing.T) {
	ts := newTestServer(t, testConfig())

	ts.do(t, http.MethodGet, "/api/10", "", nil)
	ts.drain(t)
	ts.do(t, http.MethodGet, "/api/10", "", nil)
	ts.do(t, http.MethodGet, "/", "", nil)

	if err := ts.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	got := ts.sink.cachedFlags()
	var hits int
	for _, cached := range got {
		if cached {
			hits++
		}
	}
	if len(got) != 2 || hits != 1 {
		t.Errorf("cached flags = %v, want one miss and one hit", got)
	}
}

func TestLookupHostOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.LookupHostOnly = true
	ts := newTestServer(t, cfg)

	ts.do(t, http.MethodGet, "/api/20", "", nil)
	ts.drain(t)
	if got := ts.do(t, http.MethodGet, "/api/20", "", nil).Header().Get("X-Worker-Cache"); got != "" {
		t.Errorf("prefix request X-Worker-Cache = %q, want a fresh render", got)
	}

	ts.do(t, http.MethodGet, "/20", "images.example.com", nil)
	ts.drain(t)
	if got := ts.do(t, http.MethodGet, "/20", "images.example.com", nil).Header().Get("X-Worker-Cache"); got != "true" {
		t.Errorf("image host X-Worker-Cache = %q, want true", got)
	}
}

func TestAdminPurge(t *testing.T) {
	cfg := testConfig()
	cfg.Admin = config.Admin{Enabled: true, APIKeys: []string{"purge-key"}}
	ts := newTestServer(t, cfg)
	key := http.Header{"X-Api-Key": {"purge-key"}}

	ts.do(t, http.MethodGet, "/api?width=10", "", nil)
	ts.drain(t)
	if got := ts.do(t, http.MethodGet, "/api?width=10", "", nil).Header().Get("X-Worker-Cache"); got != "true" {
		t.Fatalf("X-Worker-Cache = %q before purge, want true", got)
	}

	tests := []struct {
		name       string
		target     string
		header     http.Header
		wantStatus int
	}{
		{"no credentials", "/admin/cache?url=http://example.com/api?width=10", nil, http.StatusUnauthorized},
		{"wrong key", "/admin/cache?url=http://example.com/api?width=10", http.Header{"X-Api-Key": {"nope"}}, http.StatusUnauthorized},
		{"relative url", "/admin/cache?url=/api?width=10", key, http.StatusBadRequest},
		{"purged", "/admin/cache?url=" + "http%3A%2F%2Fexample.com%2Fapi%3Fwidth%3D10", key, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodDelete, tt.target, "", tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	if got := ts.do(t, http.MethodGet, "/api?width=10", "", nil).Header().Get("X-Worker-Cache"); got != "" {
		t.Errorf("X-Worker-Cache = %q after purge, want a fresh render", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimit{RPS: 0.001, Burst: 1}
	ts := newTestServer(t, cfg)

	if rec := ts.do(t, http.MethodGet, "/api/5", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}
	rec := ts.do(t, http.MethodGet, "/api/5", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if site := ts.do(t, http.MethodGet, "/", "", nil); site.Code != http.StatusOK {
		t.Errorf("site status = %d, want 200 (site is not limited)", site.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t, testConfig())

	if rec := ts.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("/healthz = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}
	if rec := ts.do(t, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("/readyz = %d, want 200", rec.Code)
	}
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	if !strings.Contains(rec.Body.String(), `"cache"`) {
		t.Errorf("/health = %s, want the cache check", rec.Body.String())
	}
}

func TestHandleError(t *testing.T) {
	ts := newTestServer(t, testConfig())
	e := echo.New()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"unexpected", errors.New("boom"), 500, "Internal Error"},
		{"server http error", echo.NewHTTPError(http.StatusBadGateway, "upstream"), 500, "Internal Error"},
		{"client error", echo.NewHTTPError(http.StatusBadRequest, "bad input"), 400, "bad input"},
		{"client error without text", echo.NewHTTPError(http.StatusConflict, 42), 409, "Conflict"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			ts.handleError(tt.err, c)
			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("response = %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "placeholders-test",
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     observe.LoggingConfig{Output: io.Discard},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	defer func() { _ = obs.Shutdown(ctx) }()

	s, err := New(ctx, testConfig(), obs, Overrides{Sink: analytics.Discard, SiteFS: testSite()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = s.Shutdown(ctx) }()

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/30", nil))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rec.Code)
	}
	for _, want := range []string{"placeholders_operation_total", "placeholders_cache_lookups"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("/metrics missing %s", want)
		}
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(context.Background(), nil, nil, Overrides{}); !errors.Is(err, ErrNilConfig) {
		t.Errorf("New(nil) error = %v, want %v", err, ErrNilConfig)
	}

	cfg := testConfig()
	cfg.Cache.Backend = "disk"
	if _, err := New(context.Background(), cfg, nil, Overrides{SiteFS: testSite()}); !errors.Is(err, config.ErrInvalidBackend) {
		t.Errorf("New() error = %v, want %v", err, config.ErrInvalidBackend)
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	ts := newTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := ts.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil after shutdown", err)
	}
}
