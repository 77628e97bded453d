package site

import (
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

const indexPage = `<!doctype html><html><head><title>old</title>
<meta name="description" content="old"></head>
<body><p>in <span class="count edgeLocations">0</span> places</p></body></html>`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":      {Data: []byte(indexPage)},
		"404.html":        {Data: []byte("<p>not here</p>")},
		"docs/index.html": {Data: []byte("<p>docs</p>")},
		"style.css":       {Data: []byte("body{}")},
		"LICENSE":         {Data: []byte("MIT")},
		"notes.md":        {Data: []byte("# notes")},
	}
}

func newTestHandler(t *testing.T, fsys fs.FS) *Handler {
	t.Helper()
	h, err := NewHandler(Config{FS: fsys, Rewriter: NewEdgeRewriter(310)})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_Assets(t *testing.T) {
	h := newTestHandler(t, testFS())

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantType     string
		wantCache    string
		wantContains string
	}{
		{"root index", "/", 200, "text/html; charset=utf-8", "public, max-age=3600", "310+ edge locations"},
		{"explicit index", "/index.html", 200, "text/html; charset=utf-8", "public, max-age=2592000", "310+ edge locations"},
		{"directory", "/docs/", 200, "text/html; charset=utf-8", "public, max-age=3600", "docs"},
		{"extensionless", "/docs", 200, "text/html; charset=utf-8", "public, max-age=3600", "docs"},
		{"static extension", "/style.css", 200, "text/css; charset=utf-8", "public, max-age=2592000", "body{}"},
		{"other extension", "/notes.md", 200, "", "public, max-age=3600", "# notes"},
		{"regular file without extension", "/LICENSE", 200, "application/octet-stream", "public, max-age=3600", "MIT"},
		{"dot segments", "/docs/../style.css", 200, "text/css; charset=utf-8", "public, max-age=2592000", "body{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantType != "" {
				if got := rec.Header().Get("Content-Type"); got != tt.wantType {
					t.Errorf("Content-Type = %q, want %q", got, tt.wantType)
				}
			}
			if got := rec.Header().Get("Cache-Control"); got != tt.wantCache {
				t.Errorf("Cache-Control = %q, want %q", got, tt.wantCache)
			}
			if !strings.Contains(rec.Body.String(), tt.wantContains) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantContains)
			}
		})
	}
}

func TestHandler_SecurityHeadersOnHTMLOnly(t *testing.T) {
	h := newTestHandler(t, testFS())

	page := serve(h, http.MethodGet, "/")
	if got := page.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := page.Header().Get("Content-Security-Policy"); !strings.Contains(got, "img-src 'self' data: images.placeholders.dev;") {
		t.Errorf("Content-Security-Policy = %q", got)
	}

	css := serve(h, http.MethodGet, "/style.css")
	if got := css.Header().Get("X-Frame-Options"); got != "" {
		t.Errorf("X-Frame-Options on css = %q, want empty", got)
	}
}

func TestHandler_NotFoundFallback(t *testing.T) {
	h := newTestHandler(t, testFS())

	rec := serve(h, http.MethodGet, "/missing.png")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", got)
	}
	if got := rec.Body.String(); got != "<p>not here</p>" {
		t.Errorf("body = %q, want 404 page", got)
	}
}

func TestHandler_NotFoundWithoutFallback(t *testing.T) {
	fsys := testFS()
	delete(fsys, "404.html")
	h := newTestHandler(t, fsys)

	rec := serve(h, http.MethodGet, "/missing.png")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), ErrAssetNotFound.Error()) {
		t.Errorf("body = %q, want %q", rec.Body.String(), ErrAssetNotFound.Error())
	}
}

type brokenFS struct{}

func (brokenFS) Open(string) (fs.File, error) {
	return nil, errors.New("disk on fire")
}

func TestHandler_ReadError(t *testing.T) {
	h := newTestHandler(t, brokenFS{})

	rec := serve(h, http.MethodGet, "/style.css")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "disk on fire") {
		t.Errorf("body = %q, want the error text", rec.Body.String())
	}
}

func TestHandler_Head(t *testing.T) {
	h := newTestHandler(t, testFS())

	rec := serve(h, http.MethodHead, "/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body length = %d, want 0", rec.Body.Len())
	}
	if got := rec.Header().Get("Content-Length"); got != "6" {
		t.Errorf("Content-Length = %q, want 6", got)
	}
}

func TestNewHandler_NilFS(t *testing.T) {
	if _, err := NewHandler(Config{}); !errors.Is(err, ErrNilFS) {
		t.Errorf("NewHandler() error = %v, want %v", err, ErrNilFS)
	}
}
