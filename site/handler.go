package site

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/jonwraymond/placeholders/cache"
	"github.com/jonwraymond/placeholders/observe"
)

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
	htmlType     = "text/html; charset=utf-8"
)

// Config configures a Handler.
type Config struct {
	// FS holds the site files. Required.
	FS fs.FS

	// Policy sets Cache-Control on assets. Default: cache.DefaultStaticPolicy
	Policy cache.StaticPolicy

	// ImageHost is allowed in the content security policy.
	// Default: DefaultImageHost
	ImageHost string

	// Rewriter rewrites HTML pages. Nil leaves pages untouched.
	Rewriter *EdgeRewriter

	// Logger receives rewrite failures. Default: no-op
	Logger observe.Logger
}

// Handler serves the static site.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Errors: a missing asset answers 404.html with status 404; any other
//     failure answers 500 with the error text.
type Handler struct {
	fsys     fs.FS
	policy   cache.StaticPolicy
	security http.Header
	rewriter *EdgeRewriter
	logger   observe.Logger
}

// NewHandler creates a Handler.
func NewHandler(config Config) (*Handler, error) {
	if config.FS == nil {
		return nil, ErrNilFS
	}
	if config.Policy.LongTTL <= 0 || config.Policy.ShortTTL <= 0 {
		config.Policy = cache.DefaultStaticPolicy()
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	return &Handler{
		fsys:     config.FS,
		policy:   config.Policy,
		security: SecurityHeaders(config.ImageHost),
		rewriter: config.Rewriter,
		logger:   config.Logger.With(observe.F("component", "site")),
	}, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, body, err := h.open(r.URL.Path)
	if errors.Is(err, ErrAssetNotFound) {
		if page, nfErr := fs.ReadFile(h.fsys, notFoundFile); nfErr == nil {
			w.Header().Set("Content-Type", htmlType)
			h.write(w, r, http.StatusNotFound, page)
			return
		}
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	hdr := w.Header()
	hdr.Set("Content-Type", ctype)
	hdr.Set("Cache-Control", h.policy.CacheControl(r.URL.Path))

	if strings.Contains(ctype, "text/html") {
		applyHeaders(hdr, h.security)
		body = h.rewrite(r, body)
	}
	h.write(w, r, http.StatusOK, body)
}

// open resolves urlPath to a file name and reads it.
func (h *Handler) open(urlPath string) (string, []byte, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}

	info, err := fs.Stat(h.fsys, name)
	switch {
	case err == nil && info.IsDir():
		name = path.Join(name, indexFile)
	case errors.Is(err, fs.ErrNotExist) && path.Ext(name) == "":
		name = path.Join(name, indexFile)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return name, nil, err
	}

	body, err := fs.ReadFile(h.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return name, nil, ErrAssetNotFound
	}
	return name, body, err
}

func (h *Handler) rewrite(r *http.Request, page []byte) []byte {
	if h.rewriter == nil {
		return page
	}
	out, err := h.rewriter.Rewrite(page)
	if err != nil {
		h.logger.Warn(r.Context(), "html rewrite failed", observe.F("path", r.URL.Path), observe.Err(err))
		return page
	}
	return out
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

var _ http.Handler = (*Handler)(nil)
