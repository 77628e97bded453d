package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// KeyPrefix starts every key produced by URLKeyer.
const KeyPrefix = "placeholder"

// Keyer derives cache keys from request URLs.
//
// Contract:
//   - Determinism: URLs that differ only in query parameter order, host
//     case, scheme or fragment must produce the same key.
//   - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(u *url.URL) (string, error)
}

// URLKeyer produces keys of the form placeholder:<host>:<hash>, where hash
// is the first 16 hex characters of SHA-256 over the canonical URL.
type URLKeyer struct{}

// NewURLKeyer creates a URLKeyer.
func NewURLKeyer() *URLKeyer {
	return &URLKeyer{}
}

// Key returns the cache key for u.
func (k *URLKeyer) Key(u *url.URL) (string, error) {
	if u == nil {
		return "", ErrMissingURL
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: no host in %q", ErrInvalidKey, u.String())
	}

	hash := sha256.Sum256([]byte(Canonicalize(u)))
	key := fmt.Sprintf("%s:%s:%s", KeyPrefix, strings.ToLower(u.Host), hex.EncodeToString(hash[:8]))
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// Canonicalize renders u as host, escaped path and query. The host is
// lower-cased, query parameters are sorted by name with the relative
// order of repeated values kept, and scheme and fragment are dropped.
func Canonicalize(u *url.URL) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(u.Host))
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	b.WriteString(path)
	if q := u.Query(); len(q) > 0 {
		b.WriteByte('?')
		b.WriteString(q.Encode())
	}
	return b.String()
}

// RequestURL returns the absolute URL of r, filling the host from the
// Host header and the scheme from the TLS state when r.URL lacks them.
func RequestURL(r *http.Request) *url.URL {
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	return &u
}

var _ Keyer = (*URLKeyer)(nil)
