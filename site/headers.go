package site

import (
	"net/http"
	"strings"
)

// DefaultImageHost is allowed as an image source in the content security
// policy when no host is configured.
const DefaultImageHost = "images.placeholders.dev"

type header struct {
	name  string
	value string
}

var featurePolicy = strings.Join([]string{
	"geolocation 'none';",
	"midi 'none';",
	"sync-xhr 'none';",
	"microphone 'none';",
	"camera 'none';",
	"magnetometer 'none';",
	"gyroscope 'none';",
	"speaker 'none';",
	"fullscreen 'none';",
	"payment 'none';",
}, " ")

func contentSecurityPolicy(imageHost string) string {
	return strings.Join([]string{
		"default-src 'self';",
		"script-src 'self' cdnjs.cloudflare.com static.cloudflareinsights.com;",
		"style-src 'self' cdnjs.cloudflare.com 'unsafe-inline' fonts.googleapis.com;",
		"img-src 'self' data: " + imageHost + ";",
		"child-src 'none';",
		"font-src 'self' fonts.gstatic.com cdnjs.cloudflare.com;",
		"connect-src 'self';",
		"prefetch-src 'none';",
		"object-src 'none';",
		"form-action 'none';",
		"frame-ancestors 'none';",
		"upgrade-insecure-requests;",
	}, " ")
}

// SecurityHeaders returns the headers set on every HTML page. The result is
// a fresh copy.
func SecurityHeaders(imageHost string) http.Header {
	if imageHost == "" {
		imageHost = DefaultImageHost
	}
	table := []header{
		{"X-XSS-Protection", "1; mode=block"},
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "no-referrer-when-downgrade"},
		{"Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload"},
		{"Feature-Policy", featurePolicy},
		{"Content-Security-Policy", contentSecurityPolicy(imageHost)},
	}
	h := make(http.Header, len(table))
	for _, e := range table {
		h.Set(e.name, e.value)
	}
	return h
}

func applyHeaders(dst, src http.Header) {
	for k, vs := range src {
		dst[k] = append([]string(nil), vs...)
	}
}
