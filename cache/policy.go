package cache

import (
	"path"
	"strconv"
	"strings"
	"time"
)

// Policy configures response caching.
type Policy struct {
	// Disabled turns off lookups and stores. Headers are still set.
	Disabled bool

	// SuccessTTL applies to 200 responses. Default: 90 days
	SuccessTTL time.Duration

	// FailureTTL applies to every other status. Default: 5 minutes
	FailureTTL time.Duration

	// MaxTTL clamps both TTLs. If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default caching policy.
// SuccessTTL: 90 days, FailureTTL: 5 minutes
func DefaultPolicy() Policy {
	return Policy{
		SuccessTTL: 90 * 24 * time.Hour,
		FailureTTL: 5 * time.Minute,
	}
}

// NoCachePolicy returns the default TTLs with lookups and stores disabled.
func NoCachePolicy() Policy {
	p := DefaultPolicy()
	p.Disabled = true
	return p
}

// Enabled reports whether responses are looked up and stored.
func (p Policy) Enabled() bool {
	return !p.Disabled && p.SuccessTTL > 0
}

// TTL returns the lifetime of a response with the given status.
func (p Policy) TTL(status int) time.Duration {
	ttl := p.FailureTTL
	if status == 200 {
		ttl = p.SuccessTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}

// CacheControl returns the Cache-Control value for a response status.
func (p Policy) CacheControl(status int) string {
	return maxAge(p.TTL(status))
}

func maxAge(ttl time.Duration) string {
	return "public, max-age=" + strconv.FormatInt(int64(ttl/time.Second), 10)
}

var staticExtensions = func() map[string]bool {
	exts := strings.Fields(`ac3 avi bmp br bz2 css cue dat doc docx dts eot exe flv gif gz htm html
		ico img iso jpeg jpg js json map mkv mp3 mp4 mpeg mpg ogg pdf png ppt pptx qt rar rm svg swf
		tar tgz ttf txt wav webp webm webmanifest woff woff2 xls xlsx xml zip`)
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}()

// IsStaticExtension reports whether p ends in a known static file
// extension. Matching is case-sensitive.
func IsStaticExtension(p string) bool {
	ext := path.Ext(p)
	return ext != "" && staticExtensions[ext[1:]]
}

// StaticPolicy configures edge and browser TTLs for site assets.
type StaticPolicy struct {
	// LongTTL applies to paths with a known static extension. Default: 30 days
	LongTTL time.Duration

	// ShortTTL applies to every other path. Default: 1 hour
	ShortTTL time.Duration
}

// DefaultStaticPolicy returns the default asset policy.
func DefaultStaticPolicy() StaticPolicy {
	return StaticPolicy{
		LongTTL:  30 * 24 * time.Hour,
		ShortTTL: time.Hour,
	}
}

// TTL returns the lifetime of the asset at p.
func (p StaticPolicy) TTL(assetPath string) time.Duration {
	if IsStaticExtension(assetPath) {
		return p.LongTTL
	}
	return p.ShortTTL
}

// CacheControl returns the Cache-Control value for the asset at p.
func (p StaticPolicy) CacheControl(assetPath string) string {
	return maxAge(p.TTL(assetPath))
}
