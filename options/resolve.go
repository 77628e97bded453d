package options

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/jonwraymond/placeholders/sanitize"
)

// sizePattern matches "{w}" or "{w}x{h}" with x, X or × as separator.
var sizePattern = regexp.MustCompile(`^([^xX×]+)(?:[xX×]([^xX×]+))?$`)

// ParseSize parses a path shorthand such as "300x150" or "300".
// A single dimension produces a square. Surrounding slashes are ignored.
func ParseSize(segment string) (width, height float64, ok bool) {
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return 0, 0, false
	}
	m := sizePattern.FindStringSubmatch(segment)
	if m == nil {
		return 0, 0, false
	}
	width, ok = sanitize.PositiveNumber(m[1])
	if !ok {
		return 0, 0, false
	}
	if m[2] == "" {
		return width, width, true
	}
	height, ok = sanitize.PositiveNumber(m[2])
	if !ok {
		return 0, 0, false
	}
	return width, height, true
}

// Resolve merges request input into base. The size shorthand applies first,
// then each recognized query parameter in Options order. A parameter that is
// absent, empty or rejected by its sanitizer keeps the value from base.
func Resolve(base ImageOptions, query url.Values, sizeSegment string) ImageOptions {
	o := base
	if w, h, ok := ParseSize(sizeSegment); ok {
		o.Width, o.Height = w, h
	}
	for _, opt := range Options() {
		raw := query.Get(opt.Name())
		if raw == "" {
			continue
		}
		opt.apply(&o, raw)
	}
	return o
}

// FromQuery resolves query against the API defaults.
func FromQuery(query url.Values) ImageOptions {
	return Resolve(APIDefaults(), query, "")
}
