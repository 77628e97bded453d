package svg

import (
	"net/url"
	"strings"

	"github.com/jonwraymond/placeholders/options"
)

// componentUnescape turns query escaping into URI component escaping:
// spaces become %20, and the marks !, ' and * are left literal.
// Parentheses stay percent-encoded; some consumers mishandle them raw.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%2A", "*",
)

// DataURI wraps markup in a data:image/svg+xml URI. An empty charset
// uses options.DefaultCharset.
func DataURI(markup, charset string) string {
	if charset == "" {
		charset = options.DefaultCharset
	}
	return "data:image/svg+xml;charset=" + charset + "," + encodeComponent(markup)
}

func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
