package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

	// rgb() and rgba() with three or four numeric components.
	rgbColorPattern = regexp.MustCompile(
		`^rgba?\(\s*(?:\d+(?:\.\d+)?|\.\d+)\s*(?:,\s*(?:\d+(?:\.\d+)?|\.\d+)\s*){2,3}\)$`,
	)
)

// extraColorKeywords are CSS color keywords missing from the SVG 1.1 table.
var extraColorKeywords = map[string]bool{
	"transparent":  true,
	"currentcolor": true,
}

// Color validates raw as a CSS color after stripping markup with Text.
// Accepted forms are #rgb, #rrggbb, #rrggbbaa, rgb()/rgba() with numeric
// components, and named colors (case-insensitive). The accepted value is
// returned unchanged.
func Color(raw string) (string, bool) {
	v := Text(raw)
	if v == "" {
		return "", false
	}
	if hexColorPattern.MatchString(v) || rgbColorPattern.MatchString(v) || IsNamedColor(v) {
		return v, true
	}
	return "", false
}

// IsNamedColor reports whether name is a CSS named color.
func IsNamedColor(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := colornames.Map[lower]; ok {
		return true
	}
	return extraColorKeywords[lower]
}
