package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy allows no elements and no attributes. The content of
// script, style and similar elements is dropped along with the tags.
var strictPolicy = bluemonday.StrictPolicy()

var (
	markupChars = strings.NewReplacer(`"`, "", "<", "", ">", "")
	cssChars    = strings.NewReplacer(":", "", ";", "")
)

// Text strips every tag and attribute from raw and removes any remaining
// `"`, `<` and `>` characters. The result is plain text, not HTML: entities
// produced by the stripping pass are decoded again so the value can be
// escaped exactly once by whoever emits it.
//
// Passes repeat until the output no longer changes, which makes Text
// idempotent. Each pass that changes its input decodes at least one entity
// or removes at least one character, so the loop is bounded by len(raw).
func Text(raw string) string {
	out := raw
	for {
		next := textPass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func textPass(s string) string {
	return markupChars.Replace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// TextOf coerces v to its string form before applying Text.
func TextOf(v any) string {
	return Text(stringOf(v))
}

// CSSText is Text with every `:` and `;` removed, so the value cannot close
// a CSS property and open a new declaration.
func CSSText(raw string) string {
	return cssChars.Replace(Text(raw))
}

func stringOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
