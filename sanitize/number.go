package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern accepts unsigned decimals with at most one decimal point.
var numberPattern = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`)

// Number parses a unit-less, unsigned decimal number.
// Surrounding whitespace is ignored; signs, exponents, letters, a second
// decimal point or a second token reject the input.
func Number(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || !numberPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// PositiveNumber is Number restricted to values greater than zero.
func PositiveNumber(raw string) (float64, bool) {
	v, ok := Number(raw)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// FormatNumber renders v in its shortest round-trip decimal form ("14", "10.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fontWeightKeywords are the non-numeric CSS font-weight values accepted.
var fontWeightKeywords = map[string]bool{
	"normal":  true,
	"bold":    true,
	"bolder":  true,
	"lighter": true,
}

// FontWeight accepts a positive number or a CSS font-weight keyword.
// Numbers are returned in canonical form ("0700" -> "700").
func FontWeight(raw string) (string, bool) {
	if v, ok := PositiveNumber(raw); ok {
		return FormatNumber(v), true
	}
	kw := strings.ToLower(strings.TrimSpace(raw))
	if fontWeightKeywords[kw] {
		return kw, true
	}
	return "", false
}

// Bool reports whether raw is "true" (any case) or exactly "1".
func Bool(raw string) bool {
	return strings.ToLower(raw) == "true" || raw == "1"
}

// BoolOf is Bool for values that are not strings yet; true and 1 map to true.
func BoolOf(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return Bool(b)
	default:
		return Bool(stringOf(v))
	}
}
