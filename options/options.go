package options

import (
	"math"

	"github.com/jonwraymond/placeholders/sanitize"
)

// Default values shared by every resolution.
const (
	DefaultWidth      = 300
	DefaultHeight     = 150
	DefaultFontFamily = "sans-serif"
	DefaultFontWeight = "bold"
	DefaultLineHeight = 1.2
	DefaultBgColor    = "#ddd"
	DefaultTextColor  = "rgba(0,0,0,0.5)"
	DefaultCharset    = "UTF-8"
	DefaultPadding    = "0.5em"

	fontSizeRatio = 0.2
	dyRatio       = 0.35
)

// ImageOptions is the fully resolved configuration for one render.
//
// Text, FontSize and the vertical offset are derived from the final
// dimensions when left unset; use the Effective* methods to read them.
type ImageOptions struct {
	Width  float64
	Height float64

	// Text is the label. Empty means "{width}×{height}".
	Text string

	FontFamily string
	FontWeight string

	// FontSize in pixels. Zero means floor(min(width, height) * 0.2).
	FontSize float64

	// LineHeight applies to wrapped text only.
	LineHeight float64

	BgColor   string
	TextColor string

	// DarkBgColor and DarkTextColor override colors under
	// prefers-color-scheme: dark. Empty means no override.
	DarkBgColor   string
	DarkTextColor string

	// DataURI wraps the markup in a data:image/svg+xml URI.
	DataURI bool
	Charset string

	// TextWrap renders the label in a foreignObject that wraps lines.
	TextWrap bool

	// Padding applies to wrapped text only.
	Padding string

	dy    float64
	dySet bool
}

// Defaults returns the renderer defaults. DataURI is on.
func Defaults() ImageOptions {
	return ImageOptions{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FontFamily: DefaultFontFamily,
		FontWeight: DefaultFontWeight,
		LineHeight: DefaultLineHeight,
		BgColor:    DefaultBgColor,
		TextColor:  DefaultTextColor,
		DataURI:    true,
		Charset:    DefaultCharset,
		Padding:    DefaultPadding,
	}
}

// APIDefaults returns the defaults used by the HTTP API, which always
// serves raw markup.
func APIDefaults() ImageOptions {
	o := Defaults()
	o.DataURI = false
	return o
}

// SetDy sets an explicit vertical text offset.
func (o *ImageOptions) SetDy(v float64) {
	o.dy = v
	o.dySet = true
}

// EffectiveFontSize returns FontSize, or the size derived from the smaller
// dimension when unset.
func (o ImageOptions) EffectiveFontSize() float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return math.Floor(math.Min(o.Width, o.Height) * fontSizeRatio)
}

// EffectiveDy returns the explicit offset, or 0.35 of the effective font size.
func (o ImageOptions) EffectiveDy() float64 {
	if o.dySet {
		return o.dy
	}
	return o.EffectiveFontSize() * dyRatio
}

// EffectiveText returns Text, or "{width}×{height}" when unset.
func (o ImageOptions) EffectiveText() string {
	if o.Text != "" {
		return o.Text
	}
	return sanitize.FormatNumber(o.Width) + "×" + sanitize.FormatNumber(o.Height)
}

// HasDarkMode reports whether either dark-mode override is set.
func (o ImageOptions) HasDarkMode() bool {
	return o.DarkBgColor != "" || o.DarkTextColor != ""
}
