package svg

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jonwraymond/placeholders/options"
	"github.com/jonwraymond/placeholders/sanitize"
)

// ContentType is the media type of raw markup responses.
const ContentType = "image/svg+xml; charset=utf-8"

const rootTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%[1]s" height="%[2]s" viewBox="0 0 %[1]s %[2]s">
	%[3]s<rect fill="%[4]s" width="%[1]s" height="%[2]s"/>
	%[5]s
	</svg>`

const textTemplate = `<text fill="%s" font-family="%s" font-size="%s" dy="%s" font-weight="%s" x="50%%" y="50%%" text-anchor="middle">%s</text>`

const wrapTemplate = `<foreignObject width="%s" height="%s">
		<div xmlns="http://www.w3.org/1999/xhtml" style="
			align-items: center;
			box-sizing: border-box;
			color: %s;
			display: flex;
			font-family: %s;
			font-size: %spx;
			font-weight: %s;
			height: 100%%;
			line-height: %s;
			justify-content: center;
			padding: %s;
			text-align: center;
			width: 100%%;
		">%s</div>
	  </foreignObject>`

var (
	lineBreaks = regexp.MustCompile(`[\t\n\r]`)
	spaceRuns  = regexp.MustCompile(`\s\s+`)
)

// Render returns the markup for o, encoded as a data URI when o.DataURI is set.
func Render(o options.ImageOptions) string {
	markup := Markup(o)
	if o.DataURI {
		return DataURI(markup, o.Charset)
	}
	return markup
}

// Markup returns the compacted SVG markup for o, ignoring o.DataURI.
func Markup(o options.ImageOptions) string {
	w := sanitize.FormatNumber(o.Width)
	h := sanitize.FormatNumber(o.Height)
	fontSize := sanitize.FormatNumber(o.EffectiveFontSize())
	text := escape(o.EffectiveText())

	var content string
	if o.TextWrap {
		content = fmt.Sprintf(wrapTemplate,
			w, h,
			escape(o.TextColor),
			escape(o.FontFamily),
			fontSize,
			escape(o.FontWeight),
			sanitize.FormatNumber(o.LineHeight),
			escape(o.Padding),
			text,
		)
	} else {
		content = fmt.Sprintf(textTemplate,
			escape(o.TextColor),
			escape(o.FontFamily),
			fontSize,
			sanitize.FormatNumber(o.EffectiveDy()),
			escape(o.FontWeight),
			text,
		)
	}

	raw := fmt.Sprintf(rootTemplate, w, h, darkStyle(o), escape(o.BgColor), content)
	return compact(raw)
}

// darkStyle returns a <style> element overriding colors under
// prefers-color-scheme: dark, or "" when no override is set.
func darkStyle(o options.ImageOptions) string {
	if !o.HasDarkMode() {
		return ""
	}
	var b strings.Builder
	b.WriteString("<style>@media (prefers-color-scheme: dark) {")
	if o.DarkBgColor != "" {
		fmt.Fprintf(&b, "rect { fill: %s; }", escape(o.DarkBgColor))
	}
	if o.DarkTextColor != "" {
		c := escape(o.DarkTextColor)
		fmt.Fprintf(&b, "text { fill: %s; }div { color: %s !important; }", c, c)
	}
	b.WriteString("}</style>")
	return b.String()
}

// escape makes s safe for XML text and quoted attribute values.
func escape(s string) string {
	return html.EscapeString(s)
}

// compact strips tabs and line breaks and collapses whitespace runs.
func compact(s string) string {
	s = lineBreaks.ReplaceAllString(s, "")
	return spaceRuns.ReplaceAllString(s, " ")
}
