package options

import (
	"strings"

	"github.com/jonwraymond/placeholders/sanitize"
)

// Option is one recognized query parameter. The set is closed: every
// constant pairs a query name with exactly one sanitizer in apply.
type Option int

// Recognized options, in application order.
const (
	OptionWidth Option = iota
	OptionHeight
	OptionText
	OptionDy
	OptionFontFamily
	OptionFontWeight
	OptionFontSize
	OptionBgColor
	OptionTextColor
	OptionDarkBgColor
	OptionDarkTextColor
	OptionTextWrap

	numOptions
)

var optionNames = [numOptions]string{
	OptionWidth:         "width",
	OptionHeight:        "height",
	OptionText:          "text",
	OptionDy:            "dy",
	OptionFontFamily:    "fontFamily",
	OptionFontWeight:    "fontWeight",
	OptionFontSize:      "fontSize",
	OptionBgColor:       "bgColor",
	OptionTextColor:     "textColor",
	OptionDarkBgColor:   "darkBgColor",
	OptionDarkTextColor: "darkTextColor",
	OptionTextWrap:      "textWrap",
}

// Options returns every recognized option in application order.
func Options() []Option {
	all := make([]Option, numOptions)
	for i := range all {
		all[i] = Option(i)
	}
	return all
}

// Name returns the query parameter name, or "" for an unknown option.
func (opt Option) Name() string {
	if opt < 0 || opt >= numOptions {
		return ""
	}
	return optionNames[opt]
}

func (opt Option) String() string {
	if name := opt.Name(); name != "" {
		return name
	}
	return "unknown"
}

// apply sanitizes raw and stores it in o. It reports whether the value was
// accepted; a rejected value leaves o untouched.
func (opt Option) apply(o *ImageOptions, raw string) bool {
	switch opt {
	case OptionWidth:
		return setNumber(&o.Width, raw)
	case OptionHeight:
		return setNumber(&o.Height, raw)
	case OptionText:
		return setString(&o.Text, sanitize.Text(raw))
	case OptionDy:
		v, ok := sanitize.Number(raw)
		if ok {
			o.SetDy(v)
		}
		return ok
	case OptionFontFamily:
		return setString(&o.FontFamily, sanitize.CSSText(raw))
	case OptionFontWeight:
		v, ok := sanitize.FontWeight(raw)
		if ok {
			o.FontWeight = v
		}
		return ok
	case OptionFontSize:
		return setNumber(&o.FontSize, raw)
	case OptionBgColor:
		return setColor(&o.BgColor, raw)
	case OptionTextColor:
		return setColor(&o.TextColor, raw)
	case OptionDarkBgColor:
		return setColor(&o.DarkBgColor, raw)
	case OptionDarkTextColor:
		return setColor(&o.DarkTextColor, raw)
	case OptionTextWrap:
		o.TextWrap = sanitize.Bool(raw)
		return true
	default:
		return false
	}
}

func setNumber(dst *float64, raw string) bool {
	v, ok := sanitize.PositiveNumber(raw)
	if ok {
		*dst = v
	}
	return ok
}

func setString(dst *string, v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	*dst = v
	return true
}

func setColor(dst *string, raw string) bool {
	v, ok := sanitize.Color(raw)
	if ok {
		*dst = v
	}
	return ok
}
