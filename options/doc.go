// Package options resolves request input into a complete ImageOptions value.
//
// Resolution is pure and total: unrecognized parameters are ignored, rejected
// values keep their defaults, and the worst case is the default configuration.
//
// Input is merged in two steps:
//
//   - A path shorthand ("300x150", "300") sets width and height.
//   - Each recognized query parameter, in Options order, is passed through
//     its sanitizer and replaces the default only when accepted.
//
// Font size, vertical offset and label text are derived from the final
// dimensions unless set explicitly. See ImageOptions.EffectiveFontSize,
// ImageOptions.EffectiveDy and ImageOptions.EffectiveText.
package options
