// Package svg renders placeholder images as SVG markup or data URIs.
//
// Rendering is deterministic: identical options always produce
// byte-identical output. No clock, randomness or I/O is involved.
//
// Two layouts are supported:
//
//   - Single line: a centered <text> node offset by dy.
//   - Wrapped: a <foreignObject> holding an XHTML <div> that centers the
//     label with flexbox and wraps it within the padding.
//
// The label and every string attribute are XML-escaped. Dark-mode color
// overrides are emitted as a prefers-color-scheme media rule.
package svg
