// Package sanitize turns untrusted query-string values into safe, typed values.
//
// Every function is pure and total: it never panics and reports a rejected
// input with a false ok result (or, for the text sanitizers, by removing the
// offending characters). Callers treat a rejection as "keep the default".
//
// The guarantees callers rely on:
//   - Text output contains no markup and no `"`, `<` or `>` characters, and
//     Text(Text(x)) == Text(x).
//   - CSSText output additionally contains no `:` or `;`, so it cannot end a
//     CSS declaration.
//   - Color output is a hex, rgb()/rgba() or named CSS color and nothing else.
package sanitize
