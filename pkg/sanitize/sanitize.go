// Package sanitize normalizes human-readable text from the upstream catalog
// into a canonical form. Canonical text is what gets stored and compared, so
// every function here must be deterministic and idempotent.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// quoteFolder maps the typographic quote code points to their ASCII
// counterparts.
var quoteFolder = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
)

// Text returns the canonical form of an arbitrary upstream value.
//
// Non-string values are rendered with their default textual representation
// (nil becomes the empty string). Strings are NFC-normalized, have
// typographic quotes folded to ASCII, and have every non-printable rune
// removed. Total function: it never fails.
func Text(v any) string {
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}

	s = norm.NFC.String(s)
	s = quoteFolder.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate bounds s to at most maxRunes code points, appending marker when
// anything was cut off.
func Truncate(s string, maxRunes int, marker string) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + marker
}
