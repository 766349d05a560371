// Package slug turns display names into URL-safe identifiers for the
// storefront.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes combining marks after canonical decomposition,
// so "é" becomes "e" rather than being dropped.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts text to a slug: lowercase ASCII letters and digits,
// runs of anything else collapsed into single hyphens.
func Make(s string) string {
	normalized, _, err := transform.String(stripMarks, s)
	if err != nil {
		normalized = s
	}

	var b strings.Builder
	b.Grow(len(normalized))
	pendingHyphen := false
	for _, r := range strings.ToLower(normalized) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingHyphen = b.Len() > 0
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
