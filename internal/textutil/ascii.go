package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ASCIISafe renders text for plain-text artifacts: accented letters are folded
// to their base form and any remaining non-ASCII runes become '?'.
func ASCIISafe(value string) string {
	folded, _, err := transform.String(asciiFold, value)
	if err != nil {
		folded = value
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		} else {
			b.WriteByte('?')
		}
	}
	return b.String()
}
