// Package textnorm produces comparison keys for user-facing identifiers
// such as panel descriptions and permission names. Keys are accent- and
// case-insensitive so that "Laboratório", "laboratorio" and "LABORATÓRIO "
// all compare equal. Keys are for matching only, never for display.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Key returns the canonical comparison key for value: canonical
// decomposition, combining marks stripped, lowercased and trimmed.
// The empty string is returned for empty input.
func Key(value string) string {
	stripped, _, err := transform.String(stripMarks, value)
	if err != nil {
		// fall back to the raw value; lowercase/trim still apply
		stripped = value
	}
	return strings.ToLower(strings.TrimSpace(stripped))
}

// Equal reports whether a and b share the same comparison key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
