// Package names normalizes person labels for lookups and comparisons.
// Stored labels always keep their verbatim training-directory spelling;
// normalization only ever widens a match.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Normalize normalizes a person label for comparison: diacritics stripped,
// lowercased, dashes and underscores folded to spaces, whitespace trimmed.
func Normalize(label string) string {
	label = RemoveDiacritics(label)
	label = strings.ToLower(label)
	label = strings.ReplaceAll(label, "-", " ")
	label = strings.ReplaceAll(label, "_", " ")
	return strings.TrimSpace(label)
}

// Match reports whether two labels refer to the same person after
// normalization.
func Match(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
