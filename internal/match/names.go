package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the comparison key for a player name: NFC normalized,
// trimmed, and Unicode case folded. "  SHANE warne " and "Shane Warne"
// fold to the same key.
func Fold(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// SameName reports whether two names refer to the same player.
func SameName(a, b string) bool {
	return Fold(a) == Fold(b)
}

// CleanName trims and NFC normalizes a name for display, falling back to
// def when nothing is left.
func CleanName(name, def string) string {
	n := norm.NFC.String(strings.TrimSpace(name))
	if n == "" {
		return def
	}
	return n
}
