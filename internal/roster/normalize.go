// Package roster holds student-name helpers shared by enrollment and search.
package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeStudentName trims surrounding whitespace and composes the name to NFC
// so "Jiří" typed on different keyboards is enrolled as the same string.
// An empty result means no name was given.
func NormalizeStudentName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// foldName lowercases, strips diacritics and treats dashes as spaces.
func foldName(name string) string {
	name = RemoveDiacritics(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// MatchesQuery reports whether name contains query, ignoring case, diacritics and
// dashes. An empty query matches everything.
func MatchesQuery(name, query string) bool {
	q := foldName(query)
	if q == "" {
		return true
	}
	return strings.Contains(foldName(name), q)
}

// Filter returns the items whose name matches query, preserving order.
func Filter[T any](items []T, name func(T) string, query string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesQuery(name(item), query) {
			out = append(out, item)
		}
	}
	return out
}
