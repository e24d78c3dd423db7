// Package text provides string normalization and comparison primitives
// shared by the matching engine and the citation formatter.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes accented characters and removes the combining marks.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	nonWordRun    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a string for comparison: accents stripped,
// lowercased, punctuation runs replaced by a single space, whitespace
// collapsed, trimmed. It is idempotent.
func Normalize(s string) string {
	s = Fold(s)
	s = nonWordRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fold strips accents, lowercases, and trims, but keeps punctuation.
// The abbreviation matcher needs periods and hyphens intact.
func Fold(s string) string {
	folded, _, err := transform.String(stripAccents, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// StripAccents removes diacritical marks without touching case or punctuation.
func StripAccents(s string) string {
	stripped, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return stripped
}
