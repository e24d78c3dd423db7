package text

import (
	"strings"
	"unicode/utf8"
)

// IsAbbreviation reports whether short is a plausible abbreviation of long,
// e.g. "J." for "John" or "Phys. Rev. Lett." for "Physical Review Letters".
//
// The check is directional: callers that need symmetry must invoke it both
// ways. Comparison is accent- and case-insensitive but keeps periods and
// hyphens, since those carry the abbreviation structure.
func IsAbbreviation(short, long string) bool {
	short = Fold(short)
	long = Fold(long)
	if short == "" || long == "" {
		return false
	}
	if utf8.RuneCountInString(short) > utf8.RuneCountInString(long) {
		return false
	}

	short = strings.TrimSuffix(short, ".")

	if utf8.RuneCountInString(short) == 1 {
		return strings.HasPrefix(long, short)
	}

	shortTokens := splitTokens(short, ". -")
	longTokens := splitTokens(long, " -")
	if len(shortTokens) > len(longTokens) {
		return false
	}

	for i, tok := range shortTokens {
		if !strings.HasPrefix(longTokens[i], tok) {
			return false
		}
	}
	return true
}

// splitTokens splits on any of the separator runes, dropping empty tokens.
func splitTokens(s, seps string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
}
