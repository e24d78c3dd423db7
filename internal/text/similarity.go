package text

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a normalized edit-distance similarity in [0, 1].
//
// Equal raw strings and equal normalized forms both score 1.0, so inputs
// that differ only in accents or punctuation count as perfect matches.
// Otherwise the Levenshtein distance between the normalized forms is
// divided by the longer of the two un-normalized rune lengths. Using the
// un-normalized length as the penalty basis makes accented or punctuated
// inputs score slightly more conservatively than pre-normalized ones;
// this matches the behavior existing cite keys and stored matches depend on.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0.0
	}
	return sim
}
