// Package bibtex renders bibliographic records as BibTeX entries, parses
// them back, and derives citation keys.
package bibtex

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/text"
)

// CiteKey derives a citation key from the first author's surname, the
// publication year, and the first title word, e.g. "Savasta2021Ultrastrong".
// The result is deterministic for fixed metadata; only a missing year falls
// back to the current calendar year.
func CiteKey(rec *reference.Record) string {
	family := "Unknown"
	if author := rec.FirstAuthor(); author != nil {
		switch {
		case author.Family != "":
			family = author.Family
		case author.FullName != "":
			// Last whitespace-delimited token of the raw name.
			tokens := strings.Fields(author.FullName)
			if len(tokens) > 0 {
				family = tokens[len(tokens)-1]
			}
		}
	}

	year := rec.Year
	if year == 0 {
		year = time.Now().Year()
	}

	titleWord := "Untitled"
	if tokens := strings.Fields(rec.Title); len(tokens) > 0 {
		titleWord = tokens[0]
	}

	return sanitizeKeyPart(stripLeadingArticle(family)) +
		strconv.Itoa(year) +
		sanitizeKeyPart(titleWord)
}

// stripLeadingArticle drops a leading "the", "a", or "an" word. A
// single-token name is left alone even when it is itself an article:
// a surname of just "The" must not strip to an empty key part.
func stripLeadingArticle(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) > 1 {
		switch strings.ToLower(tokens[0]) {
		case "the", "a", "an":
			return strings.Join(tokens[1:], " ")
		}
	}
	return s
}

// sanitizeKeyPart drops diacritics and every non-alphanumeric character,
// preserving case.
func sanitizeKeyPart(s string) string {
	s = text.StripAccents(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

