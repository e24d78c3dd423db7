// Package reference defines the core domain types for bibliographic records.
package reference

import "strings"

// Kind classifies a bibliographic record.
type Kind string

const (
	KindArticle Kind = "article"
	KindBook    Kind = "book"
	KindChapter Kind = "chapter"
	KindOther   Kind = "other"
)

// Record represents resolved bibliographic metadata for a single reference.
type Record struct {
	// Identifier is the persistent identifier (DOI), always stored lowercase.
	Identifier string `json:"identifier"`

	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Year    int      `json:"year,omitempty"` // 0 if unknown
	Kind    Kind     `json:"kind"`

	Venue      string `json:"venue,omitempty"`       // Journal or container title
	ShortVenue string `json:"short_venue,omitempty"` // Abbreviated container title
	Publisher  string `json:"publisher,omitempty"`
	Volume     string `json:"volume,omitempty"`
	Issue      string `json:"issue,omitempty"`
	Pages      string `json:"pages,omitempty"`
	URL        string `json:"url,omitempty"`
}

// NormalizeIdentifier lowercases a persistent identifier and strips common
// DOI URL prefixes so stored and incoming identifiers compare exactly.
func NormalizeIdentifier(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "https://doi.org/")
	id = strings.TrimPrefix(id, "http://doi.org/")
	id = strings.TrimPrefix(id, "doi.org/")
	id = strings.TrimPrefix(id, "DOI:")
	id = strings.TrimPrefix(id, "doi:")
	return strings.ToLower(id)
}

// FirstAuthor returns the first author, or nil if the list is empty.
func (r *Record) FirstAuthor() *Author {
	if len(r.Authors) == 0 {
		return nil
	}
	return &r.Authors[0]
}

// FormattedAuthors joins all authors with " and " in citation order.
func (r *Record) FormattedAuthors() string {
	names := make([]string, 0, len(r.Authors))
	for _, a := range r.Authors {
		names = append(names, a.DisplayName())
	}
	return strings.Join(names, " and ")
}
