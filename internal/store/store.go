// Package store defines the knowledge-store collaborator interface and its
// Anytype HTTP and local SQLite implementations.
package store

import "context"

// EntityKind identifies the type of object held in the store.
type EntityKind string

const (
	KindArticle EntityKind = "article"
	KindPerson  EntityKind = "person"
	KindJournal EntityKind = "journal"
)

// FieldKind tags the value carried by a Field.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldURL    FieldKind = "url"
	FieldRefs   FieldKind = "refs"
)

// Field is a tagged value attached to an entity. Exactly one of the value
// slots is meaningful, selected by Kind; Format carries the store's own
// format tag for the field.
type Field struct {
	Kind   FieldKind `json:"kind"`
	Format string    `json:"format,omitempty"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
	URL    string    `json:"url,omitempty"`
	Refs   []string  `json:"refs,omitempty"`
}

// Text returns a text field.
func Text(s string) Field { return Field{Kind: FieldText, Format: "text", Text: s} }

// Number returns a numeric field.
func Number(n float64) Field { return Field{Kind: FieldNumber, Format: "number", Number: n} }

// URL returns a URL field.
func URL(u string) Field { return Field{Kind: FieldURL, Format: "url", URL: u} }

// Refs returns a reference-list field pointing at other entities.
func Refs(ids ...string) Field { return Field{Kind: FieldRefs, Format: "object", Refs: ids} }

// Entity is a minimal structural view of a stored object.
type Entity struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Fields map[string]Field `json:"fields,omitempty"`
}

// TextValue returns the text content of the named field, or "" when the
// field is absent or not textual.
func (e Entity) TextValue(key string) string {
	f, ok := e.Fields[key]
	if !ok {
		return ""
	}
	switch f.Kind {
	case FieldText:
		return f.Text
	case FieldURL:
		return f.URL
	}
	return ""
}

// Page is one page of a kind-scoped enumeration.
type Page struct {
	Items   []Entity
	HasMore bool
}

// Store is the synchronous knowledge-store collaborator. Implementations
// must treat all methods as blocking calls honoring the context.
type Store interface {
	// QueryByKind returns one fixed-size page of entities of the given kind.
	// Pages are zero-indexed.
	QueryByKind(ctx context.Context, kind EntityKind, page, pageSize int) (Page, error)

	// QueryByField returns entities of the given kind whose field exactly
	// equals value. A miss is an empty slice, not an error.
	QueryByField(ctx context.Context, kind EntityKind, key, value string) ([]Entity, error)

	// Create adds a new entity and returns its id.
	Create(ctx context.Context, kind EntityKind, name string, fields map[string]Field) (string, error)

	// Update replaces the given fields on an existing entity.
	Update(ctx context.Context, id string, fields map[string]Field) error
}
