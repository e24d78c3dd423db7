package match

import (
	"context"
	"errors"

	"github.com/alberto/anybib/internal/store"
)

// fakeStore is an in-memory Store for matcher tests. failAfterPages makes
// QueryByKind fail once that many pages have been served, to exercise the
// degraded-result path.
type fakeStore struct {
	entities map[store.EntityKind][]store.Entity

	failAfterPages int // 0 disables
	pagesServed    int
}

var errFakeDown = errors.New("store down")

func (f *fakeStore) QueryByKind(ctx context.Context, kind store.EntityKind, page, pageSize int) (store.Page, error) {
	if f.failAfterPages > 0 && f.pagesServed >= f.failAfterPages {
		return store.Page{}, errFakeDown
	}
	f.pagesServed++

	pool := f.entities[kind]
	start := page * pageSize
	if start >= len(pool) {
		return store.Page{}, nil
	}
	end := start + pageSize
	if end > len(pool) {
		end = len(pool)
	}
	return store.Page{Items: pool[start:end], HasMore: end < len(pool)}, nil
}

func (f *fakeStore) QueryByField(ctx context.Context, kind store.EntityKind, key, value string) ([]store.Entity, error) {
	var hits []store.Entity
	for _, ent := range f.entities[kind] {
		if ent.TextValue(key) == value {
			hits = append(hits, ent)
		}
	}
	return hits, nil
}

func (f *fakeStore) Create(ctx context.Context, kind store.EntityKind, name string, fields map[string]store.Field) (string, error) {
	ent := store.Entity{ID: name, Name: name, Fields: fields}
	if f.entities == nil {
		f.entities = map[store.EntityKind][]store.Entity{}
	}
	f.entities[kind] = append(f.entities[kind], ent)
	return ent.ID, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, fields map[string]store.Field) error {
	for kind, pool := range f.entities {
		for i, ent := range pool {
			if ent.ID == id {
				for k, v := range fields {
					if ent.Fields == nil {
						ent.Fields = map[string]store.Field{}
					}
					ent.Fields[k] = v
				}
				f.entities[kind][i] = ent
				return nil
			}
		}
	}
	return store.ErrNotFound
}

func person(id, name, family, given, orcid string) store.Entity {
	fields := map[string]store.Field{}
	if family != "" {
		fields["family"] = store.Text(family)
	}
	if given != "" {
		fields["given"] = store.Text(given)
	}
	if orcid != "" {
		fields["orcid"] = store.Text(orcid)
	}
	return store.Entity{ID: id, Name: name, Fields: fields}
}

func journal(id, name string) store.Entity {
	return store.Entity{ID: id, Name: name}
}

func article(id, title, doi string) store.Entity {
	return store.Entity{
		ID: id, Name: title,
		Fields: map[string]store.Field{"doi": store.Text(doi)},
	}
}
