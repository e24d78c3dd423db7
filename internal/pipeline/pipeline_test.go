package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alberto/anybib/internal/match"
	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/registry"
	"github.com/alberto/anybib/internal/store"
)

type stubResolver struct {
	rec *reference.Record
	err error
}

func (s stubResolver) Resolve(ctx context.Context, identifier string) (*reference.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

// memStore is a minimal in-memory store for pipeline tests.
type memStore struct {
	entities []store.Entity
	created  []store.Entity
	updated  map[string]map[string]store.Field
	queryErr error
}

func newMemStore() *memStore {
	return &memStore{updated: map[string]map[string]store.Field{}}
}

func (m *memStore) QueryByKind(ctx context.Context, kind store.EntityKind, page, pageSize int) (store.Page, error) {
	if m.queryErr != nil {
		return store.Page{}, m.queryErr
	}
	return store.Page{Items: m.entities}, nil
}

func (m *memStore) QueryByField(ctx context.Context, kind store.EntityKind, key, value string) ([]store.Entity, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []store.Entity
	for _, e := range m.entities {
		if e.TextValue(key) == value {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) Create(ctx context.Context, kind store.EntityKind, name string, fields map[string]store.Field) (string, error) {
	id := fmt.Sprintf("obj-%d", len(m.created)+1)
	m.created = append(m.created, store.Entity{ID: id, Name: name, Fields: fields})
	return id, nil
}

func (m *memStore) Update(ctx context.Context, id string, fields map[string]store.Field) error {
	m.updated[id] = fields
	return nil
}

// fileStore adds attachment recording on top of memStore.
type fileStore struct {
	*memStore
	uploads  []string
	attached []string
}

func (f *fileStore) UploadFile(ctx context.Context, path string) (string, error) {
	f.uploads = append(f.uploads, path)
	return "file-1", nil
}

func (f *fileStore) AttachFile(ctx context.Context, objectID, fileID, relationKey string) error {
	f.attached = append(f.attached, objectID+"/"+fileID+"/"+relationKey)
	return nil
}

func sampleRecord() *reference.Record {
	return &reference.Record{
		Identifier: "10.1103/physrevlett.126.153603",
		Kind:       reference.KindArticle,
		Title:      "Deep strong coupling",
		Authors: []reference.Author{
			{FullName: "Salvatore Savasta", Given: "Salvatore", Family: "Savasta"},
		},
		Year:  2021,
		Venue: "Physical Review Letters",
		URL:   "https://doi.org/10.1103/physrevlett.126.153603",
	}
}

func newPipeline(ms store.Store, decide DecideFunc) *Pipeline {
	engine := match.New(ms, match.Options{})
	return New(stubResolver{rec: sampleRecord()}, ms, engine, match.FieldKeys{}, decide)
}

func TestIngestCreates(t *testing.T) {
	ms := newMemStore()
	p := newPipeline(ms, nil)

	report, err := p.Ingest(context.Background(), "10.1103/PhysRevLett.126.153603", Options{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if report.Action != ActionCreate {
		t.Errorf("Action = %q", report.Action)
	}
	if len(ms.created) != 1 {
		t.Fatalf("created %d entities", len(ms.created))
	}
	created := ms.created[0]
	if created.Name != "Deep strong coupling" {
		t.Errorf("entity name = %q", created.Name)
	}
	if got := created.TextValue("doi"); got != "10.1103/physrevlett.126.153603" {
		t.Errorf("doi field = %q", got)
	}
	if created.Fields["year"].Number != 2021 {
		t.Errorf("year field = %v", created.Fields["year"].Number)
	}
	if report.CiteKey != "Savasta2021Deep" {
		t.Errorf("CiteKey = %q", report.CiteKey)
	}
	if report.BibTeX == "" {
		t.Error("empty BibTeX in report")
	}
}

func TestIngestReportsDuplicates(t *testing.T) {
	ms := newMemStore()
	ms.entities = []store.Entity{
		{ID: "a1", Name: "Deep strong coupling", Fields: map[string]store.Field{
			"doi": store.Text("10.1103/physrevlett.126.153603"),
		}},
	}
	p := newPipeline(ms, nil)

	report, err := p.Ingest(context.Background(), "10.1103/physrevlett.126.153603", Options{DryRun: true})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(report.Duplicates.Candidates) != 1 {
		t.Fatalf("got %d duplicate candidates", len(report.Duplicates.Candidates))
	}
	dup := report.Duplicates.Candidates[0]
	if dup.Similarity != 1.0 || dup.Reason != match.ReasonExactIdentifier {
		t.Errorf("candidate = %+v", dup)
	}
	if len(ms.created) != 0 {
		t.Error("dry run must not create entities")
	}
}

func TestIngestUpdateDecision(t *testing.T) {
	ms := newMemStore()
	decide := func(rec *reference.Record, dups []match.Candidate) (Decision, error) {
		return Decision{Action: ActionUpdate, EntityID: "existing-1"}, nil
	}
	p := newPipeline(ms, decide)

	report, err := p.Ingest(context.Background(), "10.1/x", Options{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if report.Action != ActionUpdate || report.EntityID != "existing-1" {
		t.Errorf("report = %+v", report)
	}
	if _, ok := ms.updated["existing-1"]; !ok {
		t.Error("expected update on existing-1")
	}
	if len(ms.created) != 0 {
		t.Error("update decision must not create")
	}
}

func TestIngestAbortDecision(t *testing.T) {
	ms := newMemStore()
	decide := func(rec *reference.Record, dups []match.Candidate) (Decision, error) {
		return Decision{Action: ActionAbort}, nil
	}
	p := newPipeline(ms, decide)

	report, err := p.Ingest(context.Background(), "10.1/x", Options{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if report.Action != ActionAbort {
		t.Errorf("Action = %q", report.Action)
	}
	if len(ms.created) != 0 || len(ms.updated) != 0 {
		t.Error("abort must not touch the store")
	}
}

func TestIngestNotFoundPropagates(t *testing.T) {
	ms := newMemStore()
	engine := match.New(ms, match.Options{})
	p := New(stubResolver{err: registry.ErrNotFound}, ms, engine, match.FieldKeys{}, nil)

	_, err := p.Ingest(context.Background(), "10.9999/missing", Options{})
	if !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngestDegradedOnStoreFailure(t *testing.T) {
	ms := newMemStore()
	ms.queryErr = store.ErrUnavailable
	p := newPipeline(ms, nil)

	report, err := p.Ingest(context.Background(), "10.1/x", Options{DryRun: true})
	if err != nil {
		t.Fatalf("Ingest should degrade, not fail: %v", err)
	}
	if !report.Degraded {
		t.Error("expected degraded report")
	}
}

func TestIngestAuthorAndJournalCandidates(t *testing.T) {
	ms := newMemStore()
	ms.entities = []store.Entity{
		{ID: "p1", Name: "Salvatore Savasta", Fields: map[string]store.Field{
			"family": store.Text("Savasta"),
			"given":  store.Text("Salvatore"),
		}},
		{ID: "j1", Name: "Phys. Rev. Lett."},
	}
	p := newPipeline(ms, nil)

	report, err := p.Ingest(context.Background(), "10.1/x", Options{DryRun: true})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(report.Authors) != 1 {
		t.Fatalf("got %d author match sets", len(report.Authors))
	}
	if len(report.Authors[0].Result.Candidates) == 0 {
		t.Error("expected person candidates for Savasta")
	}
	if len(report.Journal.Candidates) == 0 {
		t.Error("expected journal candidates via known abbreviation")
	}
}

func TestIngestAttachesPDF(t *testing.T) {
	fs := &fileStore{memStore: newMemStore()}
	engine := match.New(fs, match.Options{})
	p := New(stubResolver{rec: sampleRecord()}, fs, engine, match.FieldKeys{}, nil)

	report, err := p.Ingest(context.Background(), "10.1/x", Options{PDFPath: "/tmp/paper.pdf"})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !report.Attached {
		t.Error("expected attached flag")
	}
	if len(fs.uploads) != 1 || fs.uploads[0] != "/tmp/paper.pdf" {
		t.Errorf("uploads = %v", fs.uploads)
	}
	if len(fs.attached) != 1 || fs.attached[0] != report.EntityID+"/file-1/file" {
		t.Errorf("attached = %v", fs.attached)
	}
}

func TestIngestEmptyIdentifier(t *testing.T) {
	ms := newMemStore()
	p := newPipeline(ms, nil)

	if _, err := p.Ingest(context.Background(), "   ", Options{}); err == nil {
		t.Error("expected error for empty identifier")
	}
}
