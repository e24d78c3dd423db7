// Package pipeline orchestrates identifier ingestion: resolve metadata,
// rank duplicates, decide, and publish to the store.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/alberto/anybib/internal/bibtex"
	"github.com/alberto/anybib/internal/match"
	"github.com/alberto/anybib/internal/pdf"
	"github.com/alberto/anybib/internal/reference"
	"github.com/alberto/anybib/internal/registry"
	"github.com/alberto/anybib/internal/store"
)

// Action is the outcome of a duplicate decision.
type Action string

const (
	// ActionCreate creates a new entity.
	ActionCreate Action = "create"
	// ActionUpdate updates an existing entity.
	ActionUpdate Action = "update"
	// ActionAbort stops the ingest without touching the store.
	ActionAbort Action = "abort"
)

// Decision selects what to do with a resolved record. EntityID is the
// target for ActionUpdate and ignored otherwise.
type Decision struct {
	Action   Action
	EntityID string
}

// DecideFunc chooses an action once duplicate candidates are known.
// The CLI installs an interactive prompt; tests install fixed policies.
type DecideFunc func(rec *reference.Record, duplicates []match.Candidate) (Decision, error)

// CreateAlways ignores duplicates and always creates a new entity.
func CreateAlways(*reference.Record, []match.Candidate) (Decision, error) {
	return Decision{Action: ActionCreate}, nil
}

// FileStore is a store that can hold file attachments.
type FileStore interface {
	store.Store
	UploadFile(ctx context.Context, path string) (string, error)
	AttachFile(ctx context.Context, objectID, fileID, relationKey string) error
}

// AuthorMatches pairs an author with their person candidates.
type AuthorMatches struct {
	Author reference.Author `json:"author"`
	Result match.Result     `json:"result"`
}

// Report is the full outcome of one ingest.
type Report struct {
	Record     *reference.Record `json:"record"`
	CiteKey    string            `json:"citeKey"`
	BibTeX     string            `json:"bibtex"`
	Duplicates match.Result      `json:"duplicates"`
	Authors    []AuthorMatches   `json:"authors"`
	Journal    match.Result      `json:"journal"`
	Action     Action            `json:"action"`
	EntityID   string            `json:"entityId,omitempty"`
	Attached   bool              `json:"attached,omitempty"`
	// Degraded is set when any store enumeration returned a partial pool.
	// Candidate lists may be incomplete but the ingest still proceeds.
	Degraded bool `json:"degraded,omitempty"`
}

// Options configures an ingest run.
type Options struct {
	// PDFPath is an optional PDF to attach. When the identifier is empty
	// the PDF is also scanned for one.
	PDFPath string

	// DryRun skips the store write; the report still carries candidates.
	DryRun bool

	// FileRelationKey is the relation used when attaching the PDF.
	// Empty means "file".
	FileRelationKey string
}

// Pipeline wires a resolver, a matching engine, and a store.
type Pipeline struct {
	resolver registry.Resolver
	store    store.Store
	engine   *match.Engine
	keys     match.FieldKeys
	decide   DecideFunc
}

// New creates a Pipeline. A nil decide defaults to CreateAlways.
func New(resolver registry.Resolver, s store.Store, engine *match.Engine, keys match.FieldKeys, decide DecideFunc) *Pipeline {
	if decide == nil {
		decide = CreateAlways
	}
	return &Pipeline{
		resolver: resolver,
		store:    s,
		engine:   engine,
		keys:     keys,
		decide:   decide,
	}
}

// Ingest resolves an identifier and publishes it to the store. With an
// empty identifier and a PDF path set, the PDF is scanned for one first.
func (p *Pipeline) Ingest(ctx context.Context, identifier string, opts Options) (*Report, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" && opts.PDFPath != "" {
		found, err := pdf.ExtractDOI(opts.PDFPath)
		if err != nil {
			return nil, fmt.Errorf("scanning pdf for identifier: %w", err)
		}
		identifier = found
	}
	if identifier == "" {
		return nil, fmt.Errorf("no identifier given and none found in pdf")
	}

	rec, err := p.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", identifier, err)
	}

	report := &Report{
		Record:  rec,
		CiteKey: bibtex.CiteKey(rec),
		BibTeX:  bibtex.Format(rec),
	}

	if err := p.gatherCandidates(ctx, rec, report); err != nil {
		return nil, err
	}

	decision, err := p.decide(rec, report.Duplicates.Candidates)
	if err != nil {
		return nil, fmt.Errorf("deciding on duplicates: %w", err)
	}
	report.Action = decision.Action

	if decision.Action == ActionAbort || opts.DryRun {
		return report, nil
	}

	if err := p.publish(ctx, rec, report, decision, opts); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) gatherCandidates(ctx context.Context, rec *reference.Record, report *Report) error {
	dups, err := p.engine.Articles(ctx, rec.Identifier)
	if err != nil {
		return fmt.Errorf("matching articles: %w", err)
	}
	report.Duplicates = dups
	report.Degraded = dups.Degraded

	for _, author := range rec.Authors {
		res, err := p.engine.Persons(ctx, author.FamilyName(), author.GivenName(), author.ORCID)
		if err != nil {
			return fmt.Errorf("matching author %q: %w", author.FullName, err)
		}
		report.Authors = append(report.Authors, AuthorMatches{Author: author, Result: res})
		report.Degraded = report.Degraded || res.Degraded
	}

	if rec.Venue != "" {
		res, err := p.engine.Journals(ctx, rec.Venue)
		if err != nil {
			return fmt.Errorf("matching journal %q: %w", rec.Venue, err)
		}
		report.Journal = res
		report.Degraded = report.Degraded || res.Degraded
	}

	return nil
}

func (p *Pipeline) publish(ctx context.Context, rec *reference.Record, report *Report, decision Decision, opts Options) error {
	fields := p.entityFields(rec, report.BibTeX)

	switch decision.Action {
	case ActionCreate:
		id, err := p.store.Create(ctx, store.KindArticle, rec.Title, fields)
		if err != nil {
			return fmt.Errorf("creating entity: %w", err)
		}
		report.EntityID = id
	case ActionUpdate:
		if decision.EntityID == "" {
			return fmt.Errorf("update decision without an entity id")
		}
		if err := p.store.Update(ctx, decision.EntityID, fields); err != nil {
			return fmt.Errorf("updating entity %s: %w", decision.EntityID, err)
		}
		report.EntityID = decision.EntityID
	default:
		return fmt.Errorf("unknown action %q", decision.Action)
	}

	if opts.PDFPath != "" {
		attached, err := p.attachPDF(ctx, report.EntityID, opts)
		if err != nil {
			return err
		}
		report.Attached = attached
	}
	return nil
}

func (p *Pipeline) attachPDF(ctx context.Context, entityID string, opts Options) (bool, error) {
	fs, ok := p.store.(FileStore)
	if !ok {
		// Stores without file support skip the attachment silently; the
		// report's Attached flag stays false.
		return false, nil
	}

	fileID, err := fs.UploadFile(ctx, opts.PDFPath)
	if err != nil {
		return false, fmt.Errorf("uploading pdf: %w", err)
	}
	relation := opts.FileRelationKey
	if relation == "" {
		relation = "file"
	}
	if err := fs.AttachFile(ctx, entityID, fileID, relation); err != nil {
		return false, fmt.Errorf("attaching pdf: %w", err)
	}
	return true, nil
}

func (p *Pipeline) entityFields(rec *reference.Record, bibtexEntry string) map[string]store.Field {
	keys := p.keys
	if keys.Identifier == "" {
		keys.Identifier = "doi"
	}

	fields := map[string]store.Field{
		keys.Identifier: store.Text(rec.Identifier),
		"bibtex":        store.Text(bibtexEntry),
	}
	if rec.Year != 0 {
		fields["year"] = store.Number(float64(rec.Year))
	}
	if rec.Venue != "" {
		fields["journal"] = store.Text(rec.Venue)
	}
	if rec.URL != "" {
		fields["url"] = store.URL(rec.URL)
	}
	if len(rec.Authors) > 0 {
		fields["authors"] = store.Text(rec.FormattedAuthors())
	}
	return fields
}
