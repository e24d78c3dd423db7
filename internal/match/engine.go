package match

import (
	"github.com/alberto/anybib/internal/store"
)

// Defaults for pool enumeration and decision thresholds.
const (
	// DefaultThreshold is the configured journal/article admission threshold.
	DefaultThreshold = 0.8

	// PersonFloor is the fixed admission floor for person candidates. It is
	// deliberately lower than, and independent of, the configured threshold:
	// personal-name variation is noisier than journal-name variation.
	PersonFloor = 0.6

	// DefaultPageSize is the page size used when enumerating store pools.
	DefaultPageSize = 50

	// MaxPoolSize caps enumeration against a misbehaving or very large
	// store. Enumeration stops here even if the store reports more pages.
	MaxPoolSize = 1000
)

// FieldKeys names the store fields the engine reads. The zero value is
// usable; empty keys fall back to the defaults below.
type FieldKeys struct {
	Identifier string // article persistent identifier, default "doi"
	ORCID      string // person external researcher id, default "orcid"
	Family     string // person family name, default "family"
	Given      string // person given name, default "given"
}

func (k FieldKeys) withDefaults() FieldKeys {
	if k.Identifier == "" {
		k.Identifier = "doi"
	}
	if k.ORCID == "" {
		k.ORCID = "orcid"
	}
	if k.Family == "" {
		k.Family = "family"
	}
	if k.Given == "" {
		k.Given = "given"
	}
	return k
}

// Options configures an Engine.
type Options struct {
	// Threshold is the journal/article admission threshold in [0,1].
	// Zero means DefaultThreshold. Person admission ignores it.
	Threshold float64

	// PageSize is the store enumeration page size. Zero means default.
	PageSize int

	// MaxPool caps the number of candidates enumerated per lookup.
	// Zero means MaxPoolSize.
	MaxPool int

	// Keys maps the engine onto the store's field naming.
	Keys FieldKeys

	// Aliases is the journal alias table. Nil means the seeded defaults.
	Aliases *AliasTable
}

// Engine ranks duplicate candidates for articles, persons, and journals
// against a knowledge store. It is synchronous and holds no mutable state
// beyond per-call accumulators, so one Engine may be shared by callers that
// parallelize across records.
type Engine struct {
	store     store.Store
	threshold float64
	pageSize  int
	maxPool   int
	keys      FieldKeys
	aliases   *AliasTable
}

// New creates an Engine over the given store.
func New(s store.Store, opts Options) *Engine {
	e := &Engine{
		store:     s,
		threshold: opts.Threshold,
		pageSize:  opts.PageSize,
		maxPool:   opts.MaxPool,
		keys:      opts.Keys.withDefaults(),
		aliases:   opts.Aliases,
	}
	if e.threshold <= 0 {
		e.threshold = DefaultThreshold
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultPageSize
	}
	if e.maxPool <= 0 {
		e.maxPool = MaxPoolSize
	}
	if e.aliases == nil {
		e.aliases = DefaultAliases()
	}
	return e
}
