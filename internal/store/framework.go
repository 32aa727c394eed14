package store

import (
	"iter"
	"log/slog"

	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/query"
)

// Framework pairs a PatternStore with the RelationshipStore that references
// it. It is what the loader populates and what the projectors read.
type Framework struct {
	Domain        string
	Patterns      *PatternStore
	Relationships *RelationshipStore

	logger *slog.Logger
}

// Option configures a Framework.
type Option func(*frameworkConfig)

type frameworkConfig struct {
	clock  Clock
	logger *slog.Logger
}

// WithClock sets the clock used to stamp pattern updates.
func WithClock(c Clock) Option {
	return func(cfg *frameworkConfig) {
		cfg.clock = c
	}
}

// WithLogger sets the logger for both stores.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *frameworkConfig) {
		cfg.logger = l
	}
}

// NewFramework returns an empty framework for a domain.
func NewFramework(domain string, opts ...Option) *Framework {
	cfg := frameworkConfig{
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With("domain", domain)
	return &Framework{
		Domain:        domain,
		Patterns:      NewPatternStore(cfg.clock, logger),
		Relationships: NewRelationshipStore(logger),
		logger:        logger,
	}
}

// Logger returns the framework's domain-scoped logger.
func (f *Framework) Logger() *slog.Logger {
	return f.logger
}

// AddPattern adds p to the pattern store.
func (f *Framework) AddPattern(p model.Pattern) error {
	return f.Patterns.Add(p)
}

// AddRelationship adds rel, validating references against the pattern
// store.
func (f *Framework) AddRelationship(rel model.Relationship) error {
	return f.Relationships.Add(rel, f.Patterns)
}

// Find runs a predicate over the relationship store.
func (f *Framework) Find(pred query.Predicate) ([]model.Relationship, error) {
	return f.Relationships.Find(pred, f.Patterns)
}

// Get returns a pattern by id. Together with ByKind and AllRelationships it
// makes a Framework a projection source.
func (f *Framework) Get(id string) (model.Pattern, bool) {
	return f.Patterns.Get(id)
}

// AllPatterns yields patterns in global insertion order.
func (f *Framework) AllPatterns() iter.Seq[model.Pattern] {
	return f.Patterns.All()
}

// ByKind yields patterns of one kind in insertion order.
func (f *Framework) ByKind(kind model.Kind) iter.Seq[model.Pattern] {
	return f.Patterns.ByKind(kind)
}

// AllRelationships yields relationships in insertion order.
func (f *Framework) AllRelationships() iter.Seq[model.Relationship] {
	return f.Relationships.All()
}

// Stats summarizes the contents of a framework.
type Stats struct {
	Domain        string         `json:"domain"`
	Patterns      int            `json:"patterns"`
	ByKind        map[string]int `json:"by_kind"`
	Relationships int            `json:"relationships"`
	Complete      int            `json:"complete"`   // all three roles
	Binary        int            `json:"binary"`     // exactly two roles
	Degenerate    int            `json:"degenerate"` // fewer than two roles
}

// Stats counts patterns per kind and classifies relationships by how many
// roles they populate.
func (f *Framework) Stats() Stats {
	st := Stats{
		Domain:        f.Domain,
		Patterns:      f.Patterns.Count(),
		ByKind:        make(map[string]int, len(model.Kinds())),
		Relationships: f.Relationships.Count(),
	}
	for _, k := range model.Kinds() {
		st.ByKind[string(k)] = f.Patterns.CountKind(k)
	}
	for _, rel := range f.Relationships.order {
		switch len(rel.PopulatedRoles()) {
		case 3:
			st.Complete++
		case 2:
			st.Binary++
		default:
			st.Degenerate++
		}
	}
	return st
}
