package loader

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/schema"
	"github.com/roach88/patternspace/internal/store"
)

// Options controls how a document is applied.
type Options struct {
	// Strict rejects relationships with fewer than two populated roles.
	Strict bool

	// AssignIDs gives records without an id a fresh one from NewID instead
	// of rejecting them.
	AssignIDs bool

	// NewID generates ids for AssignIDs. Default: UUID v7.
	NewID func() string

	// Clock stamps CreatedAt and UpdatedAt. Default: store.SystemClock.
	Clock store.Clock

	// Logger is passed to the framework. Default: slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	if o.Clock == nil {
		o.Clock = store.SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// LoadFile reads, schema-checks, decodes, validates, and applies a domain
// file into a new Framework.
//
// Schema violations are returned together as schema.Errors. Once the
// document is structurally valid, loading stops at the first record the
// store rejects and returns a *RecordError wrapping the integrity error.
func LoadFile(path string, opts Options) (*store.Framework, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain file: %w", err)
	}
	return Load(path, data, opts)
}

// Load is LoadFile over bytes already in memory. filename selects the
// format and labels error positions.
func Load(filename string, data []byte, opts Options) (*store.Framework, error) {
	format, err := FormatFor(filename)
	if err != nil {
		return nil, err
	}
	if err := schema.Check(filename, data); err != nil {
		return nil, err
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Build(doc, opts)
}

// Build validates doc and applies it to a new Framework.
func Build(doc *Document, opts Options) (*store.Framework, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	fw := store.NewFramework(doc.Domain, store.WithClock(opts.Clock), store.WithLogger(opts.Logger))
	if err := Apply(doc, fw, opts); err != nil {
		return fw, err
	}
	fw.Logger().Info("domain loaded",
		"patterns", fw.Patterns.Count(),
		"relationships", fw.Relationships.Count())
	return fw, nil
}

// Apply inserts the document's records into fw in the insertion-order
// contract order and stops at the first rejected record. Records applied
// before the failure stay in fw.
func Apply(doc *Document, fw *store.Framework, opts Options) error {
	opts = opts.withDefaults()

	for _, kind := range model.Kinds() {
		if err := applyPatterns(doc, kind, fw, opts); err != nil {
			return err
		}
	}

	for i, rec := range doc.Relationships {
		rel, err := relationshipFromRecord(rec, opts)
		if err != nil {
			return &RecordError{Section: "relationships", Index: i, ID: rec.ID, Err: err}
		}
		if rel.ID == "" && opts.AssignIDs {
			rel.ID = opts.NewID()
		}
		if opts.Strict {
			if err := integrity.ValidateCardinality(rel); err != nil {
				return &RecordError{Section: "relationships", Index: i, ID: rel.ID, Err: err}
			}
		}
		if err := fw.AddRelationship(rel); err != nil {
			return &RecordError{Section: "relationships", Index: i, ID: rel.ID, Err: err}
		}
	}
	return nil
}

func applyPatterns(doc *Document, kind model.Kind, fw *store.Framework, opts Options) error {
	section := "patterns." + kind.Plural()
	typed := doc.Patterns.forKind(kind)

	named := make(map[string]bool, len(typed))
	for i, rec := range typed {
		p, err := patternFromRecord(rec, kind, doc.Domain, opts)
		if err != nil {
			return &RecordError{Section: section, Index: i, ID: rec.ID, Err: err}
		}
		if p.ID == "" && opts.AssignIDs {
			p.ID = opts.NewID()
		}
		if err := fw.AddPattern(p); err != nil {
			return &RecordError{Section: section, Index: i, ID: p.ID, Err: err}
		}
		named[rec.Name] = true
	}

	// Bare names become patterns with positional ids. A position already
	// claimed by a typed entry moves to the next free index.
	for i, name := range doc.namesForKind(kind) {
		if named[name] {
			continue
		}
		now := opts.Clock.Now()
		p := model.Pattern{
			ID:        positionalID(fw, kind, i),
			Name:      name,
			Kind:      kind,
			Domain:    doc.Domain,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := fw.AddPattern(p); err != nil {
			return &RecordError{Section: kind.Plural(), Index: i, ID: p.ID, Err: err}
		}
	}
	return nil
}

func positionalID(fw *store.Framework, kind model.Kind, i int) string {
	for n := i; ; n++ {
		id := fmt.Sprintf("%s-%d", kind, n)
		if _, taken := fw.Patterns.Get(id); !taken {
			return id
		}
	}
}

func (s PatternSets) forKind(kind model.Kind) []PatternRecord {
	switch kind {
	case model.KindProperty:
		return s.Properties
	case model.KindProcess:
		return s.Processes
	case model.KindPerspective:
		return s.Perspectives
	}
	return nil
}

func (d *Document) namesForKind(kind model.Kind) []string {
	switch kind {
	case model.KindProperty:
		return d.Properties
	case model.KindProcess:
		return d.Processes
	case model.KindPerspective:
		return d.Perspectives
	}
	return nil
}

func patternFromRecord(rec PatternRecord, kind model.Kind, docDomain string, opts Options) (model.Pattern, error) {
	if rec.Type != "" {
		k, err := model.ParseKind(rec.Type)
		if err != nil || k != kind {
			return model.Pattern{}, &kindError{got: rec.Type, want: kind.Plural()}
		}
	}

	domain := docDomain
	if rec.Domain != nil {
		domain = *rec.Domain
	}

	meta, err := model.ObjectOf(rec.Metadata)
	if err != nil {
		return model.Pattern{}, fmt.Errorf("%s: metadata: %w", CodeInvalidRecord, err)
	}

	now := opts.Clock.Now()
	return model.Pattern{
		ID:        rec.ID,
		Name:      rec.Name,
		Kind:      kind,
		Domain:    domain,
		Tags:      rec.Tags,
		Metadata:  meta,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func relationshipFromRecord(rec RelationshipRecord, opts Options) (model.Relationship, error) {
	now := opts.Clock.Now()
	rel := model.Relationship{
		ID:            rec.ID,
		PropertyID:    deref(rec.PropertyID),
		ProcessID:     deref(rec.ProcessID),
		PerspectiveID: deref(rec.PerspectiveID),
		Bidirectional: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rec.Strength != nil {
		rel.Strength = *rec.Strength
	}
	if rec.Confidence != nil {
		rel.Confidence = *rec.Confidence
	}
	if rec.Bidirectional != nil {
		rel.Bidirectional = *rec.Bidirectional
	}
	attrs, err := model.ObjectOf(rec.Attributes)
	if err != nil {
		return model.Relationship{}, fmt.Errorf("%s: attributes: %w", CodeInvalidRecord, err)
	}
	rel.Attributes = attrs
	return rel, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
