package store

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
)

// PatternStore holds patterns keyed by id and remembers insertion order
// both globally and per kind.
//
// Not safe for concurrent writers. Reads may run concurrently with each
// other but not with Add or Update.
type PatternStore struct {
	byID   map[string]int // id -> index into order
	order  []model.Pattern
	byKind map[model.Kind][]int

	clock  Clock
	logger *slog.Logger
}

// NewPatternStore returns an empty store.
func NewPatternStore(clock Clock, logger *slog.Logger) *PatternStore {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternStore{
		byID:   make(map[string]int),
		byKind: make(map[model.Kind][]int, len(model.Kinds())),
		clock:  clock,
		logger: logger,
	}
}

// Add inserts p after integrity.ValidatePattern accepts it. On error the
// store is unchanged. The stored value is a copy of p; Add does not touch
// the timestamps.
func (s *PatternStore) Add(p model.Pattern) error {
	if err := integrity.ValidatePattern(p, s); err != nil {
		s.logger.Debug("pattern rejected",
			"id", p.ID,
			"kind", p.Kind,
			"code", integrity.CodeOf(err))
		return err
	}

	idx := len(s.order)
	s.order = append(s.order, p.Clone())
	s.byID[p.ID] = idx
	s.byKind[p.Kind] = append(s.byKind[p.Kind], idx)
	return nil
}

// Update replaces the stored pattern with the same id. ID and Kind are
// immutable; CreatedAt is kept and UpdatedAt is taken from the store clock.
// The pattern keeps its insertion position.
func (s *PatternStore) Update(p model.Pattern) (model.Pattern, error) {
	idx, ok := s.byID[p.ID]
	if !ok {
		return model.Pattern{}, &integrity.Error{
			Code:     integrity.ErrCodeNotFound,
			Message:  "pattern does not exist",
			EntityID: p.ID,
		}
	}
	cur := s.order[idx]
	if p.Kind != cur.Kind {
		return model.Pattern{}, &integrity.Error{
			Code:     integrity.ErrCodeImmutableField,
			Message:  fmt.Sprintf("kind cannot change from %s to %s", cur.Kind, p.Kind),
			EntityID: p.ID,
			Field:    "kind",
		}
	}

	next := p.Clone()
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.clock.Now()
	s.order[idx] = next
	return next.Clone(), nil
}

// Get returns the pattern with the given id. Absence is not an error.
func (s *PatternStore) Get(id string) (model.Pattern, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return model.Pattern{}, false
	}
	return s.order[idx].Clone(), true
}

// KindOf implements integrity.PatternLookup.
func (s *PatternStore) KindOf(id string) (model.Kind, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return s.order[idx].Kind, true
}

// DomainOf implements query.DomainLookup.
func (s *PatternStore) DomainOf(id string) (string, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return "", false
	}
	return s.order[idx].Domain, true
}

// ByKind yields patterns of one kind in insertion order. When a domain is
// given only patterns with exactly that domain are yielded. The sequence
// can be ranged over any number of times.
func (s *PatternStore) ByKind(kind model.Kind, domain ...string) iter.Seq[model.Pattern] {
	filter, filtered := "", len(domain) > 0
	if filtered {
		filter = domain[0]
	}
	return func(yield func(model.Pattern) bool) {
		for _, idx := range s.byKind[kind] {
			p := s.order[idx]
			if filtered && p.Domain != filter {
				continue
			}
			if !yield(p.Clone()) {
				return
			}
		}
	}
}

// All yields every pattern in global insertion order.
func (s *PatternStore) All() iter.Seq[model.Pattern] {
	return func(yield func(model.Pattern) bool) {
		for _, p := range s.order {
			if !yield(p.Clone()) {
				return
			}
		}
	}
}

// Count returns the total number of patterns.
func (s *PatternStore) Count() int {
	return len(s.order)
}

// CountKind returns the number of patterns of one kind.
func (s *PatternStore) CountKind(kind model.Kind) int {
	return len(s.byKind[kind])
}
