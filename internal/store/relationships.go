package store

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/query"
)

// RelationshipStore holds relationships keyed by id in insertion order.
//
// It keeps no reference to a PatternStore; callers pass one to Add and Find.
// The same single-writer rule as PatternStore applies.
type RelationshipStore struct {
	byID  map[string]int
	order []model.Relationship

	logger *slog.Logger
}

// NewRelationshipStore returns an empty store.
func NewRelationshipStore(logger *slog.Logger) *RelationshipStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelationshipStore{
		byID:   make(map[string]int),
		logger: logger,
	}
}

// Add inserts rel if its id is new and integrity.ValidateRelationship
// accepts it against patterns. Any failure leaves the store unchanged.
//
// Relationships with fewer than two populated roles are accepted; the
// projectors skip them.
func (s *RelationshipStore) Add(rel model.Relationship, patterns integrity.PatternLookup) error {
	if _, exists := s.byID[rel.ID]; exists {
		err := integrity.NewDuplicateIDError("relationship", rel.ID)
		s.logger.Debug("relationship rejected", "id", rel.ID, "code", err.Code)
		return err
	}
	if err := integrity.ValidateRelationship(rel, patterns); err != nil {
		s.logger.Debug("relationship rejected", "id", rel.ID, "code", integrity.CodeOf(err))
		return err
	}

	s.byID[rel.ID] = len(s.order)
	s.order = append(s.order, rel.Clone())
	return nil
}

// Get returns the relationship with the given id.
func (s *RelationshipStore) Get(id string) (model.Relationship, bool) {
	idx, ok := s.byID[id]
	if !ok {
		return model.Relationship{}, false
	}
	return s.order[idx].Clone(), true
}

// All yields every relationship in insertion order. Restartable.
func (s *RelationshipStore) All() iter.Seq[model.Relationship] {
	return func(yield func(model.Relationship) bool) {
		for _, rel := range s.order {
			if !yield(rel.Clone()) {
				return
			}
		}
	}
}

// Count returns the number of relationships.
func (s *RelationshipStore) Count() int {
	return len(s.order)
}

// Find returns the relationships matching pred, in insertion order.
// The predicate is validated first and all problems are reported together.
// A nil predicate matches every relationship. Domain predicates are
// resolved through patterns.
func (s *RelationshipStore) Find(pred query.Predicate, patterns query.DomainLookup) ([]model.Relationship, error) {
	if errs := query.Validate(pred); len(errs) > 0 {
		return nil, &InvalidPredicateError{Errors: errs}
	}

	out := []model.Relationship{}
	for _, rel := range s.order {
		if query.Match(pred, rel, patterns) {
			out = append(out, rel.Clone())
		}
	}
	return out, nil
}

// InvalidPredicateError wraps every validation problem found in a Find
// predicate.
type InvalidPredicateError struct {
	Errors []query.ValidationError
}

func (e *InvalidPredicateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid predicate: %s", e.Errors[0].Error())
	}
	return fmt.Sprintf("invalid predicate: %s (and %d more)", e.Errors[0].Error(), len(e.Errors)-1)
}
