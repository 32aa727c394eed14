// Package integrity implements the checks that gate every store mutation.
//
// All functions are pure: they read already-loaded state through
// PatternLookup and never perform I/O. Each returns nil or an *Error whose
// Code names the violated rule.
package integrity

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/patternspace/internal/model"
)

// PatternLookup is the read-only view of a pattern store needed for
// validation.
type PatternLookup interface {
	// KindOf returns the kind stored under id, and false if id is absent.
	KindOf(id string) (model.Kind, bool)
}

// ValidatePattern checks a pattern before insertion: the id must be
// non-empty and unused, and the kind must be known.
func ValidatePattern(p model.Pattern, lookup PatternLookup) error {
	if strings.TrimSpace(p.ID) == "" {
		return &Error{
			Code:    ErrCodeInvalidPattern,
			Message: "pattern id is required",
			Field:   "id",
		}
	}
	if !p.Kind.Valid() {
		return &Error{
			Code:     ErrCodeInvalidPattern,
			Message:  fmt.Sprintf("unknown kind %q", p.Kind),
			EntityID: p.ID,
			Field:    "kind",
		}
	}
	if _, exists := lookup.KindOf(p.ID); exists {
		return NewDuplicateIDError("pattern", p.ID)
	}
	return nil
}

// ValidateRelationship checks scores, then references.
//
// Strength and confidence must both lie in the closed interval [0,1]; NaN
// is out of range. Every non-empty role id must resolve to a pattern of the
// role's kind. Role cardinality is not checked here; see
// ValidateCardinality.
func ValidateRelationship(rel model.Relationship, lookup PatternLookup) error {
	if strings.TrimSpace(rel.ID) == "" {
		return &Error{
			Code:    ErrCodeInvalidRelationship,
			Message: "relationship id is required",
			Field:   "id",
		}
	}
	if !inUnitInterval(rel.Strength) {
		return NewRangeError(rel.ID, "strength", rel.Strength)
	}
	if !inUnitInterval(rel.Confidence) {
		return NewRangeError(rel.ID, "confidence", rel.Confidence)
	}

	for _, role := range model.Roles() {
		ref := rel.RoleID(role)
		if ref == "" {
			continue
		}
		kind, ok := lookup.KindOf(ref)
		if !ok {
			return NewDanglingReferenceError(rel.ID, role.Field(), ref, string(role.Kind()), "")
		}
		if kind != role.Kind() {
			return NewDanglingReferenceError(rel.ID, role.Field(), ref, string(role.Kind()), string(kind))
		}
	}
	return nil
}

// ValidateCardinality rejects relationships that populate fewer than two
// roles. Such relationships cannot be placed in the cube and decompose into
// no graph links. Stores accept them; strict loaders call this.
func ValidateCardinality(rel model.Relationship) error {
	n := len(rel.PopulatedRoles())
	if n >= 2 {
		return nil
	}
	return &Error{
		Code:     ErrCodeDegenerate,
		Message:  fmt.Sprintf("relationship populates %d role(s), need at least 2", n),
		EntityID: rel.ID,
		Details:  map[string]string{"populated": fmt.Sprintf("%d", n)},
	}
}

// inUnitInterval reports whether v is in [0,1]. NaN fails both comparisons.
func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1 && !math.IsNaN(v)
}
