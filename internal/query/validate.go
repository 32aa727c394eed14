package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/patternspace/internal/model"
)

// ValidationError is a single problem found in a predicate tree.
type ValidationError struct {
	Path    string // location in the tree, e.g. "and[1]"
	Message string
	Code    string // Q101, Q102, ...
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

// Error codes for predicate validation.
const (
	ErrUnknownRole      = "Q101" // RoleEquals names an unknown role
	ErrEmptyID          = "Q102" // RoleEquals with an empty id
	ErrThresholdRange   = "Q103" // MinStrength/MinConfidence outside [0,1]
	ErrUnknownPredicate = "Q104" // nil child or foreign Predicate
)

// Validate walks the tree and returns every problem found. A nil predicate
// is valid and matches all relationships.
func Validate(pred Predicate) []ValidationError {
	v := &validator{errs: []ValidationError{}}
	v.walk(pred, "", true)
	return v.errs
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(path, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Path:    path,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) walk(p Predicate, path string, root bool) {
	switch pred := p.(type) {
	case nil:
		if !root {
			v.add(path, ErrUnknownPredicate, "nil predicate")
		}
	case RoleEquals:
		v.roleEquals(pred, path)
	case *RoleEquals:
		v.roleEquals(*pred, path)
	case DomainEquals, *DomainEquals:
		// any domain string is acceptable, including ""
	case MinStrength:
		v.threshold("strength", pred.Value, path)
	case *MinStrength:
		v.threshold("strength", pred.Value, path)
	case MinConfidence:
		v.threshold("confidence", pred.Value, path)
	case *MinConfidence:
		v.threshold("confidence", pred.Value, path)
	case And:
		v.and(pred, path)
	case *And:
		v.and(*pred, path)
	default:
		v.add(path, ErrUnknownPredicate, "unknown predicate type %T", p)
	}
}

func (v *validator) roleEquals(pred RoleEquals, path string) {
	if !pred.Role.Valid() {
		v.add(path, ErrUnknownRole, "unknown role %q", pred.Role)
	}
	if strings.TrimSpace(pred.ID) == "" {
		v.add(path, ErrEmptyID, "role %s compared to empty id", pred.Role)
	}
}

func (v *validator) threshold(field string, value float64, path string) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		v.add(path, ErrThresholdRange, "minimum %s %v outside [0,1]", field, value)
	}
}

func (v *validator) and(pred And, path string) {
	for i, child := range pred.Predicates {
		v.walk(child, childPath(path, i), false)
	}
}

func childPath(parent string, i int) string {
	if parent == "" {
		return fmt.Sprintf("and[%d]", i)
	}
	return fmt.Sprintf("%s.and[%d]", parent, i)
}

// DomainLookup resolves a pattern id to its domain for DomainEquals.
type DomainLookup interface {
	DomainOf(id string) (string, bool)
}

// Match evaluates a validated predicate against one relationship. Behavior
// on an unvalidated tree containing foreign types is to not match.
func Match(p Predicate, rel model.Relationship, domains DomainLookup) bool {
	switch pred := p.(type) {
	case nil:
		return true
	case RoleEquals:
		return rel.RoleID(pred.Role) == pred.ID
	case *RoleEquals:
		return rel.RoleID(pred.Role) == pred.ID
	case DomainEquals:
		return inDomain(rel, pred.Domain, domains)
	case *DomainEquals:
		return inDomain(rel, pred.Domain, domains)
	case MinStrength:
		return rel.Strength >= pred.Value
	case *MinStrength:
		return rel.Strength >= pred.Value
	case MinConfidence:
		return rel.Confidence >= pred.Value
	case *MinConfidence:
		return rel.Confidence >= pred.Value
	case And:
		return matchAll(pred.Predicates, rel, domains)
	case *And:
		return matchAll(pred.Predicates, rel, domains)
	}
	return false
}

func matchAll(preds []Predicate, rel model.Relationship, domains DomainLookup) bool {
	for _, child := range preds {
		if child == nil || !Match(child, rel, domains) {
			return false
		}
	}
	return true
}

func inDomain(rel model.Relationship, domain string, domains DomainLookup) bool {
	for _, role := range rel.PopulatedRoles() {
		d, ok := domains.DomainOf(rel.RoleID(role))
		if ok && d == domain {
			return true
		}
	}
	return false
}
