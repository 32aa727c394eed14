package query

import "github.com/roach88/patternspace/internal/model"

// Predicate is a filter over relationships.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// RoleEquals holds when the relationship's Role slot references ID.
//
// Example:
//
//	RoleEquals{Role: model.RoleProcess, ID: "detection"}
type RoleEquals struct {
	Role model.Role
	ID   string
}

func (RoleEquals) predicateNode() {}

// DomainEquals holds when at least one populated role references a pattern
// whose domain equals Domain.
type DomainEquals struct {
	Domain string
}

func (DomainEquals) predicateNode() {}

// MinStrength holds when Strength >= Value.
type MinStrength struct {
	Value float64
}

func (MinStrength) predicateNode() {}

// MinConfidence holds when Confidence >= Value.
type MinConfidence struct {
	Value float64
}

func (MinConfidence) predicateNode() {}

// And holds when every child holds.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Where composes predicates into a single And. Nil entries are dropped.
//
//	query.Where(query.RoleEquals{Role: model.RoleProperty, ID: "p1"}, query.MinStrength{Value: 0.5})
func Where(preds ...Predicate) And {
	out := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	return And{Predicates: out}
}
