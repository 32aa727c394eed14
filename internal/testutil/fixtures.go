package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/patternspace/internal/model"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Property builds a property pattern with no domain.
func Property(id, name string) model.Pattern {
	return model.Pattern{ID: id, Name: name, Kind: model.KindProperty}
}

// Process builds a process pattern with no domain.
func Process(id, name string) model.Pattern {
	return model.Pattern{ID: id, Name: name, Kind: model.KindProcess}
}

// Perspective builds a perspective pattern with no domain.
func Perspective(id, name string) model.Pattern {
	return model.Pattern{ID: id, Name: name, Kind: model.KindPerspective}
}

// InDomain returns p with its domain set.
func InDomain(p model.Pattern, domain string) model.Pattern {
	p.Domain = domain
	return p
}

// Rel builds a bidirectional relationship. Pass "" for a null role.
func Rel(id, property, process, perspective string, strength, confidence float64) model.Relationship {
	return model.Relationship{
		ID:            id,
		PropertyID:    property,
		ProcessID:     process,
		PerspectiveID: perspective,
		Strength:      strength,
		Confidence:    confidence,
		Bidirectional: true,
	}
}

// ScenarioA is one pattern of each kind joined by a single complete
// relationship r1=(a,b,c).
func ScenarioA() ([]model.Pattern, []model.Relationship) {
	patterns := []model.Pattern{
		Property("a", "P1"),
		Process("b", "Pr1"),
		Perspective("c", "Pe1"),
	}
	rels := []model.Relationship{
		Rel("r1", "a", "b", "c", 0.5, 0.9),
	}
	return patterns, rels
}

// ScenarioB extends ScenarioA with a binary relationship r2=(a,b,null).
func ScenarioB() ([]model.Pattern, []model.Relationship) {
	patterns, rels := ScenarioA()
	return patterns, append(rels, Rel("r2", "a", "b", "", 0.3, 0.4))
}
