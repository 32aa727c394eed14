package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/projection"
)

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	// Source is re-projected by the deterministic assertion.
	Source projection.Source
	Logger *slog.Logger
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertCubeConnections:
		return assertCount(a, len(result.Cube.Connections))
	case AssertCubeSkipped:
		return assertCount(a, result.Cube.Skipped)
	case AssertGraphLinks:
		return assertCount(a, len(result.Graph.Links))
	case AssertGraphOmitted:
		return assertCount(a, result.Graph.Omitted)
	case AssertCoordinate:
		return assertCoordinate(result.Cube, a)
	case AssertLink:
		return assertLink(result.Graph, a)
	case AssertDeterministic:
		return assertDeterministic(result, actx)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertCount(a Assertion, actual int) error {
	if actual == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d", *a.Count),
		Actual:   fmt.Sprintf("%d", actual),
	}
}

// assertCoordinate checks the x,y,z of one connection.
func assertCoordinate(cube model.CubeProjection, a Assertion) error {
	want := fmt.Sprintf("%s at (%d,%d,%d)", a.Relationship, *a.X, *a.Y, *a.Z)
	for _, c := range cube.Connections {
		if c.ID != a.Relationship {
			continue
		}
		if c.X == *a.X && c.Y == *a.Y && c.Z == *a.Z {
			return nil
		}
		return &AssertionError{
			Type:     AssertCoordinate,
			Expected: want,
			Actual:   fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z),
		}
	}
	return &AssertionError{
		Type:     AssertCoordinate,
		Expected: want,
		Actual:   "relationship not in cube connections",
	}
}

// assertLink checks that at least one link matches source, target and type.
func assertLink(graph model.GraphProjection, a Assertion) error {
	for _, l := range graph.Links {
		if l.Source == a.Source && l.Target == a.Target && l.Type == a.LinkType {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertLink,
		Expected: fmt.Sprintf("%s -> %s (%s)", a.Source, a.Target, a.LinkType),
		Actual:   fmt.Sprintf("not among %d links", len(graph.Links)),
	}
}

// assertDeterministic re-projects the source and compares digests.
func assertDeterministic(result *Result, actx *AssertionContext) error {
	opts := []projection.Option{projection.WithLogger(actx.Logger)}

	cube, err := projection.Cube(actx.Source, opts...)
	if err != nil {
		return err
	}
	graph, err := projection.Graph(actx.Source, opts...)
	if err != nil {
		return err
	}

	if err := sameDigest("cube", model.CubeDigest, result.Cube, cube); err != nil {
		return err
	}
	return sameDigest("graph", model.GraphDigest, result.Graph, graph)
}

func sameDigest[P any](name string, digest func(P) (string, error), first, second P) error {
	a, err := digest(first)
	if err != nil {
		return err
	}
	b, err := digest(second)
	if err != nil {
		return err
	}
	if a != b {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: fmt.Sprintf("%s digest %s", name, a),
			Actual:   b,
		}
	}
	return nil
}
