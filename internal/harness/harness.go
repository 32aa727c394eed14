package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/projection"
	"github.com/roach88/patternspace/internal/schema"
	"github.com/roach88/patternspace/internal/store"
	"github.com/roach88/patternspace/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario builds a fresh Framework for isolation.
//
// Execution flow:
//  1. Load the domain file or inline records, collecting rejections
//  2. Compare rejections against ExpectErrors
//  3. Build both projections
//  4. Evaluate assertions
//
// An error is returned only when the scenario cannot run at all (an
// unreadable or schema-invalid domain file).
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	result := NewResult()

	fw, err := build(scenario, logger, result)
	if err != nil {
		return nil, err
	}
	checkExpectedErrors(scenario.ExpectErrors, result)

	opts := []projection.Option{projection.WithLogger(logger)}
	cube, err := projection.Cube(fw, opts...)
	if err != nil {
		return nil, fmt.Errorf("cube projection: %w", err)
	}
	graph, err := projection.Graph(fw, opts...)
	if err != nil {
		return nil, fmt.Errorf("graph projection: %w", err)
	}
	result.Cube = cube
	result.Graph = graph

	actx := &AssertionContext{Source: fw, Logger: logger}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func build(scenario *Scenario, logger *slog.Logger, result *Result) (*store.Framework, error) {
	clock := testutil.NewClockAt(testutil.Epoch, 0)

	if scenario.Domain != "" {
		fw, err := loader.LoadFile(scenario.Domain, loader.Options{
			Strict: scenario.Strict,
			Clock:  clock,
			Logger: logger,
		})
		if err == nil {
			return fw, nil
		}
		var re *loader.RecordError
		var se schema.Errors
		switch {
		case errors.As(err, &re) && fw != nil:
			result.LoadErrors[re.ID] = loader.CodeOf(err)
			return fw, nil
		case errors.As(err, &se):
			return nil, fmt.Errorf("domain file: %w", err)
		}
		return nil, fmt.Errorf("load domain: %w", err)
	}

	fw := store.NewFramework(scenario.Name, store.WithClock(clock), store.WithLogger(logger))
	for _, step := range scenario.Patterns {
		kind, _ := model.ParseKind(step.Kind) // checked by validateScenario
		p := model.Pattern{ID: step.ID, Name: step.Name, Kind: kind, Domain: step.Domain}
		if err := fw.AddPattern(p); err != nil {
			result.LoadErrors[step.ID] = loader.CodeOf(err)
		}
	}
	for _, step := range scenario.Relationships {
		rel := model.Relationship{
			ID:            step.ID,
			PropertyID:    step.PropertyID,
			ProcessID:     step.ProcessID,
			PerspectiveID: step.PerspectiveID,
			Strength:      step.Strength,
			Confidence:    step.Confidence,
			Bidirectional: true,
		}
		if scenario.Strict {
			if err := integrity.ValidateCardinality(rel); err != nil {
				result.LoadErrors[step.ID] = loader.CodeOf(err)
				continue
			}
		}
		if err := fw.AddRelationship(rel); err != nil {
			result.LoadErrors[step.ID] = loader.CodeOf(err)
		}
	}
	return fw, nil
}

// checkExpectedErrors requires the rejected ids and codes to match the
// scenario's expectation exactly.
func checkExpectedErrors(expected map[string]string, result *Result) {
	for _, id := range slices.Sorted(maps.Keys(expected)) {
		got, ok := result.LoadErrors[id]
		switch {
		case !ok:
			result.AddError(fmt.Sprintf("expected %s rejecting %q, but it loaded", expected[id], id))
		case got != expected[id]:
			result.AddError(fmt.Sprintf("expected %s rejecting %q, got %s", expected[id], id, got))
		}
	}
	for _, id := range slices.Sorted(maps.Keys(result.LoadErrors)) {
		if _, ok := expected[id]; !ok {
			result.AddError(fmt.Sprintf("unexpected %s rejecting %q", result.LoadErrors[id], id))
		}
	}
}
