package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/patternspace/internal/model"
)

// Snapshot is what a golden file records for one scenario.
type Snapshot struct {
	Scenario string                `json:"scenario"`
	Cube     model.CubeProjection  `json:"cube"`
	Graph    model.GraphProjection `json:"graph"`
}

// SnapshotBytes renders a result as canonical JSON.
func SnapshotBytes(name string, result *Result) ([]byte, error) {
	return model.MarshalCanonical(Snapshot{
		Scenario: name,
		Cube:     result.Cube,
		Graph:    result.Graph,
	})
}

// RunWithGolden executes a scenario and compares both projections against
// a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the projections don't match the
// golden file or an assertion fails.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := SnapshotBytes(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
