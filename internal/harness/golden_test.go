package harness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Regenerate with: go test ./internal/harness -run TestGoldenScenarios -update
func TestGoldenScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestSnapshotBytes_Canonical(t *testing.T) {
	scenario := scenarioA()
	scenario.Assertions = []Assertion{{Type: AssertDeterministic}}
	result, err := Run(scenario)
	require.NoError(t, err)

	first, err := SnapshotBytes("scenario_a", result)
	require.NoError(t, err)
	second, err := SnapshotBytes("scenario_a", result)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Contains(t, string(first), `"scenario":"scenario_a"`)
	require.NotContains(t, string(first), "\n")
}
