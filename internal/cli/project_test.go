package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/model"
)

func TestParseTarget(t *testing.T) {
	for _, s := range []string{"cube", "graph", "both"} {
		target, err := ParseTarget(s)
		require.NoError(t, err)
		assert.Equal(t, Target(s), target)
	}
	_, err := ParseTarget("sphere")
	assert.Error(t, err)
}

func TestProject_CubeToStdout(t *testing.T) {
	out, _, err := execute(t, "project", "cube", "testdata/cybersecurity.json")
	require.NoError(t, err)

	var cube model.CubeProjection
	require.NoError(t, json.Unmarshal([]byte(out), &cube))
	assert.Len(t, cube.Connections, 3)
	assert.Equal(t, 2, cube.Skipped)
	assert.Len(t, cube.Dimensions.Property, 4)
}

func TestProject_GraphToStdout(t *testing.T) {
	out, _, err := execute(t, "project", "graph", "testdata/cybersecurity.json")
	require.NoError(t, err)

	var graph model.GraphProjection
	require.NoError(t, json.Unmarshal([]byte(out), &graph))
	assert.Len(t, graph.Nodes, 8)
	assert.Len(t, graph.Links, 11)
	assert.Zero(t, graph.Omitted)
}

func TestProject_BothPrintsResults(t *testing.T) {
	out, _, err := execute(t, "project", "both", "testdata/cybersecurity.json")
	require.NoError(t, err)

	var results []ProjectResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "testdata/cybersecurity.json", results[0].File)
	require.NotNil(t, results[0].Cube)
	require.NotNil(t, results[0].Graph)
}

func TestProject_WritesOutputDir(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "project", "both", "testdata/cyber*.json", "-o", dir)
	require.NoError(t, err)

	cubePath := filepath.Join(dir, "cybersecurity.cube.json")
	graphPath := filepath.Join(dir, "cybersecurity.graph.json")
	assert.Contains(t, out, "wrote "+cubePath)
	assert.Contains(t, out, "wrote "+graphPath)

	data, err := os.ReadFile(cubePath)
	require.NoError(t, err)
	var cube model.CubeProjection
	require.NoError(t, json.Unmarshal(data, &cube))
	assert.Len(t, cube.Connections, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestProject_SeveralFilesInArgumentOrder(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "project", "graph",
		"testdata/cybersecurity.yaml", "testdata/cybersecurity.json")
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   []ProjectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "testdata/cybersecurity.yaml", resp.Data[0].File)
	assert.Equal(t, "testdata/cybersecurity.json", resp.Data[1].File)
	assert.Nil(t, resp.Data[0].Cube)
}

func TestProject_ClashingBaseNames(t *testing.T) {
	_, _, err := execute(t, "project", "cube",
		"testdata/cybersecurity.json", "testdata/cybersecurity.yaml", "-o", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "same output files")
}

func TestProject_ReportsFirstFailingFile(t *testing.T) {
	out, _, err := execute(t, "project", "cube", "testdata/*.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [DANGLING_REFERENCE]")
	assert.Contains(t, out, "testdata/dangling.json")
}

func TestProject_WriteFailureReportedInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	// A directory in the way makes the first file's rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cybersecurity.cube.json"), 0755))

	out, _, err := execute(t, "project", "cube",
		"testdata/cybersecurity.json", "testdata/dangling.json", "-o", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error ["+ErrCodeIO+"]: testdata/cybersecurity.json: write projections")
	assert.NotContains(t, out, "DANGLING_REFERENCE")
}

func TestProject_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown projection", []string{"project", "sphere", "testdata/cybersecurity.json"}, "unknown projection"},
		{"glob matches nothing", []string{"project", "cube", "testdata/*.toml"}, "no files match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
