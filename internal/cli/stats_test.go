package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/store"
)

func TestStats_Text(t *testing.T) {
	out, _, err := execute(t, "stats", "testdata/cybersecurity.json")
	require.NoError(t, err)
	assert.Contains(t, out, "domain:        cybersecurity\n")
	assert.Contains(t, out, "patterns:      8\n")
	assert.Contains(t, out, "  properties:  4\n")
	assert.Contains(t, out, "  complete:    3\n")
	assert.Contains(t, out, "  binary:      2\n")
}

func TestStats_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "stats", "testdata/cybersecurity.json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   store.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, store.Stats{
		Domain:        "cybersecurity",
		Patterns:      8,
		ByKind:        map[string]int{"property": 4, "process": 2, "perspective": 2},
		Relationships: 5,
		Complete:      3,
		Binary:        2,
	}, resp.Data)
}

func TestStats_RequiresOneFile(t *testing.T) {
	_, _, err := execute(t, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
