package generate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/loader"
	"github.com/roach88/patternspace/internal/schema"
	"github.com/roach88/patternspace/internal/testutil"
)

func encode(t *testing.T, doc *loader.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, loader.Encode(&buf, doc, loader.FormatJSON))
	return buf.Bytes()
}

func TestDomainIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42

	a, err := Domain(cfg)
	require.NoError(t, err)
	b, err := Domain(cfg)
	require.NoError(t, err)

	assert.Equal(t, encode(t, a), encode(t, b))
}

func TestDomainSeedChangesOutput(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Domain(cfg)
	require.NoError(t, err)

	cfg.Seed++
	b, err := Domain(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a.Patterns.Properties[0].ID, b.Patterns.Properties[0].ID)
}

func TestDomainCounts(t *testing.T) {
	cfg := Config{Domain: "d", Seed: 7, Properties: 3, Processes: 2, Perspectives: 5, Relationships: 25}
	doc, err := Domain(cfg)
	require.NoError(t, err)

	assert.Len(t, doc.Patterns.Properties, 3)
	assert.Len(t, doc.Patterns.Processes, 2)
	assert.Len(t, doc.Patterns.Perspectives, 5)
	assert.Len(t, doc.Relationships, 25)
	assert.Equal(t, "Property 1", doc.Patterns.Properties[0].Name)

	for _, rel := range doc.Relationships {
		require.NotNil(t, rel.PropertyID)
		require.NotNil(t, rel.ProcessID)
		require.NotNil(t, rel.PerspectiveID)
		assert.GreaterOrEqual(t, *rel.Strength, 0.0)
		assert.LessOrEqual(t, *rel.Strength, 1.0)
	}
}

func TestDomainBinaryRatioOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BinaryRatio = 1
	doc, err := Domain(cfg)
	require.NoError(t, err)

	for _, rel := range doc.Relationships {
		nulls := 0
		for _, id := range []*string{rel.PropertyID, rel.ProcessID, rel.PerspectiveID} {
			if id == nil {
				nulls++
			}
		}
		assert.Equal(t, 1, nulls, rel.ID)
	}
}

func TestDomainLoadsCleanly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relationships = 200
	doc, err := Domain(cfg)
	require.NoError(t, err)

	require.NoError(t, schema.Check("generated.json", encode(t, doc)))

	fw, err := loader.Build(doc, loader.Options{Logger: testutil.DiscardLogger()})
	require.NoError(t, err)

	st := fw.Stats()
	assert.Equal(t, 200, st.Relationships)
	assert.Equal(t, 0, st.Degenerate)
	assert.Equal(t, 200, st.Complete+st.Binary)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no domain", func(c *Config) { c.Domain = "" }},
		{"no properties", func(c *Config) { c.Properties = 0 }},
		{"negative relationships", func(c *Config) { c.Relationships = -1 }},
		{"ratio above one", func(c *Config) { c.BinaryRatio = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := Domain(cfg)
			assert.ErrorContains(t, err, "invalid generator config")
		})
	}
}
