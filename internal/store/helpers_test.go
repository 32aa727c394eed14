package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/testutil"
)

// newTestFramework returns an empty framework with a deterministic clock
// and a discarding logger.
func newTestFramework(t *testing.T) *Framework {
	t.Helper()
	return NewFramework("test",
		WithClock(testutil.NewClock()),
		WithLogger(testutil.DiscardLogger()))
}

// loadFramework adds patterns then relationships, failing the test on any
// rejection.
func loadFramework(t *testing.T, patterns []model.Pattern, rels []model.Relationship) *Framework {
	t.Helper()
	fw := newTestFramework(t)
	for _, p := range patterns {
		require.NoError(t, fw.AddPattern(p), "pattern %s", p.ID)
	}
	for _, r := range rels {
		require.NoError(t, fw.AddRelationship(r), "relationship %s", r.ID)
	}
	return fw
}

func patternIDs(ps []model.Pattern) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func relIDs(rs []model.Relationship) []string {
	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.ID
	}
	return ids
}

