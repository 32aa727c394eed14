package projection

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/store"
	"github.com/roach88/patternspace/internal/testutil"
)

func quiet() Option {
	return WithLogger(testutil.DiscardLogger())
}

func load(t *testing.T, patterns []model.Pattern, rels []model.Relationship) *store.Framework {
	t.Helper()
	fw := store.NewFramework("test",
		store.WithClock(testutil.NewClock()),
		store.WithLogger(testutil.DiscardLogger()))
	for _, p := range patterns {
		require.NoError(t, fw.AddPattern(p))
	}
	for _, r := range rels {
		require.NoError(t, fw.AddRelationship(r))
	}
	return fw
}

// rawSource bypasses store integrity so tests can build the corrupt states
// a broken writer would leave behind.
type rawSource struct {
	patterns []model.Pattern
	rels     []model.Relationship
}

func (s rawSource) ByKind(kind model.Kind) iter.Seq[model.Pattern] {
	return func(yield func(model.Pattern) bool) {
		for _, p := range s.patterns {
			if p.Kind == kind && !yield(p) {
				return
			}
		}
	}
}

func (s rawSource) AllPatterns() iter.Seq[model.Pattern] {
	return slices.Values(s.patterns)
}

func (s rawSource) AllRelationships() iter.Seq[model.Relationship] {
	return slices.Values(s.rels)
}
