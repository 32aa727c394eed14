package store

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/testutil"
)

func newTestPatternStore() *PatternStore {
	return NewPatternStore(testutil.NewClock(), testutil.DiscardLogger())
}

func TestPatternStore_AddThenGetReturnsEqualValue(t *testing.T) {
	s := newTestPatternStore()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	patterns := []model.Pattern{
		{
			ID:        "conf",
			Name:      "Confidentiality",
			Kind:      model.KindProperty,
			Domain:    "security",
			Tags:      []string{"cia", "core"},
			Metadata:  model.Object{"weight": model.Int(3), "nested": model.Object{"ok": model.Bool(true)}},
			CreatedAt: created,
			UpdatedAt: created,
		},
		{ID: "detect", Name: "Detection", Kind: model.KindProcess},
		{ID: "attacker", Name: "Attacker", Kind: model.KindPerspective, Domain: "security"},
	}
	for _, p := range patterns {
		require.NoError(t, s.Add(p))
	}

	for _, p := range patterns {
		got, ok := s.Get(p.ID)
		require.True(t, ok, p.ID)
		assert.Equal(t, p, got)
	}
}

func TestPatternStore_GetMissing(t *testing.T) {
	s := newTestPatternStore()
	got, ok := s.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, model.Pattern{}, got)
}

func TestPatternStore_DuplicateLeavesSizeUnchanged(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.Property("a", "P1")))
	require.NoError(t, s.Add(testutil.Process("b", "Pr1")))

	// same id, different kind
	err := s.Add(testutil.Perspective("a", "Other"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, integrity.ErrDuplicateID))

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, 0, s.CountKind(model.KindPerspective))
	got, _ := s.Get("a")
	assert.Equal(t, "P1", got.Name)
}

func TestPatternStore_InvalidPatternRejected(t *testing.T) {
	s := newTestPatternStore()
	err := s.Add(model.Pattern{ID: "x", Name: "X", Kind: "axis"})
	assert.Equal(t, integrity.ErrCodeInvalidPattern, integrity.CodeOf(err))
	assert.Equal(t, 0, s.Count())
}

func TestPatternStore_ByKindPreservesInsertionOrder(t *testing.T) {
	s := newTestPatternStore()
	// ids deliberately out of lexical order
	for _, p := range []model.Pattern{
		testutil.Property("zeta", "Z"),
		testutil.Process("m", "M"),
		testutil.Property("alpha", "A"),
		testutil.Property("mid", "Mid"),
	} {
		require.NoError(t, s.Add(p))
	}

	props := slices.Collect(s.ByKind(model.KindProperty))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, patternIDs(props))

	all := slices.Collect(s.All())
	assert.Equal(t, []string{"zeta", "m", "alpha", "mid"}, patternIDs(all))
}

func TestPatternStore_ByKindRestartable(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.Process("p1", "One")))
	require.NoError(t, s.Add(testutil.Process("p2", "Two")))

	seq := s.ByKind(model.KindProcess)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestPatternStore_ByKindEarlyBreak(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.Process("p1", "One")))
	require.NoError(t, s.Add(testutil.Process("p2", "Two")))

	var seen []string
	for p := range s.ByKind(model.KindProcess) {
		seen = append(seen, p.ID)
		break
	}
	assert.Equal(t, []string{"p1"}, seen)
}

func TestPatternStore_ByKindDomainFilter(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.InDomain(testutil.Property("a", "A"), "security")))
	require.NoError(t, s.Add(testutil.Property("b", "B")))
	require.NoError(t, s.Add(testutil.InDomain(testutil.Property("c", "C"), "ops")))
	require.NoError(t, s.Add(testutil.InDomain(testutil.Property("d", "D"), "security")))

	assert.Equal(t, []string{"a", "d"}, patternIDs(slices.Collect(s.ByKind(model.KindProperty, "security"))))
	// "" selects patterns without a domain
	assert.Equal(t, []string{"b"}, patternIDs(slices.Collect(s.ByKind(model.KindProperty, ""))))
	assert.Empty(t, slices.Collect(s.ByKind(model.KindProperty, "finance")))
}

func TestPatternStore_Counts(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.Property("a", "A")))
	require.NoError(t, s.Add(testutil.Property("b", "B")))
	require.NoError(t, s.Add(testutil.Perspective("c", "C")))

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 2, s.CountKind(model.KindProperty))
	assert.Equal(t, 0, s.CountKind(model.KindProcess))
	assert.Equal(t, 1, s.CountKind(model.KindPerspective))
}

func TestPatternStore_ReturnedValuesAreCopies(t *testing.T) {
	s := newTestPatternStore()
	p := testutil.Property("a", "A")
	p.Tags = []string{"x"}
	p.Metadata = model.Object{"k": model.String("v")}
	require.NoError(t, s.Add(p))

	// mutate the caller's value after Add
	p.Tags[0] = "changed"
	p.Metadata["k"] = model.String("changed")

	got, _ := s.Get("a")
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, model.String("v"), got.Metadata["k"])

	// mutate a returned value
	got.Tags[0] = "again"
	again, _ := s.Get("a")
	assert.Equal(t, "x", again.Tags[0])
}

func TestPatternStore_Update(t *testing.T) {
	clock := testutil.NewClock()
	s := NewPatternStore(clock, testutil.DiscardLogger())

	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Add(model.Pattern{ID: "a", Name: "A", Kind: model.KindProperty, CreatedAt: created, UpdatedAt: created}))
	require.NoError(t, s.Add(testutil.Property("b", "B")))

	stamp := clock.Peek()
	updated, err := s.Update(model.Pattern{ID: "a", Name: "A2", Kind: model.KindProperty, Domain: "security"})
	require.NoError(t, err)

	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, stamp, updated.UpdatedAt)

	got, _ := s.Get("a")
	assert.Equal(t, updated, got)

	// position unchanged
	assert.Equal(t, []string{"a", "b"}, patternIDs(slices.Collect(s.ByKind(model.KindProperty))))
}

func TestPatternStore_UpdateErrors(t *testing.T) {
	s := newTestPatternStore()
	require.NoError(t, s.Add(testutil.Property("a", "A")))

	_, err := s.Update(testutil.Property("missing", "M"))
	assert.Equal(t, integrity.ErrCodeNotFound, integrity.CodeOf(err))

	_, err = s.Update(testutil.Process("a", "A"))
	assert.Equal(t, integrity.ErrCodeImmutableField, integrity.CodeOf(err))

	got, _ := s.Get("a")
	assert.Equal(t, model.KindProperty, got.Kind)
	assert.Equal(t, "A", got.Name)
}
