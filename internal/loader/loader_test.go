package loader

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/patternspace/internal/integrity"
	"github.com/roach88/patternspace/internal/model"
	"github.com/roach88/patternspace/internal/schema"
	"github.com/roach88/patternspace/internal/testutil"
)

func testOptions() Options {
	return Options{
		Clock:  testutil.NewClockAt(testutil.Epoch, 0),
		Logger: testutil.DiscardLogger(),
	}
}

func ids(seq func(func(model.Pattern) bool)) []string {
	var out []string
	for p := range seq {
		out = append(out, p.ID)
	}
	return out
}

func TestLoadFileJSON(t *testing.T) {
	fw, err := LoadFile(filepath.Join("testdata", "cybersecurity.json"), testOptions())
	require.NoError(t, err)

	assert.Equal(t, "cybersecurity", fw.Domain)
	assert.Equal(t, []string{"conf", "integ", "avail", "property-3"}, ids(fw.ByKind(model.KindProperty)))
	assert.Equal(t, []string{"detect", "respond"}, ids(fw.ByKind(model.KindProcess)))
	assert.Equal(t, []string{"attacker", "defender"}, ids(fw.ByKind(model.KindPerspective)))
	assert.Equal(t, 5, fw.Relationships.Count())

	conf, ok := fw.Get("conf")
	require.True(t, ok)
	assert.Equal(t, "cybersecurity", conf.Domain, "inherits document domain")
	assert.Equal(t, []string{"cia"}, conf.Tags)
	assert.Equal(t, testutil.Epoch, conf.CreatedAt)

	avail, _ := fw.Get("avail")
	assert.Equal(t, "operations", avail.Domain)

	detect, _ := fw.Get("detect")
	assert.Equal(t, model.Int(4), detect.Metadata["mttd_hours"])

	nr, ok := fw.Get("property-3")
	require.True(t, ok)
	assert.Equal(t, "Non-repudiation", nr.Name)

	r3, _ := fw.Relationships.Get("r3")
	assert.Equal(t, "", r3.PerspectiveID)
	assert.True(t, r3.Bidirectional, "defaults to true")

	r4, _ := fw.Relationships.Get("r4")
	assert.False(t, r4.Bidirectional)

	r5, _ := fw.Relationships.Get("r5")
	assert.Equal(t, model.String("incident-review"), r5.Attributes["source"])
}

func TestLoadFileYAMLMatchesJSON(t *testing.T) {
	fromJSON, err := LoadFile(filepath.Join("testdata", "cybersecurity.json"), testOptions())
	require.NoError(t, err)
	fromYAML, err := LoadFile(filepath.Join("testdata", "cybersecurity.yaml"), testOptions())
	require.NoError(t, err)

	assert.Equal(t, fromJSON.Stats(), fromYAML.Stats())

	jp := slices.Collect(fromJSON.AllPatterns())
	yp := slices.Collect(fromYAML.AllPatterns())
	if diff := cmp.Diff(jp, yp); diff != "" {
		t.Errorf("patterns differ between formats (-json +yaml):\n%s", diff)
	}

	jr := slices.Collect(fromJSON.AllRelationships())
	yr := slices.Collect(fromYAML.AllRelationships())
	if diff := cmp.Diff(jr, yr); diff != "" {
		t.Errorf("relationships differ between formats (-json +yaml):\n%s", diff)
	}
}

func TestLoadNamesSkipIDsHeldByTypedPatterns(t *testing.T) {
	doc := `{
  "domain": "d",
  "properties": ["Alpha", "Beta", "Gamma"],
  "patterns": {"properties": [{"id": "property-1", "name": "Alpha"}, {"id": "property-2", "name": "Delta"}]}
}`
	fw, err := Load("d.json", []byte(doc), testOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"property-1", "property-2", "property-3", "property-4"},
		ids(fw.ByKind(model.KindProperty)))
	beta, ok := fw.Get("property-3")
	require.True(t, ok)
	assert.Equal(t, "Beta", beta.Name)
	gamma, ok := fw.Get("property-4")
	require.True(t, ok)
	assert.Equal(t, "Gamma", gamma.Name)
}

func TestLoadStopsAtFirstIntegrityError(t *testing.T) {
	fw, err := LoadFile(filepath.Join("testdata", "dangling.json"), testOptions())
	require.Error(t, err)

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "relationships", re.Section)
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, "bad", re.ID)
	assert.True(t, integrity.IsDanglingReference(err))
	assert.Equal(t, "DANGLING_REFERENCE", CodeOf(err))

	// records before the failure were applied
	require.NotNil(t, fw)
	assert.Equal(t, 1, fw.Relationships.Count())
}

func TestLoadSchemaErrors(t *testing.T) {
	doc := []byte(`{"domain": "x", "relationships": [{"id": "r", "strength": 2, "confidence": 0.5}]}`)
	_, err := Load("bad.json", doc, testOptions())
	require.Error(t, err)

	var list schema.Errors
	assert.True(t, errors.As(err, &list))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("domain.txt", []byte(`{}`), testOptions())
	assert.ErrorContains(t, err, "unsupported document extension")
}

func TestBuildKindMismatch(t *testing.T) {
	doc := &Document{
		Domain: "x",
		Patterns: PatternSets{
			Processes: []PatternRecord{{ID: "p", Name: "P", Type: "property"}},
		},
	}
	_, err := Build(doc, testOptions())
	require.Error(t, err)
	assert.Equal(t, CodeInvalidRecord, CodeOf(err))
	assert.Contains(t, err.Error(), "patterns.processes[0]")
}

func TestBuildStructValidation(t *testing.T) {
	half := 0.5
	tests := []struct {
		name string
		doc  *Document
		rule string
	}{
		{"missing domain", &Document{}, "required"},
		{
			"missing name",
			&Document{Domain: "x", Patterns: PatternSets{Properties: []PatternRecord{{ID: "p"}}}},
			"required",
		},
		{
			"bad type",
			&Document{Domain: "x", Patterns: PatternSets{Properties: []PatternRecord{{ID: "p", Name: "P", Type: "axis"}}}},
			"patternkind",
		},
		{
			"missing confidence",
			&Document{Domain: "x", Relationships: []RelationshipRecord{{ID: "r", Strength: &half}}},
			"required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.doc, testOptions())
			require.Error(t, err)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.rule, fe.Rule)
			assert.Equal(t, CodeInvalidRecord, CodeOf(err))
		})
	}
}

func TestApplyStrictRejectsDegenerate(t *testing.T) {
	s, c := 0.5, 0.5
	prop := "p"
	doc := &Document{
		Domain:   "x",
		Patterns: PatternSets{Properties: []PatternRecord{{ID: "p", Name: "P"}}},
		Relationships: []RelationshipRecord{
			{ID: "lonely", PropertyID: &prop, Strength: &s, Confidence: &c},
		},
	}

	fw, err := Build(doc, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, fw.Relationships.Count())

	opts := testOptions()
	opts.Strict = true
	_, err = Build(doc, opts)
	assert.True(t, errors.Is(err, integrity.ErrDegenerate))
}

func TestApplyAssignIDs(t *testing.T) {
	s, c := 0.5, 0.5
	prop, proc := "p", "q"
	doc := &Document{
		Domain: "x",
		Patterns: PatternSets{
			Properties: []PatternRecord{{ID: "p", Name: "P"}},
			Processes:  []PatternRecord{{ID: "q", Name: "Q"}, {Name: "Anonymous"}},
		},
		Relationships: []RelationshipRecord{
			{PropertyID: &prop, ProcessID: &proc, Strength: &s, Confidence: &c},
		},
	}

	_, err := Build(doc, testOptions())
	assert.Equal(t, string(integrity.ErrCodeInvalidPattern), CodeOf(err))

	n := 0
	opts := testOptions()
	opts.AssignIDs = true
	opts.NewID = func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
	fw, err := Build(doc, opts)
	require.NoError(t, err)

	_, ok := fw.Get("gen-1")
	assert.True(t, ok)
	_, ok = fw.Relationships.Get("gen-2")
	assert.True(t, ok)
}

func TestApplyDefaultIDsAreUUIDv7(t *testing.T) {
	s, c := 0.5, 0.5
	doc := &Document{
		Domain:        "x",
		Relationships: []RelationshipRecord{{Strength: &s, Confidence: &c}},
	}
	opts := testOptions()
	opts.AssignIDs = true
	fw, err := Build(doc, opts)
	require.NoError(t, err)

	for rel := range fw.AllRelationships() {
		assert.Len(t, rel.ID, 36)
		assert.Equal(t, byte('7'), rel.ID[14], "uuid version nibble")
	}
}

func TestEncodeDecodeYAML(t *testing.T) {
	s, c := 0.25, 1.0
	doc := &Document{
		Domain:   "x",
		Patterns: PatternSets{Properties: []PatternRecord{{ID: "p", Name: "P", Type: "property"}}},
		Relationships: []RelationshipRecord{
			{ID: "r", Strength: &s, Confidence: &c},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, FormatYAML))
	require.NoError(t, schema.Check("out.yaml", buf.Bytes()))

	back, err := Decode(buf.Bytes(), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte(`{"domain": "x", "extra": 1}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte("domain: x\nextra: 1\n"), FormatYAML)
	assert.Error(t, err)
}
