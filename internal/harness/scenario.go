package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/roach88/patternspace/internal/model"
)

// Scenario defines one projection test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Domain is a domain document path, relative to the scenario file.
	// Mutually exclusive with inline Patterns and Relationships.
	Domain string `yaml:"domain,omitempty"`

	// Patterns and Relationships define the store inline. Unlike a domain
	// file, inline records keep loading after a rejection so several
	// expected errors can be checked at once.
	Patterns      []PatternStep      `yaml:"patterns,omitempty"`
	Relationships []RelationshipStep `yaml:"relationships,omitempty"`

	// Strict rejects relationships with fewer than two populated roles.
	Strict bool `yaml:"strict,omitempty"`

	// ExpectErrors maps a record id to the error code its insertion must
	// produce. Any unlisted rejection fails the scenario.
	ExpectErrors map[string]string `yaml:"expect_errors,omitempty"`

	// Assertions are evaluated against the projections.
	Assertions []Assertion `yaml:"assertions"`
}

// PatternStep is an inline pattern.
type PatternStep struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Domain string `yaml:"domain,omitempty"`
}

// RelationshipStep is an inline relationship. Omitted roles are null.
type RelationshipStep struct {
	ID            string  `yaml:"id"`
	PropertyID    string  `yaml:"property_id,omitempty"`
	ProcessID     string  `yaml:"process_id,omitempty"`
	PerspectiveID string  `yaml:"perspective_id,omitempty"`
	Strength      float64 `yaml:"strength"`
	Confidence    float64 `yaml:"confidence"`
}

// Assertion checks one property of the projections.
type Assertion struct {
	// Type selects the check; see the Assert* constants.
	Type string `yaml:"type"`

	// Count is the expected number (count assertions).
	Count *int `yaml:"count,omitempty"`

	// Relationship, X, Y, Z describe an expected cube coordinate.
	Relationship string `yaml:"relationship,omitempty"`
	X            *int   `yaml:"x,omitempty"`
	Y            *int   `yaml:"y,omitempty"`
	Z            *int   `yaml:"z,omitempty"`

	// Source, Target, LinkType describe an expected graph link.
	Source   string `yaml:"source,omitempty"`
	Target   string `yaml:"target,omitempty"`
	LinkType string `yaml:"link_type,omitempty"`
}

// Assertion type constants.
const (
	AssertCubeConnections = "cube_connections"
	AssertCubeSkipped     = "cube_skipped"
	AssertGraphLinks      = "graph_links"
	AssertGraphOmitted    = "graph_omitted"
	AssertCoordinate      = "coordinate"
	AssertLink            = "link"
	AssertDeterministic   = "deterministic"
)

// LoadScenario reads and parses a scenario YAML file. A relative Domain
// path is resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Domain != "" && !filepath.IsAbs(scenario.Domain) {
		scenario.Domain = filepath.Join(filepath.Dir(path), scenario.Domain)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario under dir, recursively,
// whose path relative to dir matches filter. An empty filter matches all.
// Scenarios are returned in lexical path order.
func LoadDir(dir, filter string) ([]*Scenario, error) {
	if filter != "" && !doublestar.ValidatePattern(filter) {
		return nil, fmt.Errorf("invalid filter pattern %q", filter)
	}

	fsys := os.DirFS(dir)
	var paths []string
	for _, pattern := range []string{"**/*.yaml", "**/*.yml"} {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)

	var scenarios []*Scenario
	for _, rel := range paths {
		if filter != "" {
			ok, _ := doublestar.Match(filter, rel)
			if !ok {
				continue
			}
		}
		s, err := LoadScenario(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	inline := len(s.Patterns) > 0 || len(s.Relationships) > 0
	switch {
	case s.Domain != "" && inline:
		return fmt.Errorf("domain and inline patterns/relationships are mutually exclusive")
	case s.Domain == "" && !inline:
		return fmt.Errorf("either domain or inline patterns are required")
	}
	if s.Domain != "" {
		if _, err := os.Stat(s.Domain); os.IsNotExist(err) {
			return fmt.Errorf("domain file not found: %s", s.Domain)
		}
	}

	for i, p := range s.Patterns {
		if _, err := model.ParseKind(p.Kind); err != nil {
			return fmt.Errorf("patterns[%d]: %w", i, err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertCubeConnections, AssertCubeSkipped, AssertGraphLinks, AssertGraphOmitted:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertCoordinate:
		if a.Relationship == "" || a.X == nil || a.Y == nil || a.Z == nil {
			return fmt.Errorf("assertions[%d]: relationship, x, y and z are required for coordinate", index)
		}
	case AssertLink:
		if a.Source == "" || a.Target == "" || a.LinkType == "" {
			return fmt.Errorf("assertions[%d]: source, target and link_type are required for link", index)
		}
	case AssertDeterministic:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
