package harness

import "github.com/roach88/patternspace/internal/model"

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when load errors matched expectations and every
	// assertion held.
	Pass bool `json:"pass"`

	// Errors lists every mismatch. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// LoadErrors maps rejected record ids to their error codes.
	LoadErrors map[string]string `json:"load_errors,omitempty"`

	Cube  model.CubeProjection  `json:"cube"`
	Graph model.GraphProjection `json:"graph"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Errors:     []string{},
		LoadErrors: map[string]string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
