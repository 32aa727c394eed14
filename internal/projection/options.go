package projection

import (
	"iter"
	"log/slog"

	"github.com/roach88/patternspace/internal/model"
)

// Source is the read-only view a projector needs. store.Framework
// satisfies it.
type Source interface {
	ByKind(kind model.Kind) iter.Seq[model.Pattern]
	AllPatterns() iter.Seq[model.Pattern]
	AllRelationships() iter.Seq[model.Relationship]
}

// Option configures a projection run.
type Option func(*config)

type config struct {
	strict bool
	logger *slog.Logger
}

// WithStrict fails the projection when a stored role id does not resolve.
func WithStrict() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Tally accumulates counts for a streaming projection. It is complete only
// after the sequence it was returned with has been fully consumed.
type Tally struct {
	// Emitted counts connections (cube) or links (graph) yielded.
	Emitted int

	// Skipped counts relationships that produced no output: cube
	// relationships with a null role, graph relationships with fewer than
	// two populated roles, and, outside strict mode, unresolved ones.
	Skipped int

	// Unresolved counts relationships holding a role id that does not
	// resolve. Already included in Skipped.
	Unresolved int

	// Err is set in strict mode when iteration stopped at an unresolved
	// reference.
	Err error
}
