// Package projection turns a populated store into the two records the
// renderer consumes: a 3-axis cube and a node/link graph.
//
// Both projectors are pure readers. They never mutate the source and may
// run concurrently with each other once loading has finished.
//
// Axis coordinates come from per-kind insertion order, never from sorting,
// so a store loaded in the same order always projects identically.
//
// Relationships that cannot be placed (a null role in the cube, fewer than
// two roles in the graph) are counted, not reported as errors. A non-empty
// role id that no longer resolves is different: it means the store was
// written outside the single-writer discipline. By default such
// relationships are counted and logged at warn level; WithStrict turns them
// into a CORRUPT_STATE error.
package projection
