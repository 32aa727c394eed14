// Package store holds the in-memory pattern space: a PatternStore, a
// RelationshipStore, and the Framework that pairs them.
//
// # Ordering
//
// Both stores record insertion order and never re-sort. Projection axis
// indices are derived from per-kind insertion order, so loading the same
// document twice yields identical projections.
//
// # Integrity
//
// Every Add runs the matching check from package integrity before touching
// any state. A rejected Add leaves the store exactly as it was.
//
// # Concurrency
//
// There is no internal locking. One writer populates a Framework; after
// that any number of readers (Get, ByKind, Find, the projectors) may run
// concurrently. Callers that interleave writes and reads must guard the
// Framework themselves.
//
// All returned patterns and relationships are copies.
package store
