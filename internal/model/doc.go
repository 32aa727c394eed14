// Package model defines the typed entities of a pattern space and the
// records emitted by its projections.
//
// This package contains type definitions and serialization only. All other
// internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - A Pattern is a single record type discriminated by Kind; there are no
//     per-kind subtypes.
//   - An empty role id on a Relationship means the role is null.
//   - An empty Domain means "no domain" and serializes as JSON null.
//   - All JSON tags use snake_case.
//   - Projection records carry raw strength and confidence only; visual
//     encodings are derived by the renderer.
package model
