// Package query defines the predicate tree accepted by
// RelationshipStore.Find.
//
// Predicate is a sealed interface using the marker method pattern; only
// types in this package implement it, so Match and Validate can switch over
// every case.
//
// Supported predicates:
//   - RoleEquals: a role holds a specific pattern id
//   - DomainEquals: some populated role references a pattern in a domain
//   - MinStrength / MinConfidence: inclusive score thresholds
//   - And: all children hold (the empty And always holds)
//
// There is no Or and no negation. Callers needing a union run two Finds.
package query
