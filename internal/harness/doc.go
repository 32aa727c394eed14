// Package harness runs projection scenarios described in YAML.
//
// A scenario names a domain document (or lists patterns and relationships
// inline), the load errors it expects, and assertions over the resulting
// cube and graph projections:
//
//	name: scenario_b
//	description: binary relationship is skipped by the cube
//	patterns:
//	  - {id: a, name: P1, kind: property}
//	  - {id: b, name: Pr1, kind: process}
//	relationships:
//	  - {id: r2, property_id: a, process_id: b, strength: 0.3, confidence: 0.4}
//	assertions:
//	  - {type: cube_skipped, count: 1}
//	  - {type: link, source: a, target: b, link_type: property-process}
//
// Every run uses a fixed clock and a discarding logger so that two runs of
// the same scenario produce byte-identical snapshots. RunWithGolden
// compares those snapshots against testdata/golden/<name>.golden.
package harness
