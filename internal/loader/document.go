// Package loader decodes domain documents and applies them to a
// store.Framework in a fixed order.
//
// # Insertion-order contract
//
// Axis coordinates in the cube projection are insertion positions, so the
// order in which records reach the store is part of the output. Apply
// always inserts:
//
//  1. patterns.properties, then bare property names without a typed entry
//  2. the same for processes
//  3. the same for perspectives
//  4. relationships
//
// each in document order. Loading an unchanged document therefore always
// yields identical projections.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the decoded form of a domain file.
type Document struct {
	Domain        string               `json:"domain" yaml:"domain" validate:"required"`
	Properties    []string             `json:"properties,omitempty" yaml:"properties,omitempty"`
	Processes     []string             `json:"processes,omitempty" yaml:"processes,omitempty"`
	Perspectives  []string             `json:"perspectives,omitempty" yaml:"perspectives,omitempty"`
	Patterns      PatternSets          `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Relationships []RelationshipRecord `json:"relationships,omitempty" yaml:"relationships,omitempty" validate:"dive"`
	Metadata      map[string]any       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// PatternSets holds the typed pattern entries, one list per kind.
type PatternSets struct {
	Properties   []PatternRecord `json:"properties,omitempty" yaml:"properties,omitempty" validate:"dive"`
	Processes    []PatternRecord `json:"processes,omitempty" yaml:"processes,omitempty" validate:"dive"`
	Perspectives []PatternRecord `json:"perspectives,omitempty" yaml:"perspectives,omitempty" validate:"dive"`
}

// PatternRecord is one typed pattern entry. Type may be omitted; the list
// it appears in decides the kind, and a Type that disagrees is an error.
type PatternRecord struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string         `json:"name" yaml:"name" validate:"required"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,patternkind"`
	Domain   *string        `json:"domain,omitempty" yaml:"domain,omitempty"`
	Tags     []string       `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,required"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// RelationshipRecord is one relationship entry. Null role ids decode as
// nil. Bidirectional defaults to true when absent.
type RelationshipRecord struct {
	ID            string         `json:"id,omitempty" yaml:"id,omitempty"`
	PropertyID    *string        `json:"property_id,omitempty" yaml:"property_id,omitempty"`
	ProcessID     *string        `json:"process_id,omitempty" yaml:"process_id,omitempty"`
	PerspectiveID *string        `json:"perspective_id,omitempty" yaml:"perspective_id,omitempty"`
	Strength      *float64       `json:"strength" yaml:"strength" validate:"required"`
	Confidence    *float64       `json:"confidence" yaml:"confidence" validate:"required"`
	Bidirectional *bool          `json:"bidirectional,omitempty" yaml:"bidirectional,omitempty"`
	Attributes    map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a filename extension.
func FormatFor(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(filename))
}

// Decode parses a document. Unknown keys are rejected in both formats.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &doc, nil
}

// Encode writes a document. JSON output is indented with two spaces.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}
