package model

import (
	"encoding/json"
	"slices"
	"time"
)

// Pattern is a typed entity of kind property, process, or perspective.
//
// ID is unique across the whole store regardless of kind. ID and Kind are
// immutable once the pattern has been added.
type Pattern struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      Kind      `json:"kind"`
	Domain    string    `json:"domain"` // "" = no domain, written as null
	Tags      []string  `json:"tags,omitempty"`
	Metadata  Object    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON writes an empty domain as null.
func (p Pattern) MarshalJSON() ([]byte, error) {
	type plain Pattern
	return json.Marshal(struct {
		plain
		Domain *string `json:"domain"`
	}{plain(p), NullableDomain(p.Domain)})
}

// Clone returns a deep copy so stored values cannot be mutated through
// returned references.
func (p Pattern) Clone() Pattern {
	p.Tags = slices.Clone(p.Tags)
	p.Metadata = p.Metadata.Clone()
	return p
}

// Relationship is a ternary edge linking up to one pattern of each kind.
//
// An empty role id means the role is null. Strength and Confidence lie in
// [0,1]; the store rejects anything else.
type Relationship struct {
	ID            string    `json:"id"`
	PropertyID    string    `json:"property_id,omitempty"`
	ProcessID     string    `json:"process_id,omitempty"`
	PerspectiveID string    `json:"perspective_id,omitempty"`
	Strength      float64   `json:"strength"`
	Confidence    float64   `json:"confidence"`
	Bidirectional bool      `json:"bidirectional"`
	Attributes    Object    `json:"attributes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoleID returns the pattern id held in the given role, or "" when the role
// is null.
func (r Relationship) RoleID(role Role) string {
	switch role {
	case RoleProperty:
		return r.PropertyID
	case RoleProcess:
		return r.ProcessID
	case RolePerspective:
		return r.PerspectiveID
	}
	return ""
}

// PopulatedRoles returns the non-null roles in canonical order.
func (r Relationship) PopulatedRoles() []Role {
	roles := make([]Role, 0, 3)
	for _, role := range Roles() {
		if r.RoleID(role) != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

// IsComplete reports whether all three roles are populated.
func (r Relationship) IsComplete() bool {
	return r.PropertyID != "" && r.ProcessID != "" && r.PerspectiveID != ""
}

// Clone returns a deep copy of the relationship.
func (r Relationship) Clone() Relationship {
	r.Attributes = r.Attributes.Clone()
	return r
}
