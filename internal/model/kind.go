package model

import (
	"fmt"
	"strings"
)

// Kind discriminates the three pattern kinds.
type Kind string

const (
	KindProperty    Kind = "property"
	KindProcess     Kind = "process"
	KindPerspective Kind = "perspective"
)

// kinds is the canonical axis order: x, y, z.
var kinds = [...]Kind{KindProperty, KindProcess, KindPerspective}

// Kinds returns all kinds in canonical axis order (x, y, z).
func Kinds() []Kind {
	return kinds[:]
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindProperty, KindProcess, KindPerspective:
		return true
	}
	return false
}

// Plural returns the collection name used in domain documents and
// projection dimensions ("properties", "processes", "perspectives").
func (k Kind) Plural() string {
	switch k {
	case KindProperty:
		return "properties"
	case KindProcess:
		return "processes"
	case KindPerspective:
		return "perspectives"
	}
	return string(k) + "s"
}

// Role returns the relationship role that references patterns of this kind.
func (k Kind) Role() Role {
	return Role(k)
}

// ParseKind accepts the lower-case tag or its capitalized form
// ("process", "Process"). Surrounding space and other casings are rejected.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if s != "" && s[0] >= 'A' && s[0] <= 'Z' {
		k = Kind(strings.ToLower(s[:1]) + s[1:])
	}
	if !k.Valid() {
		return "", fmt.Errorf("unknown pattern kind %q: must be property, process, or perspective", s)
	}
	return k, nil
}

// Role names a relationship slot. Each role references exactly one kind.
type Role string

const (
	RoleProperty    Role = "property"
	RoleProcess     Role = "process"
	RolePerspective Role = "perspective"
)

// Roles returns all roles in canonical order.
func Roles() []Role {
	return []Role{RoleProperty, RoleProcess, RolePerspective}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return Kind(r).Valid()
}

// Kind returns the pattern kind a role must reference.
func (r Role) Kind() Kind {
	return Kind(r)
}

// Field returns the relationship field name for the role ("process_id").
func (r Role) Field() string {
	return string(r) + "_id"
}

// LinkType returns the graph link type for an unordered role pair, always
// in canonical role order ("property-process").
func LinkType(a, b Role) string {
	if roleIndex(b) < roleIndex(a) {
		a, b = b, a
	}
	return string(a) + "-" + string(b)
}

func roleIndex(r Role) int {
	for i, k := range kinds {
		if Role(k) == r {
			return i
		}
	}
	return len(kinds)
}
