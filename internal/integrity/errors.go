package integrity

import (
	"errors"
	"fmt"
)

// Error reports a rejected mutation or a broken store invariant.
//
// Integrity errors include:
//   - Duplicate id: a pattern or relationship id already exists
//   - Dangling reference: a role id is absent or resolves to the wrong kind
//   - Range: strength or confidence outside [0,1]
//   - Corrupt state: a stored relationship no longer resolves
//
// Error carries structured fields so callers (the loader, the CLI) can
// report which record failed and why.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// EntityID is the pattern or relationship being checked.
	EntityID string

	// Field names the offending field ("strength", "process_id").
	Field string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes integrity errors.
type ErrorCode string

const (
	// ErrCodeDuplicateID indicates an id that already exists in the store.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeDanglingReference indicates a role id that does not resolve to
	// a pattern of the matching kind.
	ErrCodeDanglingReference ErrorCode = "DANGLING_REFERENCE"

	// ErrCodeRange indicates strength or confidence outside [0,1].
	ErrCodeRange ErrorCode = "RANGE"

	// ErrCodeInvalidPattern indicates an empty id or unknown kind.
	ErrCodeInvalidPattern ErrorCode = "INVALID_PATTERN"

	// ErrCodeInvalidRelationship indicates an empty relationship id.
	ErrCodeInvalidRelationship ErrorCode = "INVALID_RELATIONSHIP"

	// ErrCodeDegenerate indicates a relationship with fewer than two
	// populated roles.
	ErrCodeDegenerate ErrorCode = "DEGENERATE_RELATIONSHIP"

	// ErrCodeNotFound indicates an update of an id that does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeImmutableField indicates an update that changes id or kind.
	ErrCodeImmutableField ErrorCode = "IMMUTABLE_FIELD"

	// ErrCodeCorruptState indicates the stores disagree about a reference
	// that passed validation at insert time.
	ErrCodeCorruptState ErrorCode = "CORRUPT_STATE"
)

// Sentinel errors for use with errors.Is. An *Error matches the sentinel
// that shares its Code.
var (
	ErrDuplicateID       = &Error{Code: ErrCodeDuplicateID}
	ErrDanglingReference = &Error{Code: ErrCodeDanglingReference}
	ErrRange             = &Error{Code: ErrCodeRange}
	ErrDegenerate        = &Error{Code: ErrCodeDegenerate}
	ErrCorruptState      = &Error{Code: ErrCodeCorruptState}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.EntityID != "" && e.Field != "":
		return fmt.Sprintf("%s: %s (id=%s, field=%s)", e.Code, e.Message, e.EntityID, e.Field)
	case e.EntityID != "":
		return fmt.Sprintf("%s: %s (id=%s)", e.Code, e.Message, e.EntityID)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the integrity code of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsDuplicateID returns true if err is a duplicate id error.
func IsDuplicateID(err error) bool {
	return CodeOf(err) == ErrCodeDuplicateID
}

// IsDanglingReference returns true if err is a dangling reference error.
func IsDanglingReference(err error) bool {
	return CodeOf(err) == ErrCodeDanglingReference
}

// IsRange returns true if err is a range error.
func IsRange(err error) bool {
	return CodeOf(err) == ErrCodeRange
}

// NewDuplicateIDError creates an Error for an id that already exists.
func NewDuplicateIDError(entity, id string) *Error {
	return &Error{
		Code:     ErrCodeDuplicateID,
		Message:  fmt.Sprintf("%s id already exists", entity),
		EntityID: id,
		Field:    "id",
	}
}

// NewDanglingReferenceError creates an Error for a role id that does not
// resolve to a pattern of the expected kind. found is the kind actually
// stored under the id, or "" when the id is absent.
func NewDanglingReferenceError(relID, field, ref, expected, found string) *Error {
	msg := fmt.Sprintf("%s %q does not exist", field, ref)
	if found != "" {
		msg = fmt.Sprintf("%s %q is a %s, want %s", field, ref, found, expected)
	}
	return &Error{
		Code:     ErrCodeDanglingReference,
		Message:  msg,
		EntityID: relID,
		Field:    field,
		Details: map[string]string{
			"ref":      ref,
			"expected": expected,
			"found":    found,
		},
	}
}

// NewRangeError creates an Error for a score outside [0,1].
func NewRangeError(relID, field string, value float64) *Error {
	return &Error{
		Code:     ErrCodeRange,
		Message:  fmt.Sprintf("%s %v outside [0,1]", field, value),
		EntityID: relID,
		Field:    field,
		Details: map[string]string{
			"value": fmt.Sprintf("%v", value),
		},
	}
}

// NewCorruptStateError creates an Error for a stored reference that no
// longer resolves.
func NewCorruptStateError(relID, field, ref string) *Error {
	return &Error{
		Code:     ErrCodeCorruptState,
		Message:  fmt.Sprintf("stored %s %q does not resolve; single-writer discipline violated", field, ref),
		EntityID: relID,
		Field:    field,
		Details:  map[string]string{"ref": ref},
	}
}
