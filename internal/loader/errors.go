package loader

import (
	"errors"
	"fmt"

	"github.com/roach88/patternspace/internal/integrity"
)

// CodeInvalidRecord marks a record rejected by struct-tag validation or
// kind resolution, before any store call.
const CodeInvalidRecord = "INVALID_RECORD"

// RecordError locates a failure inside a document.
type RecordError struct {
	Section string // "patterns.properties", "relationships", ...
	Index   int    // position within Section, -1 for document-level errors
	ID      string
	Err     error
}

func (e *RecordError) Error() string {
	loc := e.Section
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", e.Section, e.Index)
	}
	if e.ID != "" {
		return fmt.Sprintf("%s (id=%s): %v", loc, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// CodeOf returns the integrity code carried by err, CodeInvalidRecord for
// struct-tag and kind failures, or "" otherwise.
func CodeOf(err error) string {
	if code := integrity.CodeOf(err); code != "" {
		return string(code)
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return CodeInvalidRecord
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return CodeInvalidRecord
	}
	return ""
}

// kindError reports a pattern whose type disagrees with its list.
type kindError struct {
	got  string
	want string
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: type %q in the %s list", CodeInvalidRecord, e.got, e.want)
}
