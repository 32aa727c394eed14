package loader

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/patternspace/internal/model"
)

// recordValidate checks decoded records before they reach the store.
// Initialized in init() with the patternkind rule.
var recordValidate *validator.Validate

func init() {
	recordValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = recordValidate.RegisterValidation("patternkind", validatePatternKind)
}

// validatePatternKind accepts anything model.ParseKind accepts.
func validatePatternKind(fl validator.FieldLevel) bool {
	_, err := model.ParseKind(fl.Field().String())
	return err == nil
}

// ValidateDocument runs the struct-tag checks over the whole document and
// reports the first failing field.
func ValidateDocument(doc *Document) error {
	err := recordValidate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &RecordError{
		Section: "document",
		Index:   -1,
		Err: &FieldError{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		},
	}
}

// FieldError is a struct-tag violation.
type FieldError struct {
	Field string // e.g. "Document.Relationships[2].Strength"
	Rule  string // validator tag, e.g. "required"
	Param string
}

func (e *FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: field %s failed %s=%s", CodeInvalidRecord, e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s: field %s failed %s", CodeInvalidRecord, e.Field, e.Rule)
}
