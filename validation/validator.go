package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/next-trace/scg-mediator/outcome"
)

// Validator checks an input and reports the first domain error found, if any.
type Validator[T any] interface {
	Validate(in T) outcome.Option[Error]
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(in T) outcome.Option[Error]

func (f ValidatorFunc[T]) Validate(in T) outcome.Option[Error] { return f(in) }

// StructValidator validates structs through `validate` tags.
// It is safe for concurrent use.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator creates a StructValidator with the library defaults.
func NewStructValidator() *StructValidator {
	return &StructValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Engine exposes the underlying validator for registering custom rules at startup.
func (v *StructValidator) Engine() *validator.Validate { return v.validate }

// Validate returns a KindValidation error describing every failed field.
// Non-struct inputs pass.
func (v *StructValidator) Validate(in any) outcome.Option[Error] {
	err := v.validate.Struct(in)
	if err == nil {
		return NoError()
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return NoError()
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return Validation("validation.failed", err.Error()).Option()
	}

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", f.Namespace(), f.Tag()))
	}

	first := fields[0]
	code := "validation." + strings.ToLower(first.Field()) + "." + first.Tag()

	return Validation(code, strings.Join(msgs, "; ")).Option()
}
