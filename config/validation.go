package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks cfg against its `validate` tags.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", f.Namespace(), f.Tag(), f.Value()))
	}

	return fmt.Errorf("validation failed:\n  %s", strings.Join(msgs, "\n  "))
}
