package model

import (
	"fmt"

	"github.com/goliatone/go-model/pkg/validators"
)

// ValidationError re-exports the validator failure type so callers only need
// this package to classify errors with errors.As.
type ValidationError = validators.ValidationError

// FieldError reports an access to a field name the schema does not declare.
type FieldError struct {
	Schema string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("model %q has no field %q", e.Schema, e.Field)
}

// ConfigurationError reports an invalid schema or field declaration. It is a
// programming error, not a data error, and is surfaced when the schema is
// built.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "model configuration: " + e.Detail
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...)}
}

// ConversionError reports a value that could not be coerced to a field's
// storage type. It is raised at assignment time, not deferred to Validate.
type ConversionError struct {
	Field  string
	Value  any
	Detail string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert %v: %s", e.Field, e.Value, e.Detail)
}
