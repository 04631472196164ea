package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/injex/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// Check adds a field error when condition is false.
func (v *Validator) Check(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// OneOf validates that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, " "))
	return v
}

// Merge appends the errors of err when it is a validation failure produced by
// this package; any other non-nil error is recorded against field.
func (v *Validator) Merge(field string, err error) *Validator {
	if err == nil {
		return v
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if fields, ok := appErr.Details["fields"].([]FieldError); ok {
			v.errors = append(v.errors, fields...)
			return v
		}
	}
	v.AddError(field, err.Error())
	return v
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an error if there are validation errors, nil otherwise.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, len(v.errors))
	for i, e := range v.errors {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	field := ""
	if len(v.errors) == 1 {
		field = v.errors[0].Field
	}
	appErr := errors.InvalidConfig(field, strings.Join(messages, "; "))
	appErr.WithDetail("fields", v.errors)
	return appErr
}
