package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/juiceplant/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError is a validation failure on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{errors: make([]FieldError, 0)}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if any check failed, nil otherwise.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return errors.Validation(strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}

// Check adds message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required checks that a string is non-blank.
func (v *Validator) Required(field, value string) *Validator {
	return v.Check(strings.TrimSpace(value) != "", field, "is required")
}

// NotNil checks that a value is non-nil.
func (v *Validator) NotNil(field string, value any) *Validator {
	return v.Check(value != nil, field, "is required")
}

// NonNegative checks that n >= 0.
func (v *Validator) NonNegative(field string, n int64) *Validator {
	return v.Check(n >= 0, field, "must not be negative")
}

// Positive checks that n > 0.
func (v *Validator) Positive(field string, n int64) *Validator {
	return v.Check(n > 0, field, "must be positive")
}

// MinLen checks that a slice-like length is at least min.
func (v *Validator) MinLen(field string, n, min int) *Validator {
	return v.Check(n >= min, field, fmt.Sprintf("must have at least %d entries", min))
}

// PositiveDuration checks that d > 0.
func (v *Validator) PositiveDuration(field string, d time.Duration) *Validator {
	return v.Check(d > 0, field, "must be a positive duration")
}

// OptionalUUID checks that a non-empty string parses as a UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		return v
	}
	_, err := uuid.Parse(value)
	return v.Check(err == nil, field, "must be a valid UUID")
}
