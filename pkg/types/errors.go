package types

import (
	"errors"
	"fmt"
)

// Resource routing errors.
var (
	ErrUnsupportedResource = errors.New("unsupported resource")
)

// Validation errors. They reach callers wrapped in a *FieldError that names
// the offending field.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFieldValue    = errors.New("invalid field value")
)

// Storage errors.
var (
	ErrStorageWriteFailed    = errors.New("storage write failed")
	ErrStorageNotInitialized = errors.New("storage not initialized")
	ErrUnknownColumn         = errors.New("unknown column")
	ErrInvalidSelection      = errors.New("invalid selection")
	ErrNotFound              = errors.New("product not found")
)

// FieldError reports a validation failure for a single payload field.
// errors.Is matches it against ErrMissingRequiredField or
// ErrInvalidFieldValue.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingField returns the error for a required field that is absent.
func MissingField(field string) error {
	return &FieldError{Field: field, Err: ErrMissingRequiredField}
}

// InvalidField returns the error for a field that is present but fails its
// rule.
func InvalidField(field string) error {
	return &FieldError{Field: field, Err: ErrInvalidFieldValue}
}

// IsUserError reports whether err is caused by the request rather than the
// store: an unsupported resource, a validation failure, an unknown column,
// a malformed selection or a missing product.
func IsUserError(err error) bool {
	return errors.Is(err, ErrUnsupportedResource) ||
		errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrInvalidFieldValue) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrNotFound)
}
