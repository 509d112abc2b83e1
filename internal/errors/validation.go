//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// ValidationError represents an invalid value in a policy file.
type ValidationError struct {
	Base Error `json:"error"`

	// File is the policy file that failed validation.
	File string `json:"file,omitempty"`

	// Field is the field that failed validation.
	Field string `json:"field,omitempty"`

	// Expected describes what was expected.
	Expected string `json:"expected,omitempty"`

	// Got describes what was received.
	Got string `json:"got,omitempty"`
}

// NewValidationError creates a ValidationError.
func NewValidationError(file, field, expected, got string) *ValidationError {
	return &ValidationError{
		Base: Error{
			Category: CategoryValidation,
			Code:     CodeValidationFailed,
			Message:  fmt.Sprintf("invalid value for %s", field),
		},
		File:     file,
		Field:    field,
		Expected: expected,
		Got:      got,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("%s: expected %s, got %s", e.Base.Message, e.Expected, e.Got)
	}
	return e.Base.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
