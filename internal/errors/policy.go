//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// PolicyViolationError is raised when a test made unexpected diagnostic calls
// and the configured action is to fail.
type PolicyViolationError struct {
	Base Error `json:"error"`

	// Method is the channel the calls were made on.
	Method string `json:"method"`

	// Count is the number of unexpected calls.
	Count int `json:"count"`

	// Payload is the rendered report shown to the user.
	Payload string `json:"payload"`
}

// NewPolicyViolationError creates a PolicyViolationError.
func NewPolicyViolationError(method string, count int, payload string) *PolicyViolationError {
	return &PolicyViolationError{
		Base: Error{
			Category: CategoryPolicy,
			Code:     CodeUnexpectedCall,
			Message:  fmt.Sprintf("unexpected console.%s() calls", method),
		},
		Method:  method,
		Count:   count,
		Payload: payload,
	}
}

// Error returns the rendered payload and nothing else.
func (e *PolicyViolationError) Error() string {
	return e.Payload
}

// Unwrap returns the underlying error.
func (e *PolicyViolationError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *PolicyViolationError) Is(target error) bool {
	t, ok := target.(*PolicyViolationError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
