package errors

import "fmt"

// ErrorCode represents a Marque error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED" // 422
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrConflict         ErrorCode = "CONFLICT"          // 409
	ErrExternalTool     ErrorCode = "EXTERNAL_TOOL"     // 502
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// MarqueError represents a structured error with code, status, and details.
type MarqueError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *MarqueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *MarqueError {
	return &MarqueError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewValidationFailed creates a 422 error for input rejected before mutation.
// The message carries the specific reason shown to the user.
func NewValidationFailed(msg string) *MarqueError {
	return &MarqueError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a path, section, or comment id
// absent from the store.
func NewNotFound(identifier string) *MarqueError {
	return &MarqueError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *MarqueError {
	return &MarqueError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewExternalTool creates a 502 error for a failed VCS or code-host call.
// Adapters convert these to result objects before they reach the store.
func NewExternalTool(tool, msg string) *MarqueError {
	return &MarqueError{
		Code:    ErrExternalTool,
		Status:  502,
		Message: fmt.Sprintf("%s: %s", tool, msg),
		Details: map[string]any{"tool": tool},
	}
}

// NewCancelled creates a 499 error for a context-cancelled operation.
func NewCancelled(operation string) *MarqueError {
	return &MarqueError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *MarqueError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &MarqueError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a MarqueError with the given code.
func Is(err error, code ErrorCode) bool {
	if mErr, ok := err.(*MarqueError); ok {
		return mErr.Code == code
	}
	return false
}
