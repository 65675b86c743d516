package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeSessionEnded      = "SESSION_ENDED"
	ErrCodeAttemptsExhausted = "ATTEMPTS_EXHAUSTED"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string         // Error code (e.g., "NOT_FOUND", "SESSION_ENDED")
	Message string         // Human-readable error message
	Status  int            // HTTP status code
	Details map[string]any // Extra state surfaced to the caller (optional)
	Err     error          // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInvalidInputError creates a new INVALID_INPUT error for a malformed submission.
func NewInvalidInputError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Status:  400,
		Details: map[string]any{"field": field},
	}
}

// NewSessionEndedError creates a new SESSION_ENDED error carrying the final score.
func NewSessionEndedError(sessionID int64, score int) *AppError {
	return &AppError{
		Code:    ErrCodeSessionEnded,
		Message: fmt.Sprintf("session %d has ended", sessionID),
		Status:  409,
		Details: map[string]any{"session_id": sessionID, "score": score},
	}
}

// NewAttemptsExhaustedError creates a new ATTEMPTS_EXHAUSTED error. The session
// has been closed by the time this is returned.
func NewAttemptsExhaustedError(sessionID int64, score int) *AppError {
	return &AppError{
		Code:    ErrCodeAttemptsExhausted,
		Message: fmt.Sprintf("no attempts left for session %d, game over", sessionID),
		Status:  409,
		Details: map[string]any{"session_id": sessionID, "score": score, "attempts_left": 0},
	}
}

// NewRateLimitedError creates a new RATE_LIMITED error
func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: "too many requests, slow down",
		Status:  429,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// Code returns the AppError code found in err's chain, or "" when there is none.
func Code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given AppError code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}
