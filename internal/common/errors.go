package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrArtifact     = errors.New("artifact write failed")
)

// NewAppError builds an AppError with a stable code.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps err with a message, preserving nil.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ArtifactError marks a shared-artifact write failure. These are fatal for
// the artifact only; already-computed records are not rolled back.
func ArtifactError(name string, cause error) error {
	return NewAppError("ARTIFACT_WRITE", fmt.Sprintf("writing %s (close the file if it is open elsewhere)", name), errors.Join(ErrArtifact, cause))
}
