package domain

import (
	"errors"
	"fmt"
)

// ErrCodeValidation marks failures caused by the caller's input. They are
// answered in the response body and never reported to Sentry.
const ErrCodeValidation = "VALIDATION_ERROR"

// DomainError is an error with a stable code and a message safe to show to
// API callers.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// IsValidation reports whether err wraps a validation DomainError.
func IsValidation(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == ErrCodeValidation
}

var (
	ErrDimensionMismatch = NewDomainError(ErrCodeValidation, "embedding dimension does not match collection")
	ErrInvalidCMSPayload = NewDomainError(ErrCodeValidation, "invalid CMS payload")
)
