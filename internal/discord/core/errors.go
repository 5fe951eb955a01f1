package core

import (
	"fmt"

	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

// HandlerError represents an error that occurred during handler execution
type HandlerError struct {
	// The underlying error
	Err error

	// User-friendly message to display
	UserMessage string

	// Whether this error should be shown to the user
	ShowToUser bool

	// HTTP-like status code for categorization
	Code int
}

// Error implements the error interface
func (e *HandlerError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrorCodeBadRequest   = 400
	ErrorCodeUnauthorized = 401
	ErrorCodeForbidden    = 403
	ErrorCodeNotFound     = 404
	ErrorCodeConflict     = 409
	ErrorCodeInternal     = 500
)

// NewHandlerError creates a new handler error
func NewHandlerError(err error, userMessage string, code int) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: userMessage,
		ShowToUser:  true,
		Code:        code,
	}
}

// NewInternalError creates an internal error with a generic user message
func NewInternalError(err error) *HandlerError {
	return &HandlerError{
		Err:         err,
		UserMessage: "Something went wrong. Please try again later.",
		ShowToUser:  true,
		Code:        ErrorCodeInternal,
	}
}

// NewUserError creates an error with a user-friendly message
func NewUserError(message string, code int) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		ShowToUser:  true,
		Code:        code,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *HandlerError {
	return &HandlerError{
		UserMessage: fmt.Sprintf("%s not found", resource),
		ShowToUser:  true,
		Code:        ErrorCodeNotFound,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *HandlerError {
	return &HandlerError{
		UserMessage: message,
		ShowToUser:  true,
		Code:        ErrorCodeForbidden,
	}
}

// WrapServiceError translates a coded service error into a HandlerError.
// Validation, precondition, permission and not-found messages are written
// for end users and pass through verbatim; everything else is masked.
func WrapServiceError(err error) *HandlerError {
	if err == nil {
		return nil
	}
	if handlerErr, ok := err.(*HandlerError); ok {
		return handlerErr
	}

	switch rosterr.GetCode(err) {
	case rosterr.CodeValidation, rosterr.CodeInvalidArgument:
		return NewHandlerError(err, userMessage(err), ErrorCodeBadRequest)
	case rosterr.CodeFailedPrecondition, rosterr.CodeAlreadyExists:
		return NewHandlerError(err, userMessage(err), ErrorCodeConflict)
	case rosterr.CodePermissionDenied:
		return NewHandlerError(err, userMessage(err), ErrorCodeForbidden)
	case rosterr.CodeNotFound:
		return NewHandlerError(err, userMessage(err), ErrorCodeNotFound)
	default:
		return NewInternalError(err)
	}
}

func userMessage(err error) string {
	if coded, ok := err.(*rosterr.Error); ok {
		return coded.Message
	}
	return err.Error()
}
