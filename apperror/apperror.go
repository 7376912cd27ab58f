// Package apperror defines the error taxonomy shared by every photostream
// service. Store and codec errors are translated into one of these kinds at
// the service boundary; raw causes never reach a caller.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The HTTP layer derives status codes from it.
type Kind int

const (
	// Authentication covers missing, invalid or expired credentials. The
	// message is deliberately identical for every sub-cause so a caller
	// cannot distinguish "unknown user" from "wrong password" or "expired"
	// from "forged".
	Authentication Kind = iota + 1

	// Authorization means the identity is valid but the role is insufficient.
	Authorization

	// Validation means a malformed request payload, itemized per field.
	Validation

	// Conflict means a unique field collided on create.
	Conflict

	// NotFound means the addressed resource or subject does not exist.
	NotFound

	// Internal is an unexpected store or codec failure.
	Internal
)

// Error is a kind-tagged failure with a caller-safe message. Fields carries
// per-field detail for Validation errors and is nil otherwise.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and caller-safe message to an underlying cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

// NewValidation creates a Validation error with per-field messages.
func NewValidation(message string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Message: message, Fields: fields}
}

// KindOf resolves the kind of any error. Errors that are not (or do not
// wrap) an *Error are treated as Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// MessageOf returns the caller-safe message of err, or a generic one when
// the error carries no kind.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}

// FieldsOf returns the per-field validation details, if any.
func FieldsOf(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
