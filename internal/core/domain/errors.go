// Package domain provides the canonical types for pipelines, leads,
// automation rules, and activity records.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind categorizes a domain error.
type ErrorKind string

const (
	// ErrorKindNotFound indicates the resource is absent or not owned by the caller.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindForbidden indicates a plan gate or cross-tenant reference was rejected.
	ErrorKindForbidden ErrorKind = "forbidden"

	// ErrorKindValidation indicates malformed input rejected at the boundary.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindInternal indicates an infrastructure failure.
	ErrorKindInternal ErrorKind = "internal"
)

// Error is the canonical domain error. "Not found / not owned" outcomes are
// always surfaced as a typed Error rather than a panic or a sentinel from the
// storage driver.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// Cause holds the underlying infrastructure error, if any.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatusCode maps the error kind to an HTTP status code.
func (e *Error) HTTPStatusCode() int {
	switch e.Kind {
	case ErrorKindNotFound:
		return http.StatusNotFound
	case ErrorKindForbidden:
		return http.StatusForbidden
	case ErrorKindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrNotFound creates a not-found error.
func ErrNotFound(message string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: message}
}

// ErrForbidden creates a forbidden error.
func ErrForbidden(message string) *Error {
	return &Error{Kind: ErrorKindForbidden, Message: message}
}

// ErrValidation creates a validation error.
func ErrValidation(message string) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

// ErrInternal wraps an infrastructure failure.
func ErrInternal(message string, cause error) *Error {
	return &Error{Kind: ErrorKindInternal, Message: message, Cause: cause}
}

// KindOf returns the ErrorKind of err, or ErrorKindInternal for errors that
// did not originate in this package.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrorKindInternal
}

// IsNotFound reports whether err is a not-found domain error.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}

// IsForbidden reports whether err is a forbidden domain error.
func IsForbidden(err error) bool {
	return KindOf(err) == ErrorKindForbidden
}

// IsValidation reports whether err is a validation domain error.
func IsValidation(err error) bool {
	return KindOf(err) == ErrorKindValidation
}
