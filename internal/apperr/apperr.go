// Package apperr provides the coded domain errors returned by the catalog service.
//
// Services return typed errors:
//
//	return apperr.NotFoundf("Book not found with ID %d", id)
//
// Handlers match them by kind:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
//
// or switch on the code:
//
//	var appErr *apperr.Error
//	if errors.As(err, &appErr) {
//	    switch appErr.Code { ... }
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeEmptyCollection     Code = "EMPTY_COLLECTION"
	CodeNullInput           Code = "NULL_INPUT"
	CodeDuplicateName       Code = "DUPLICATE_NAME"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeValidation          Code = "VALIDATION"
	CodeInternal            Code = "INTERNAL"
)

// HTTPStatus returns the response status for an error code.
// Codes this package does not know are treated as a generic client error.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeEmptyCollection:
		return http.StatusNotFound
	case CodeNullInput, CodeValidation:
		return http.StatusBadRequest
	case CodeDuplicateName, CodeConstraintViolation:
		return http.StatusConflict
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the response status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrEmptyCollection     = &Error{Code: CodeEmptyCollection, Message: "the list is empty"}
	ErrNullInput           = &Error{Code: CodeNullInput, Message: "required input is null"}
	ErrDuplicateName       = &Error{Code: CodeDuplicateName, Message: "name already present"}
	ErrConstraintViolation = &Error{Code: CodeConstraintViolation, Message: "constraint violation"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// EmptyCollection creates an error for a listing that returned nothing.
func EmptyCollection(msg string) *Error {
	return &Error{Code: CodeEmptyCollection, Message: msg}
}

// NullInput creates an error for a missing required argument.
func NullInput(msg string) *Error {
	return &Error{Code: CodeNullInput, Message: msg}
}

// DuplicateName creates a duplicate name error.
func DuplicateName(msg string) *Error {
	return &Error{Code: CodeDuplicateName, Message: msg}
}

// ConstraintViolation creates an error for a write the store rejected.
func ConstraintViolation(msg string) *Error {
	return &Error{Code: CodeConstraintViolation, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// CodeOf returns the code carried by err, or CodeInternal when err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
