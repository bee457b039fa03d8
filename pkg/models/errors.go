package models

import (
	"context"
	"errors"
	"os"
)

// ErrorKind classifies an engine failure
type ErrorKind string

const (
	// KindInvalidInput indicates a bad argument such as an empty path
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	// KindNotFound indicates a missing file or directory
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindAccessDenied indicates a permission failure
	KindAccessDenied ErrorKind = "ACCESS_DENIED"
	// KindIO indicates any other stream or filesystem failure
	KindIO ErrorKind = "IO_ERROR"
	// KindCancelled indicates the caller cancelled the operation
	KindCancelled ErrorKind = "CANCELLED"
	// KindTooLarge indicates a file exceeds the diff size ceiling
	KindTooLarge ErrorKind = "TOO_LARGE"
	// KindTooComplex indicates the diff matrix would exceed the cell ceiling
	KindTooComplex ErrorKind = "TOO_COMPLEX"
	// KindUnsupportedContent indicates binary content was found
	KindUnsupportedContent ErrorKind = "UNSUPPORTED_CONTENT"
	// KindUnexpected wraps anything that fits no other kind
	KindUnexpected ErrorKind = "UNEXPECTED"
)

// Error is the failure value returned across engine boundaries.
// Message is meant for humans; Err keeps the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an error without an underlying cause
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an error carrying cause
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the kind of err. Plain errors are classified by ClassifyError.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ClassifyError(err)
}

// IsCancelled reports whether err represents a cancellation
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}

// IsGuardRail reports whether err is a rejection issued before expensive work
func IsGuardRail(err error) bool {
	switch KindOf(err) {
	case KindTooLarge, KindTooComplex, KindUnsupportedContent:
		return true
	default:
		return false
	}
}

// ClassifyError maps standard library errors onto an ErrorKind
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, os.ErrNotExist):
		return KindNotFound
	case errors.Is(err, os.ErrPermission):
		return KindAccessDenied
	default:
		return KindIO
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
