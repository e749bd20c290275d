package model

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat signals malformed or unreadable input data.
	ErrFormat = errors.New("format error")
	// ErrValidation signals a structurally unusable dataset.
	ErrValidation = errors.New("validation error")
	// ErrUnsupportedMethod signals an unknown analysis method.
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrBackend signals a failure while training or evaluating a model.
	ErrBackend = errors.New("backend error")
)

// Error is a classified pipeline error.
// It unwraps to both its kind sentinel and the underlying cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
	}
	return e.msg
}

// Is allows errors.Is to match the kind sentinel.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// FormatError creates a new format error.
func FormatError(format string, args ...interface{}) error {
	return &Error{kind: ErrFormat, msg: fmt.Sprintf(format, args...)}
}

// FormatErrorFrom creates a new format error caused by err.
func FormatErrorFrom(err error, format string, args ...interface{}) error {
	return &Error{kind: ErrFormat, msg: fmt.Sprintf(format, args...), cause: err}
}

// ValidationError creates a new validation error.
func ValidationError(format string, args ...interface{}) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// UnsupportedMethodError creates a new error for the given method.
func UnsupportedMethodError(method string) error {
	return &Error{kind: ErrUnsupportedMethod, msg: fmt.Sprintf("'%s'", method)}
}

// BackendError creates a new backend error caused by err.
func BackendError(err error, format string, args ...interface{}) error {
	return &Error{kind: ErrBackend, msg: fmt.Sprintf(format, args...), cause: err}
}
