// Package apierr provides the structured configuration errors reported by apigen.
//
// Every error in this package describes a mistake in the annotated library itself
// (a malformed public path, an empty deprecation recommendation list, two aliases
// competing for the same name). They are never recovered from internally: the
// pipeline that hits one aborts before writing any output.
//
// # Usage
//
//	err := apierr.New(apierr.CodeInvalidPath, "public path %q has no module part", path)
//	if errors.Is(err, apierr.ErrConfiguration) {
//	    // any apigen configuration error
//	}
//	if apierr.Is(err, apierr.CodePathCollision) {
//	    // a specific kind
//	}
package apierr

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every *Error through errors.Is.
var ErrConfiguration = errors.New("apigen configuration error")

// Code represents a machine-readable error code.
type Code string

const (
	CodeInvalidPath        Code = "INVALID_PATH"
	CodeInvalidAnnotation  Code = "INVALID_ANNOTATION"
	CodeInvalidDeprecation Code = "INVALID_DEPRECATION"
	CodeUnsupportedSymbol  Code = "UNSUPPORTED_SYMBOL"
	CodePathCollision      Code = "PATH_COLLISION"
	CodeDuplicateAlias     Code = "DUPLICATE_ALIAS"
)

// Error is a configuration error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is makes every *Error match ErrConfiguration.
func (e *Error) Is(target error) bool {
	return target == ErrConfiguration
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
