// SPDX-License-Identifier: Apache-2.0

// Package errs defines the error taxonomy shared by the commons packages.
//
// Two kinds live here: [Error], a plain base error carrying an optional
// message, and [TransientError], a marker for failures that are expected to
// clear on their own (network blips, lock contention, ...). Retry policies
// use [IsTransient] as their default retry-eligibility predicate.
package errs

import (
	"errors"
	"fmt"
)

// Error is the base error type for the commons packages.
//
// It carries an optional message and, when constructed via [Wrap], an
// underlying cause reachable through errors.Unwrap.
type Error struct {
	msg   string
	cause error
}

// New returns an [Error] with the given message.
func New(message string) *Error {
	return &Error{msg: message}
}

// Newf returns an [Error] with a formatted message.
func Newf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an [Error] with the given message and cause.
func Wrap(message string, cause error) *Error {
	return &Error{msg: message, cause: cause}
}

func (e *Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// TransientError marks a failure as temporary and therefore retry-eligible.
//
// It deliberately does not embed [Error]: a field named Error would
// shadow the promoted Error method and the type would stop satisfying
// the error interface.
type TransientError struct {
	msg   string
	cause error
}

// Transient returns a [TransientError] with the given message.
func Transient(message string) *TransientError {
	return &TransientError{msg: message}
}

// Transientf returns a [TransientError] with a formatted message.
func Transientf(format string, args ...any) *TransientError {
	return &TransientError{msg: fmt.Sprintf(format, args...)}
}

// AsTransient wraps err so that [IsTransient] reports true for it.
//
// The original error remains reachable through errors.Unwrap.
func AsTransient(err error) *TransientError {
	return &TransientError{cause: err}
}

func (e *TransientError) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *TransientError) Unwrap() error {
	return e.cause
}

var (
	_ error = (*Error)(nil)
	_ error = (*TransientError)(nil)
)

// transienter is the capability interface honored by [IsTransient] for
// error types defined outside this package.
type transienter interface {
	Transient() bool
}

// Transient marks the error as temporary. It exists so foreign errors can
// satisfy the same capability without embedding [TransientError].
func (*TransientError) Transient() bool { return true }

// IsTransient reports whether any error in err's chain is marked
// transient, either by being a [TransientError] or by implementing
// `interface{ Transient() bool }`.
func IsTransient(err error) bool {
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var t transienter
	return errors.As(err, &t) && t.Transient()
}
