// SPDX-License-Identifier: Apache-2.0

// Package check provides guard functions used to validate arguments at the
// boundaries of public operations.
//
// Every guard returns an error describing the violated constraint instead of
// panicking; callers are expected to propagate that error as-is. The
// comparison guards operate on [cmp.Ordered], the total order over numeric
// and string kinds.
package check

import (
	"cmp"
	"errors"
	"reflect"
)

// NotNil fails when v is nil, including a typed nil boxed in the
// interface (nil pointer, slice, map, func, chan).
//
// The message names the offending argument, e.g. "receiver must not be nil".
func NotNil(v any, message string) error {
	if v == nil {
		return errors.New(message)
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func,
		reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return errors.New(message)
		}
	}
	return nil
}

// NotEmpty fails when s is the empty string.
func NotEmpty(s string, message string) error {
	if len(s) == 0 {
		return errors.New(message)
	}
	return nil
}

// NotEmptySlice fails when s is nil or has no elements.
func NotEmptySlice[T any](s []T, message string) error {
	if len(s) == 0 {
		return errors.New(message)
	}
	return nil
}

// GreaterThan fails unless value > base.
func GreaterThan[T cmp.Ordered](value, base T, message string) error {
	if !(value > base) {
		return errors.New(message)
	}
	return nil
}

// GreaterOrEqual fails unless value >= base.
func GreaterOrEqual[T cmp.Ordered](value, base T, message string) error {
	if !(value >= base) {
		return errors.New(message)
	}
	return nil
}

// LessThan fails unless value < base.
func LessThan[T cmp.Ordered](value, base T, message string) error {
	if !(value < base) {
		return errors.New(message)
	}
	return nil
}

// LessOrEqual fails unless value <= base.
func LessOrEqual[T cmp.Ordered](value, base T, message string) error {
	if !(value <= base) {
		return errors.New(message)
	}
	return nil
}

// Predicate fails with the given message when ok is false.
//
// It is the catch-all guard for constraints the other helpers cannot
// express.
func Predicate(ok bool, message string) error {
	if !ok {
		return errors.New(message)
	}
	return nil
}

// First returns the first non-nil error among errs, or nil.
//
// It lets constructors run several guards and report the earliest
// violation:
//
//	if err := check.First(
//	    check.NotEmpty(key, "key must not be empty"),
//	    check.NotNil(value, "value must not be nil"),
//	); err != nil {
//	    return err
//	}
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
