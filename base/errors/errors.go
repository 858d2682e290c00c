// Copyright (c) 2025, The cdshell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides helpers for logging errors in place
// alongside the standard library error functions, which it re-exports
// so that it can be used as a drop-in replacement for package errors.
package errors

import (
	"errors"
	"log/slog"
	"runtime"
	"strconv"
)

// Log takes the given error and logs it if it is non-nil.
// The intended usage is:
//
//	errors.Log(MyFunc(v))
//	// or
//	return errors.Log(MyFunc(v))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + callerInfo())
	}
	return err
}

// Log1 takes the given value and error and returns the value if
// the error is nil, and logs the error and returns a zero value
// if the error is non-nil. The intended usage is:
//
//	a := errors.Log1(MyFunc(v))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + callerInfo())
	}
	return v
}

// Ignore1 ignores an error return value for a function returning
// a value and an error, allowing direct usage of the value.
func Ignore1[T any](v T, err error) T {
	return v
}

// Must takes the given error and panics if it is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// callerInfo returns the file and line of the code that called
// the function that called callerInfo.
func callerInfo() string {
	_, file, line, _ := runtime.Caller(2)
	return file + ":" + strconv.Itoa(line)
}

// New is a re-export of [errors.New].
func New(text string) error { return errors.New(text) }

// Is is a re-export of [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// As is a re-export of [errors.As].
func As(err error, target any) bool { return errors.As(err, target) }

// Join is a re-export of [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }

// Unwrap is a re-export of [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }
