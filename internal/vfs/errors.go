// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is the sentinel wrapped by OutOfBoundsError.
	ErrOutOfBounds = errors.New("path escapes the virtual filesystem")
	// ErrInvalidRoot is the sentinel wrapped by InvalidRootError.
	ErrInvalidRoot = errors.New("invalid virtual filesystem root")
)

type (
	// OutOfBoundsError is returned when a path resolves outside the VFS root.
	OutOfBoundsError struct {
		// Path is the path as the user typed it.
		Path string
		// Resolved is the normalized candidate that was rejected.
		Resolved string
	}

	// InvalidRootError is returned when the configured root does not exist or
	// is not a directory.
	InvalidRootError struct {
		Root  string
		Cause error
	}
)

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("%q resolves to %s, outside the virtual filesystem", e.Path, e.Resolved)
}

// Unwrap returns ErrOutOfBounds for errors.Is() compatibility.
func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

func (e *InvalidRootError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid virtual filesystem root %s", e.Root)
	}
	return fmt.Sprintf("invalid virtual filesystem root %s: %v", e.Root, e.Cause)
}

// Unwrap returns ErrInvalidRoot and the cause, if any.
func (e *InvalidRootError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidRoot}
	}
	return []error{ErrInvalidRoot, e.Cause}
}
