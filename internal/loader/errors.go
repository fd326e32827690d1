package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors for load failures. Match with errors.Is.
var (
	// ErrFileAccess indicates a source file could not be opened or read.
	ErrFileAccess = errors.New("file access error")

	// ErrParse indicates a source file is not a well-formed table.
	ErrParse = errors.New("parse error")

	// ErrKeyMismatch indicates the join key is missing or has incompatible
	// types on the two sides of a join.
	ErrKeyMismatch = errors.New("join key mismatch")
)

// Error reports a load failure for a specific source file.
type Error struct {
	// Path is the source file that failed.
	Path string

	// Err is one of the sentinel errors, usually wrapping the cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

func fileError(path string, err error) *Error {
	return &Error{Path: path, Err: fmt.Errorf("%w: %w", ErrFileAccess, err)}
}

func parseError(path string, format string, args ...any) *Error {
	return &Error{Path: path, Err: fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))}
}
