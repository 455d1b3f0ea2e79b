package jsonstore

import "errors"

// Store errors. Failures wrap one of these sentinels together with the
// underlying cause, so callers can branch with errors.Is and still inspect
// the original error.
var (
	// ErrNotFound reports a missing file when no default was supplied.
	ErrNotFound = errors.New("file not found")

	// ErrValidation reports that the configured validator rejected the
	// candidate value. The write never touched disk.
	ErrValidation = errors.New("validation failed")

	// ErrParse reports malformed JSON encountered on read.
	ErrParse = errors.New("invalid JSON")

	// ErrIO reports a filesystem-level failure (permissions, disk full,
	// path errors).
	ErrIO = errors.New("i/o failure")
)
