// Package jsonstore provides atomic, file-backed JSON persistence.
//
// A Store owns exactly one JSON file. Every write goes through a temp-file
// plus rename sequence, so readers never observe a partially written file.
// Writes can be guarded by a caller-supplied validator and are preceded by
// timestamped backups with bounded retention. DictStore and ListStore layer
// object and array semantics on top of the same primitive.
package jsonstore

import "log/slog"

// ValidateFunc checks a candidate value before it is committed to disk.
// Returning false aborts the write with ErrValidation and no filesystem
// change.
type ValidateFunc func(value any) bool

// UpdateFunc transforms the current value into the next one inside a single
// critical section. It must derive the result from current alone; returning
// an error aborts the update with no filesystem change.
type UpdateFunc func(current any) (any, error)

// Default option values, matching the zero configuration most callers want.
const (
	DefaultMaxBackups = 5
	DefaultIndent     = 2
)

// Options configures a Store.
type Options struct {
	// AutoCreate creates the file with an empty container when it does not
	// exist yet.
	AutoCreate bool

	// AutoBackup copies the current content to a timestamped backup before
	// every write.
	AutoBackup bool

	// MaxBackups bounds how many backups are retained. Zero means
	// DefaultMaxBackups; negative disables retention entirely (keep none).
	MaxBackups int

	// Indent is the number of spaces used for pretty printing. Zero or
	// negative writes compact JSON.
	Indent int

	// Validate, when set, is consulted before every Write and Update commit.
	Validate ValidateFunc

	// Logger receives debug events (backup pruning, atomic replace). Nil
	// discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() *Options {
	return &Options{
		AutoCreate: true,
		AutoBackup: true,
		MaxBackups: DefaultMaxBackups,
		Indent:     DefaultIndent,
	}
}
