package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists a single JSON value in one file. All operations are safe
// for concurrent use within one process; the store provides no cross-process
// exclusion.
type Store struct {
	path   string
	opts   Options
	logger *slog.Logger

	// initial builds a fresh empty container for this store's shape, used
	// for AutoCreate and as the Update default on a missing file.
	initial func() any

	// mu guards every public operation for its entire duration. Update is
	// atomic with respect to other operations on the same instance because
	// all of them go through this mutex.
	mu sync.RWMutex
}

// New creates a store for path. A nil opts uses DefaultOptions. The parent
// directory is created if missing; with AutoCreate, a missing file is
// initialized with an empty object.
func New(path string, opts *Options) (*Store, error) {
	return newStore(path, opts, func() any { return map[string]any{} })
}

func newStore(path string, opts *Options, initial func() any) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	resolved := *opts
	if resolved.MaxBackups == 0 {
		resolved.MaxBackups = DefaultMaxBackups
	}
	logger := resolved.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Store{
		path:    path,
		opts:    resolved,
		logger:  logger,
		initial: initial,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory: %w", ErrIO, err)
	}

	if resolved.AutoCreate && !s.exists() {
		raw, err := s.marshal(initial())
		if err != nil {
			return nil, err
		}
		if err := s.replaceFile(raw); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Path returns the file path this store persists to.
func (s *Store) Path() string {
	return s.path
}

// Read returns the decoded JSON value. A missing file yields def when def is
// non-nil, ErrNotFound otherwise. Malformed content yields ErrParse.
func (s *Store) Read(def any) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readLocked(def)
}

// Write validates data (when a validator is configured), backs up the
// current content, and atomically replaces the file. On any failure the
// previous content remains fully intact.
func (s *Store) Write(data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeLocked(data, true)
}

// WriteUnchecked is Write without consulting the validator.
func (s *Store) WriteUnchecked(data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeLocked(data, false)
}

// Update runs a read-modify-write cycle under one lock acquisition: read the
// current value (a missing file reads as the store's empty container), apply
// fn, then validate, back up, and atomically write the result. This is the
// only sanctioned way to do read-modify-write; separate Read and Write calls
// can interleave with other writers.
func (s *Store) Update(fn UpdateFunc) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readLocked(s.initial())
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := s.writeLocked(next, true); err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes the file, optionally backing it up first. Deleting a
// missing file returns false without error.
func (s *Store) Delete(createBackup bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.exists() {
		return false, nil
	}

	if createBackup {
		if _, err := s.createBackupLocked(); err != nil {
			return false, err
		}
	}

	if err := os.Remove(s.path); err != nil {
		return false, fmt.Errorf("%w: remove %s: %w", ErrIO, s.path, err)
	}
	return true, nil
}

// Exists reports whether the file currently exists.
func (s *Store) Exists() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.exists()
}

// Size returns the file size in bytes, or 0 when the file is missing.
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// readLocked reads and decodes the file. Caller must hold the lock.
func (s *Store) readLocked(def any) (any, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if def != nil {
			return def, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
	}

	// An empty file carries no value; treat it like a missing one.
	if len(data) == 0 {
		if def != nil {
			return def, nil
		}
		return nil, fmt.Errorf("%w: %s: empty file", ErrParse, s.path)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, s.path, err)
	}
	return value, nil
}

// writeLocked performs the validate, backup, atomic-replace sequence.
// Caller must hold the write lock.
func (s *Store) writeLocked(data any, validate bool) error {
	if validate && s.opts.Validate != nil && !s.opts.Validate(data) {
		return fmt.Errorf("%w: %s", ErrValidation, s.path)
	}

	if s.opts.AutoBackup && s.exists() {
		if _, err := s.createBackupLocked(); err != nil {
			return err
		}
	}

	raw, err := s.marshal(data)
	if err != nil {
		return err
	}
	return s.replaceFile(raw)
}

func (s *Store) marshal(data any) ([]byte, error) {
	var raw []byte
	var err error
	if s.opts.Indent > 0 {
		raw, err = json.MarshalIndent(data, "", strings.Repeat(" ", s.opts.Indent))
	} else {
		raw, err = json.Marshal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: marshal JSON: %w", ErrIO, err)
	}
	return raw, nil
}

// replaceFile writes data to a temp file in the same directory, flushes it,
// and renames it over the target. The rename is the only step that makes the
// new content visible.
func (s *Store) replaceFile(data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %w", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %w", ErrIO, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename temp file: %w", ErrIO, err)
	}

	s.logger.Debug("replaced file", "path", s.path, "bytes", len(data))
	return nil
}

func (s *Store) exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
