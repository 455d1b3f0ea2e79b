// Package logstore provides append-only structured log storage over
// jsonstore files: one JSON array per file, size-based rotation, time-range
// and predicate queries, and age-based cleanup.
package logstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LuisKlee/MoFox-src-demo-sub000/jsonstore"
)

// Entry is one structured log record. Every stored entry carries at least a
// "timestamp" field; entries are never mutated after being appended.
type Entry = map[string]any

// FilterFunc selects entries during a query.
type FilterFunc func(entry Entry) bool

// Default option values.
const (
	DefaultPrefix            = "log"
	DefaultMaxEntriesPerFile = 1000
)

// File name timestamp layouts: current files carry a date, finalized files a
// full timestamp.
const (
	dayStamp      = "20060102"
	rotationStamp = "20060102_150405"
)

// Options configures a Store.
type Options struct {
	// Prefix names the log stream; files are {prefix}_{stamp}.json.
	Prefix string

	// MaxEntriesPerFile triggers rotation once an append would exceed it.
	// Zero means DefaultMaxEntriesPerFile.
	MaxEntriesPerFile int

	// AutoRotate finalizes the current file when it is full. When false the
	// file grows without bound.
	AutoRotate bool

	// Logger receives debug events (rotation, cleanup). Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() *Options {
	return &Options{
		Prefix:            DefaultPrefix,
		MaxEntriesPerFile: DefaultMaxEntriesPerFile,
		AutoRotate:        true,
	}
}

// Store is an append-only log stream persisted as rotating JSON array files
// in one directory. A file is either current ({prefix}_{YYYYMMDD}.json,
// accepting appends) or finalized ({prefix}_{YYYYMMDD_HHMMSS}.json, read
// only). The transition happens exactly once, inside the same critical
// section as the append that triggers it.
type Store struct {
	dir    string
	opts   Options
	logger *slog.Logger

	// mu serializes every operation on the stream; the length check, the
	// rotation rename, and the triggering append form one critical section.
	mu      sync.Mutex
	current *jsonstore.ListStore
}

// New creates a log store writing to dir. A nil opts uses DefaultOptions.
func New(dir string, opts *Options) (*Store, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	resolved := *opts
	if resolved.Prefix == "" {
		resolved.Prefix = DefaultPrefix
	}
	if resolved.MaxEntriesPerFile <= 0 {
		resolved.MaxEntriesPerFile = DefaultMaxEntriesPerFile
	}
	logger := resolved.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	return &Store{
		dir:    dir,
		opts:   resolved,
		logger: logger,
	}, nil
}

// Dir returns the directory holding this stream's files.
func (s *Store) Dir() string {
	return s.dir
}

// Add appends one entry to the stream. A missing "timestamp" field is
// stamped with the current time in RFC 3339 form. If the append would push
// the current file past MaxEntriesPerFile and AutoRotate is on, the current
// file is finalized first and the entry lands in a fresh current file.
func (s *Store) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Entries are owned by the store once appended; copy so later caller
	// mutations cannot leak in.
	stored := make(Entry, len(entry)+1)
	for key, value := range entry {
		stored[key] = value
	}
	if _, ok := stored["timestamp"]; !ok {
		stored["timestamp"] = time.Now().Format(time.RFC3339)
	}

	current, err := s.currentStoreLocked()
	if err != nil {
		return err
	}

	length, err := current.Length()
	if err != nil {
		return err
	}

	if s.opts.AutoRotate && length >= s.opts.MaxEntriesPerFile {
		if err := s.rotateLocked(current); err != nil {
			return err
		}
		current, err = s.currentStoreLocked()
		if err != nil {
			return err
		}
	}

	return current.Append(stored)
}

// Logs returns entries from all of the stream's files whose timestamp lies
// within [start, end] (each bound inclusive, unbounded when zero) and for
// which filter returns true when supplied. Entries without a parseable
// timestamp pass the time filter. The merged result is sorted by timestamp
// ascending, since directory listing order is not chronological.
func (s *Store) Logs(start, end time.Time, filter FilterFunc) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.filesLocked()
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, file := range files {
		store, err := s.openLocked(file)
		if err != nil {
			return nil, err
		}
		items, err := store.All()
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			when, stamped := entryTime(entry)
			if stamped {
				if !start.IsZero() && when.Before(start) {
					continue
				}
				if !end.IsZero() && when.After(end) {
					continue
				}
			}
			if filter != nil && !filter(entry) {
				continue
			}
			out = append(out, entry)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := entryTime(out[i])
		tj, _ := entryTime(out[j])
		return ti.Before(tj)
	})
	return out, nil
}

// RemoveOlderThan deletes the stream's files whose modification time is
// older than now minus maxAge and returns how many were deleted. Eligibility
// is decided from mtime alone; file contents are never parsed.
func (s *Store) RemoveOlderThan(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.filesLocked()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			s.logger.Debug("failed to remove log file", "path", file, "error", err)
			continue
		}
		if s.current != nil && s.current.Path() == file {
			s.current = nil
		}
		removed++
	}
	if removed > 0 {
		s.logger.Debug("removed old log files", "dir", s.dir, "removed", removed)
	}
	return removed, nil
}

// currentPath is today's current file: {prefix}_{YYYYMMDD}.json.
func (s *Store) currentPath() string {
	name := fmt.Sprintf("%s_%s.json", s.opts.Prefix, time.Now().Format(dayStamp))
	return filepath.Join(s.dir, name)
}

// currentStoreLocked resolves the store for today's current file, replacing
// the cached one when the date rolls over.
func (s *Store) currentStoreLocked() (*jsonstore.ListStore, error) {
	path := s.currentPath()
	if s.current == nil || s.current.Path() != path {
		store, err := s.openLocked(path)
		if err != nil {
			return nil, err
		}
		s.current = store
	}
	return s.current, nil
}

// openLocked opens a log file as a list store. Log files are append-only
// and preserved whole by rotation, so per-write backups are disabled; a
// backup's name would also collide with the stream's file pattern.
func (s *Store) openLocked(path string) (*jsonstore.ListStore, error) {
	return jsonstore.NewList(path, &jsonstore.Options{
		AutoCreate: false,
		AutoBackup: false,
		Indent:     jsonstore.DefaultIndent,
	})
}

// rotateLocked finalizes the current file by renaming it to the timestamped
// form and drops the cached store so the next append starts a fresh file.
func (s *Store) rotateLocked(current *jsonstore.ListStore) error {
	stamp := time.Now().Format(rotationStamp)
	finalized := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", s.opts.Prefix, stamp))
	if _, err := os.Stat(finalized); err == nil {
		// Two rotations within the same second; disambiguate the name.
		finalized = filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.json",
			s.opts.Prefix, stamp, uuid.NewString()[:8]))
	}

	if err := os.Rename(current.Path(), finalized); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	s.current = nil

	s.logger.Debug("rotated log file", "from", current.Path(), "to", finalized)
	return nil
}

// filesLocked lists the stream's files (current and finalized), sorted by
// name.
func (s *Store) filesLocked() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, s.opts.Prefix+"_*.json"))
	if err != nil {
		return nil, fmt.Errorf("list log files: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// entryTime parses an entry's timestamp field. The second return reports
// whether a usable timestamp was found.
func entryTime(entry Entry) (time.Time, bool) {
	raw, ok := entry["timestamp"].(string)
	if !ok {
		return time.Time{}, false
	}
	if when, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return when, true
	}
	// Tolerate stamps without a zone offset.
	if when, err := time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local); err == nil {
		return when, true
	}
	return time.Time{}, false
}
