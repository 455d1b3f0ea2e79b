package jsonstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// backupStamp is the timestamp layout embedded in backup file names.
const backupStamp = "20060102_150405"

// Backups returns the store's backup files, newest first.
func (s *Store) Backups() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listBackupsLocked()
}

// PruneBackups deletes all but the keep newest backups and returns how many
// were removed.
func (s *Store) PruneBackups(keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pruneBackupsLocked(keep)
}

// createBackupLocked copies the current file to a timestamped sibling and
// prunes excess backups in the same operation. Caller must hold the write
// lock.
func (s *Store) createBackupLocked() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s for backup: %w", ErrIO, s.path, err)
	}

	dir := filepath.Dir(s.path)
	stem, suffix := splitName(s.path)
	stamp := time.Now().Format(backupStamp)

	backupPath := filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", stem, stamp, suffix))
	if _, err := os.Stat(backupPath); err == nil {
		// Two backups within the same second; disambiguate the name.
		backupPath = filepath.Join(dir, fmt.Sprintf("%s_backup_%s_%s%s",
			stem, stamp, uuid.NewString()[:8], suffix))
	}

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write backup %s: %w", ErrIO, backupPath, err)
	}

	if _, err := s.pruneBackupsLocked(s.opts.MaxBackups); err != nil {
		return "", err
	}
	return backupPath, nil
}

// listBackupsLocked enumerates backups by name pattern, newest first. The
// embedded timestamp sorts lexically, so no mtime inspection is needed.
func (s *Store) listBackupsLocked() ([]string, error) {
	dir := filepath.Dir(s.path)
	stem, suffix := splitName(s.path)

	matches, err := filepath.Glob(filepath.Join(dir, stem+"_backup_*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("%w: list backups: %w", ErrIO, err)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}

func (s *Store) pruneBackupsLocked(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	backups, err := s.listBackupsLocked()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	removed := 0
	for _, backup := range backups[keep:] {
		if err := os.Remove(backup); err != nil {
			s.logger.Debug("failed to remove backup", "path", backup, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Debug("pruned backups", "path", s.path, "removed", removed, "kept", keep)
	}
	return removed, nil
}

// splitName splits a path's base name into stem and extension.
func splitName(path string) (stem, suffix string) {
	base := filepath.Base(path)
	suffix = filepath.Ext(base)
	stem = strings.TrimSuffix(base, suffix)
	return stem, suffix
}
