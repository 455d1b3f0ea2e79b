package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockFileName guards destructive maintenance (backup and log pruning) so
// two storectl invocations cannot race each other. The stores themselves
// remain single-process; this only serializes the tool.
const lockFileName = ".storectl.lock"

func withMaintenanceLock(dir string, fn func() error) error {
	lock := flock.New(filepath.Join(dir, lockFileName))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire maintenance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another storectl maintenance run is in progress in %s", dir)
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}
