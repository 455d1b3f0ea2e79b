package logstore_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuisKlee/MoFox-src-demo-sub000/logstore"
)

func newStream(t *testing.T, opts *logstore.Options) *logstore.Store {
	t.Helper()
	stream, err := logstore.New(t.TempDir(), opts)
	require.NoError(t, err)
	return stream
}

func streamFiles(t *testing.T, stream *logstore.Store) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(stream.Dir(), "*.json"))
	require.NoError(t, err)
	return matches
}

func TestAddStampsTimestamp(t *testing.T) {
	stream := newStream(t, nil)
	require.NoError(t, stream.Add(logstore.Entry{"event": "boot"}))

	entries, err := stream.Logs(time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, ok := entries[0]["timestamp"].(string)
	require.True(t, ok, "timestamp should be stamped")
	_, err = time.Parse(time.RFC3339, raw)
	assert.NoError(t, err)
}

func TestAddKeepsExplicitTimestamp(t *testing.T) {
	stream := newStream(t, nil)
	stamp := "2024-03-01T10:00:00Z"
	require.NoError(t, stream.Add(logstore.Entry{"event": "seeded", "timestamp": stamp}))

	entries, err := stream.Logs(time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stamp, entries[0]["timestamp"])
}

func TestAddDoesNotMutateCallerEntry(t *testing.T) {
	stream := newStream(t, nil)
	entry := logstore.Entry{"event": "boot"}
	require.NoError(t, stream.Add(entry))

	assert.NotContains(t, entry, "timestamp")
}

func TestRotationBoundary(t *testing.T) {
	const maxEntries = 5
	stream := newStream(t, &logstore.Options{
		Prefix:            "bot",
		MaxEntriesPerFile: maxEntries,
		AutoRotate:        true,
	})

	for i := 0; i < maxEntries+1; i++ {
		require.NoError(t, stream.Add(logstore.Entry{"seq": i}))
	}

	files := streamFiles(t, stream)
	require.Len(t, files, 2, "expected one finalized and one current file")

	currentName := fmt.Sprintf("bot_%s.json", time.Now().Format("20060102"))
	var currentSeen, finalizedSeen bool
	for _, file := range files {
		entries := readEntries(t, file)
		if filepath.Base(file) == currentName {
			currentSeen = true
			assert.Len(t, entries, 1)
		} else {
			finalizedSeen = true
			assert.Len(t, entries, maxEntries)
		}
	}
	assert.True(t, currentSeen)
	assert.True(t, finalizedSeen)
}

func TestNoRotationWhenDisabled(t *testing.T) {
	stream := newStream(t, &logstore.Options{
		MaxEntriesPerFile: 3,
		AutoRotate:        false,
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, stream.Add(logstore.Entry{"seq": i}))
	}

	files := streamFiles(t, stream)
	require.Len(t, files, 1)
	assert.Len(t, readEntries(t, files[0]), 10)
}

func TestLogsTimeRangeInclusive(t *testing.T) {
	stream := newStream(t, nil)
	now := time.Now().Truncate(time.Second)
	stamps := []time.Time{
		now.AddDate(0, 0, -2),
		now.AddDate(0, 0, -1),
		now,
		now.AddDate(0, 0, 1),
	}
	for i, when := range stamps {
		require.NoError(t, stream.Add(logstore.Entry{
			"seq":       i,
			"timestamp": when.Format(time.RFC3339),
		}))
	}

	entries, err := stream.Logs(now.AddDate(0, 0, -1), now, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, float64(1), entries[0]["seq"])
	assert.Equal(t, float64(2), entries[1]["seq"])
}

func TestLogsOpenEndedBounds(t *testing.T) {
	stream := newStream(t, nil)
	now := time.Now().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, stream.Add(logstore.Entry{
			"seq":       i,
			"timestamp": now.AddDate(0, 0, i-1).Format(time.RFC3339),
		}))
	}

	entries, err := stream.Logs(now, time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = stream.Logs(time.Time{}, now, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLogsFilterFunc(t *testing.T) {
	stream := newStream(t, nil)
	require.NoError(t, stream.Add(logstore.Entry{"level": "info"}))
	require.NoError(t, stream.Add(logstore.Entry{"level": "error"}))
	require.NoError(t, stream.Add(logstore.Entry{"level": "error"}))

	entries, err := stream.Logs(time.Time{}, time.Time{}, func(entry logstore.Entry) bool {
		return entry["level"] == "error"
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLogsUnstampedEntriesPassTimeFilter(t *testing.T) {
	stream := newStream(t, nil)
	require.NoError(t, stream.Add(logstore.Entry{"seq": 0, "timestamp": "not-a-time"}))
	require.NoError(t, stream.Add(logstore.Entry{"seq": 1, "timestamp": "2024-01-01T00:00:00Z"}))

	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	entries, err := stream.Logs(start, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(0), entries[0]["seq"])
}

func TestLogsSortedAcrossFiles(t *testing.T) {
	stream := newStream(t, &logstore.Options{
		MaxEntriesPerFile: 2,
		AutoRotate:        true,
	})

	// Deliberately out of chronological order so the merge must sort.
	stamps := []string{
		"2024-06-03T00:00:00Z",
		"2024-06-01T00:00:00Z",
		"2024-06-04T00:00:00Z",
		"2024-06-02T00:00:00Z",
	}
	for _, stamp := range stamps {
		require.NoError(t, stream.Add(logstore.Entry{"timestamp": stamp}))
	}

	entries, err := stream.Logs(time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var got []string
	for _, entry := range entries {
		got = append(got, entry["timestamp"].(string))
	}
	assert.Equal(t, []string{
		"2024-06-01T00:00:00Z",
		"2024-06-02T00:00:00Z",
		"2024-06-03T00:00:00Z",
		"2024-06-04T00:00:00Z",
	}, got)
}

func TestRemoveOlderThan(t *testing.T) {
	stream := newStream(t, &logstore.Options{
		MaxEntriesPerFile: 1,
		AutoRotate:        true,
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, stream.Add(logstore.Entry{"seq": i}))
	}
	files := streamFiles(t, stream)
	require.Len(t, files, 3)

	// Age one file past the retention window.
	old := time.Now().AddDate(0, 0, -40)
	require.NoError(t, os.Chtimes(files[0], old, old))

	removed, err := stream.RemoveOlderThan(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, streamFiles(t, stream), 2)

	// Nothing else is old enough.
	removed, err = stream.RemoveOlderThan(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestConcurrentAdds(t *testing.T) {
	stream := newStream(t, &logstore.Options{
		MaxEntriesPerFile: 50,
		AutoRotate:        true,
	})

	const goroutines = 10
	const perGoroutine = 20

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				if err := stream.Add(logstore.Entry{"worker": n, "seq": j}); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent add failed: %v", err)
	}

	entries, err := stream.Logs(time.Time{}, time.Time{}, nil)
	require.NoError(t, err)
	assert.Len(t, entries, goroutines*perGoroutine)
}

func readEntries(t *testing.T, path string) []any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []any
	require.NoError(t, json.Unmarshal(raw, &entries))
	return entries
}
