package jsonstore

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Compress gzip-compresses the store's file to outputPath and returns the
// path written. An empty outputPath defaults to the store path plus ".gz".
// The original file is left untouched.
func (s *Store) Compress(outputPath string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.exists() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if outputPath == "" {
		outputPath = s.path + ".gz"
	}

	in, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrIO, s.path, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrIO, outputPath, err)
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = gz.Close()
		_ = out.Close()
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("%w: compress %s: %w", ErrIO, s.path, err)
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("%w: finish compression: %w", ErrIO, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("%w: close %s: %w", ErrIO, outputPath, err)
	}

	return outputPath, nil
}

// Decompress gunzips compressedPath and atomically installs the result as
// the store's current file, with the same temp-file discipline as Write.
func (s *Store) Decompress(compressedPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := os.Open(compressedPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, compressedPath)
	}
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, compressedPath, err)
	}
	defer func() { _ = in.Close() }()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrParse, compressedPath, err)
	}
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("%w: decompress %s: %w", ErrIO, compressedPath, err)
	}

	return s.replaceFile(data)
}
