// Package file provides a filesystem BlobStore persisting the graph as one JSON file.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parley-dev/parley/pkg/ports"
)

// Store implements ports.BlobStore on the local filesystem.
type Store struct {
	Path string
}

// New creates a Store writing to path.
// If path is empty, it defaults to ".parley/graph.json".
func New(path string) *Store {
	if path == "" {
		path = filepath.Join(".parley", "graph.json")
	}
	return &Store{Path: path}
}

// Read returns the blob file's contents.
// A missing or empty file reads as ports.ErrBlobNotFound (fresh project).
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob file: %w", err)
	}
	if len(data) == 0 {
		return nil, ports.ErrBlobNotFound
	}
	return data, nil
}

// Write persists the blob atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// over the destination so a crash never leaves a partial blob behind.
func (s *Store) Write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure blob directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Close before rename (cannot rename an open file on Windows).
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if the destination exists; remove first.
	// The delete+rename window is acceptable compared to a partial write.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing blob for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}

	return nil
}
