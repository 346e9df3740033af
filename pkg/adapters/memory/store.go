// Package memory provides an in-memory BlobStore for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/parley-dev/parley/pkg/ports"
)

// Store implements ports.BlobStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data []byte
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Read returns a copy of the current blob.
func (s *Store) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ports.ErrBlobNotFound
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Write replaces the blob. The input is copied so the caller can't mutate
// stored bytes afterwards.
func (s *Store) Write(ctx context.Context, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = stored
	return nil
}
