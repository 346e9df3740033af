// Package middleware provides BlobStore wrappers that add behavior between
// the persistence gateway and a backend.
package middleware

import "github.com/parley-dev/parley/pkg/ports"

// Middleware wraps a BlobStore to add behavior.
type Middleware func(ports.BlobStore) ports.BlobStore

// Chain applies middlewares so the first one listed sees reads and writes
// first.
func Chain(store ports.BlobStore, mws ...Middleware) ports.BlobStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
