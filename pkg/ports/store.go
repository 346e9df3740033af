package ports

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Read when no blob has been written yet.
// Callers treat it as "fresh project", never as a failure.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists the dialogue graph as one opaque blob.
// Write must be atomic from the caller's point of view: a concurrent or
// subsequent Read observes either the previous blob or the new one in full,
// never a partial write.
type BlobStore interface {
	// Read returns the current blob, or ErrBlobNotFound if none exists.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the current blob in a single atomic operation.
	Write(ctx context.Context, data []byte) error
}

// Revisioned is implemented by stores that keep a history of written blobs.
type Revisioned interface {
	// Revisions returns the stored revision tags, oldest first.
	Revisions(ctx context.Context) ([]Revision, error)

	// ReadRevision returns the blob saved under a specific revision id.
	// Returns ErrBlobNotFound for unknown revisions.
	ReadRevision(ctx context.Context, id int64) ([]byte, error)
}

// Revision describes one stored blob version.
type Revision struct {
	ID      int64
	SavedAt string // RFC 3339
	Size    int
}
