package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/parley-dev/parley/pkg/adapters/sqlite"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements both port interfaces
var (
	_ ports.BlobStore  = (*sqlite.Store)(nil)
	_ ports.Revisioned = (*sqlite.Store)(nil)
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "parley.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunBlobStoreContract(t, newTestStore(t))
}

func TestSQLiteStore_KeepsRevisionHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	blobs := [][]byte{
		[]byte(`{"rev":"first"}`),
		[]byte(`{"rev":"second"}`),
		[]byte(`{"rev":"third"}`),
	}
	for _, b := range blobs {
		require.NoError(t, store.Write(ctx, b))
	}

	revs, err := store.Revisions(ctx)
	require.NoError(t, err)
	require.Len(t, revs, 3)

	// Oldest first, each readable in full.
	for i, rev := range revs {
		assert.Equal(t, len(blobs[i]), rev.Size)
		data, err := store.ReadRevision(ctx, rev.ID)
		require.NoError(t, err)
		assert.Equal(t, blobs[i], data)
	}

	// Current row tracks the latest write.
	current, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, blobs[2], current)
}

func TestSQLiteStore_UnknownRevision(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ReadRevision(context.Background(), 999)
	assert.ErrorIs(t, err, ports.ErrBlobNotFound)
}

func TestSQLiteStore_ReopenSeesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.db")
	ctx := context.Background()

	first, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, []byte(`{"durable":true}`)))
	require.NoError(t, first.Close())

	second, err := sqlite.New(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	data, err := second.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"durable":true}`), data)
}
