package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlobStoreContract runs a suite of tests verifying that a BlobStore
// implementation adheres to the interface contract. Adapter test packages
// call this against their concrete store.
func RunBlobStoreContract(t *testing.T, store BlobStore) {
	ctx := context.Background()

	t.Run("Read before any Write", func(t *testing.T) {
		_, err := store.Read(ctx)
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("Write and Read", func(t *testing.T) {
		payload := []byte(`{"nodes":{}}`)
		require.NoError(t, store.Write(ctx, payload))

		got, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("Write replaces in full", func(t *testing.T) {
		first := []byte(`{"rev":1,"padding":"xxxxxxxxxxxxxxxxxxxxxxxx"}`)
		second := []byte(`{"rev":2}`)
		require.NoError(t, store.Write(ctx, first))
		require.NoError(t, store.Write(ctx, second))

		got, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, second, got, "Read must observe the last Write in full")
	})
}
