package memory_test

import (
	"testing"

	"github.com/parley-dev/parley/pkg/adapters/memory"
	"github.com/parley-dev/parley/pkg/ports"
)

// Ensure Store implements BlobStore
var _ ports.BlobStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunBlobStoreContract(t, memory.NewStore())
}
