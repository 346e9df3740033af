package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parley-dev/parley/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "parley.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.yaml")
	content := `
store:
  backend: redis
  addr: redis.internal:6379
exitLabel: Farewell
unknownKey: ignored
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Store.Addr)
	assert.Equal(t, "Farewell", cfg.ExitLabel)

	def := config.Default()
	assert.Equal(t, def.AutosaveDebounce, cfg.AutosaveDebounce)
	assert.Equal(t, def.TickInterval, cfg.TickInterval)
	assert.Equal(t, def.LogLevel, cfg.LogLevel)
}

func TestLoad_Durations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.yaml")
	content := `
tickInterval: 500ms
pollInterval: 10s
autosaveDebounceInterval: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.TickInterval.Std())
	assert.Equal(t, 10*time.Second, cfg.PollInterval.Std())
	assert.Equal(t, 3, cfg.AutosaveDebounce)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parley.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [not: a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "fax"
	assert.Error(t, cfg.Validate())
}
