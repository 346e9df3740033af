package parley

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/parley-dev/parley/internal/config"
	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/pkg/adapters/file"
	"github.com/parley-dev/parley/pkg/adapters/memory"
	"github.com/parley-dev/parley/pkg/adapters/redis"
	"github.com/parley-dev/parley/pkg/adapters/sqlite"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/editor"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/persistence"
	"github.com/parley-dev/parley/pkg/persistence/middleware"
	"github.com/parley-dev/parley/pkg/playback"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/parley-dev/parley/pkg/registry"
)

// Version is the library version reported by the CLI.
const Version = "0.1.0"

// Project is the high-level entry point: a project directory with its
// config, store, and loaded document, from which wired editors and players
// are built.
type Project struct {
	cfg      config.Config
	store    ports.BlobStore
	gateway  *persistence.Gateway
	doc      *persistence.Document
	warnings []domain.Warning

	callbacks *registry.Registry
	notifier  ports.Notifier
	presence  ports.Presence
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the structured logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStore injects a blob store, bypassing the config-selected backend.
func WithStore(store ports.BlobStore) Option {
	return func(p *Project) {
		p.store = store
	}
}

// WithConfig overrides the on-disk configuration entirely.
func WithConfig(cfg config.Config) Option {
	return func(p *Project) {
		p.cfg = cfg
	}
}

// WithNotifier attaches the display collaborator handed to editors and
// players.
func WithNotifier(n ports.Notifier) Option {
	return func(p *Project) {
		if n != nil {
			p.notifier = n
		}
	}
}

// WithPresence sets the availability predicate handed to players.
func WithPresence(pr ports.Presence) Option {
	return func(p *Project) {
		if pr != nil {
			p.presence = pr
		}
	}
}

// WithMetrics attaches a metrics collector shared by all components.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Project) {
		p.metrics = m
	}
}

// Open loads a project from a directory: its parley.yaml (defaults when
// absent), the configured blob store, and the current graph document.
// Recoverable load problems (corrupt blob, dropped nodes) come back through
// Warnings, not as errors.
func Open(dir string, opts ...Option) (*Project, error) {
	p := &Project{
		callbacks: registry.New(),
		notifier:  ports.NopNotifier{},
		presence:  ports.AlwaysPresent,
		logger:    logging.NewNop(),
	}

	cfg, err := config.Load(filepath.Join(dir, config.DefaultFile))
	if err != nil {
		return nil, err
	}
	p.cfg = cfg

	for _, opt := range opts {
		opt(p)
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	if p.store == nil {
		store, err := buildStore(dir, p.cfg.Store)
		if err != nil {
			return nil, err
		}
		p.store = store
	}

	p.gateway = persistence.New(p.store, persistence.WithLogger(p.logger))

	doc, warnings, err := p.gateway.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	doc.Cfg.ExitLabel = p.cfg.ExitLabel
	doc.Cfg.AutosaveDebounce = p.cfg.AutosaveDebounce

	p.doc = doc
	p.warnings = warnings
	p.metrics.SetNodeCount(len(doc.Nodes))
	return p, nil
}

// buildStore selects the blob store backend and layers on encryption when a
// key is configured.
func buildStore(dir string, sc config.StoreConfig) (ports.BlobStore, error) {
	var store ports.BlobStore
	switch sc.Backend {
	case config.BackendFile:
		store = file.New(filepath.Join(dir, sc.Path))
	case config.BackendSQLite:
		s, err := sqlite.New(filepath.Join(dir, sc.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = s
	case config.BackendRedis:
		store = redis.New(sc.Addr, sc.Password, sc.DB)
	case config.BackendMemory:
		store = memory.NewStore()
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}

	if sc.Key != "" {
		key, err := base64.StdEncoding.DecodeString(sc.Key)
		if err != nil {
			return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must decode to 32 bytes, got %d", len(key))
		}
		store = middleware.Chain(store, middleware.NewEncryption(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}
	return store, nil
}

// Config returns the effective project configuration.
func (p *Project) Config() config.Config { return p.cfg }

// Warnings returns the diagnostics collected while loading the document.
func (p *Project) Warnings() []domain.Warning { return p.warnings }

// Graph returns a deep copy of the loaded graph.
func (p *Project) Graph() domain.Graph { return p.doc.Nodes.Clone() }

// Gateway exposes the persistence gateway, e.g. for the check command.
func (p *Project) Gateway() *persistence.Gateway { return p.gateway }

// Store exposes the underlying blob store, e.g. for revision listings.
func (p *Project) Store() ports.BlobStore { return p.store }

// Callbacks returns the registry players consult on answer selection.
func (p *Project) Callbacks() *registry.Registry { return p.callbacks }

// Editor builds an editor over the loaded document.
func (p *Project) Editor(opts ...editor.Option) *editor.Editor {
	base := []editor.Option{
		editor.WithNotifier(p.notifier),
		editor.WithLogger(p.logger),
		editor.WithMetrics(p.metrics),
	}
	return editor.New(p.doc, p.gateway, append(base, opts...)...)
}

// Player loads a fresh graph snapshot from the store and builds a playback
// engine over it. The snapshot is independent of any open editor; unsaved
// edits are invisible to it.
func (p *Project) Player(ctx context.Context, opts ...playback.Option) (*playback.Engine, []domain.Warning, error) {
	doc, warnings, err := p.gateway.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load graph: %w", err)
	}

	base := []playback.Option{
		playback.WithRegistry(p.callbacks),
		playback.WithPresence(p.presence),
		playback.WithNotifier(p.notifier),
		playback.WithLogger(p.logger),
		playback.WithMetrics(p.metrics),
	}
	return playback.New(doc.Nodes, append(base, opts...)...), warnings, nil
}
