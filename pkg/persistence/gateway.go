/*
Package persistence implements the gateway between the in-memory dialogue
graph and its durable blob form.

The gateway owns corruption recovery and version stamping: a missing or
unreadable blob degrades to a fresh empty graph with a diagnostic, individual
invalid nodes are dropped with a warning while the rest of the graph loads,
and every save refreshes the metadata stamp and integrity checksum before a
single atomic write.
*/
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/ports"
)

// Document is the unit the gateway loads and saves: the whole graph plus its
// blob-level metadata and authoring config. It crosses process runs as one
// atomic blob; the editor and player never share it live.
type Document struct {
	Meta  domain.Meta
	Cfg   domain.Config
	Nodes domain.Graph
}

// NewDocument returns a fresh empty document created at now.
func NewDocument(now time.Time) *Document {
	return &Document{
		Meta:  domain.NewMeta(now),
		Cfg:   domain.DefaultConfig(),
		Nodes: domain.Graph{},
	}
}

// Gateway persists Documents through a BlobStore.
type Gateway struct {
	store  ports.BlobStore
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Gateway)

// WithLogger sets the structured logger used for load/save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New creates a gateway over the given blob store.
func New(store ports.BlobStore, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load deserializes the stored blob into a Document.
//
// A missing or empty blob is not an error: the caller gets a fresh empty
// document. A blob that cannot be deserialized at all is reported as a
// corrupt-blob warning and likewise recovered with a fresh document. Nodes
// that fail validation after normalization are dropped with a per-node
// warning; the rest of the graph loads normally.
func (g *Gateway) Load(ctx context.Context) (*Document, []domain.Warning, error) {
	data, err := g.store.Read(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrBlobNotFound) {
			return NewDocument(g.now()), nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read blob: %w", err)
	}

	var stored blob
	if err := json.Unmarshal(data, &stored); err != nil {
		w := domain.Warning{
			Code:   domain.WarnCorruptBlob,
			Detail: fmt.Sprintf("%v: %v", domain.ErrCorruptBlob, err),
		}
		g.logger.Warn("recovering from corrupt blob with a fresh graph", "err", err)
		return NewDocument(g.now()), []domain.Warning{w}, nil
	}

	var warnings []domain.Warning

	if stored.Meta.Checksum != "" {
		sum, err := nodesChecksum(stored.Nodes)
		if err == nil && sum != stored.Meta.Checksum {
			warnings = append(warnings, domain.Warning{
				Code:   domain.WarnChecksumMismatch,
				Detail: "stored checksum does not match node content",
			})
			g.logger.Warn("blob checksum mismatch", "stored", stored.Meta.Checksum, "computed", sum)
		}
	}

	doc := &Document{
		Meta:  stored.Meta,
		Cfg:   stored.Cfg.Normalized(),
		Nodes: make(domain.Graph, len(stored.Nodes)),
	}
	if doc.Meta.Version == "" {
		doc.Meta.Version = domain.FormatVersion
	}

	for key, wn := range stored.Nodes {
		node, nodeWarnings := domain.Normalize(decodeNode(key, wn), doc.Cfg.ExitLabel)
		warnings = append(warnings, nodeWarnings...)

		if err := domain.Validate(node); err != nil {
			warnings = append(warnings, domain.Warning{
				Code:   domain.WarnNodeDropped,
				NodeID: key,
				Detail: err.Error(),
			})
			g.logger.Warn("dropping invalid node at load", "node", key, "err", err)
			continue
		}
		doc.Nodes[node.ID] = &node
	}

	for _, w := range warnings {
		g.logger.Warn("load diagnostic", "code", string(w.Code), "node", w.NodeID, "detail", w.Detail)
	}

	return doc, warnings, nil
}

// Save serializes the document and writes it as a single blob.
//
// Meta.Updated is refreshed to the current time and the version tag and nodes
// checksum are restamped. The write is atomic from the caller's point of
// view; on failure the previous blob remains intact.
func (g *Gateway) Save(ctx context.Context, doc *Document) error {
	nodes := encodeNodes(doc.Nodes)

	sum, err := nodesChecksum(nodes)
	if err != nil {
		return err
	}

	doc.Meta.Version = domain.FormatVersion
	doc.Meta.Updated = g.now()
	doc.Meta.Checksum = sum
	if doc.Meta.Created.IsZero() {
		doc.Meta.Created = doc.Meta.Updated
	}

	data, err := json.Marshal(blob{
		Meta:  doc.Meta,
		Cfg:   doc.Cfg.Normalized(),
		Nodes: nodes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal blob: %w", err)
	}

	if err := g.store.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	g.logger.Debug("graph saved", "nodes", len(doc.Nodes), "bytes", len(data))
	return nil
}
