// Package editor implements incremental graph editing.
//
// An Editor owns one loaded document and mutates it through named operations
// that map one to one onto the edit command surface. Every successful
// mutation marks the document dirty and pushes an update notification to the
// attached display collaborator; persistence happens either explicitly via
// Save or through the cycle counted autosave driven by Tick.
//
// The Editor is not safe for concurrent use. It expects to be driven from a
// single event loop that delivers commands and timer ticks one at a time.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/persistence"
	"github.com/parley-dev/parley/pkg/ports"
)

// Editor holds the in-memory graph and its edit state.
type Editor struct {
	doc     *persistence.Document
	gateway *persistence.Gateway

	notifier ports.Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics

	currentID string
	dirty     bool

	// Whole driver cycles observed since the last mutation. Compared
	// against Config.AutosaveDebounce on each tick.
	cycles int
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier attaches the display collaborator that receives change
// notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Editor) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger used for edit diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// New creates an Editor over a loaded document. The gateway is used for
// explicit and autosave persistence; it may be nil only if Save and Tick are
// never called.
func New(doc *persistence.Document, gateway *persistence.Gateway, opts ...Option) *Editor {
	e := &Editor{
		doc:      doc,
		gateway:  gateway,
		notifier: ports.NopNotifier{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.metrics.SetNodeCount(len(doc.Nodes))
	return e
}

// Current returns the id of the node edits currently target, or "" when no
// node is selected.
func (e *Editor) Current() string { return e.currentID }

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool { return e.dirty }

// Node returns a deep copy of the named node.
func (e *Editor) Node(id string) (domain.Node, bool) {
	n, ok := e.doc.Nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return *n.Clone(), true
}

// Graph returns a deep copy of the whole graph, for read-only consumers.
func (e *Editor) Graph() domain.Graph { return e.doc.Nodes.Clone() }

// Config returns the document configuration.
func (e *Editor) Config() domain.Config { return e.doc.Cfg }

// CreateNode adds a new node with the given id. The node starts with its
// title set to the id and a single default terminal answer, and becomes the
// current node.
func (e *Editor) CreateNode(ctx context.Context, id string) error {
	if id == "" {
		return e.fail(ctx, "new", &domain.ValidationError{Reason: domain.ReasonMissingID})
	}
	if _, exists := e.doc.Nodes[id]; exists {
		return e.fail(ctx, "new", fmt.Errorf("node %q: %w", id, domain.ErrDuplicateID))
	}

	node := domain.NewNode(id, e.doc.Cfg.ExitLabel)
	e.doc.Nodes[id] = node
	e.currentID = id
	e.metrics.SetNodeCount(len(e.doc.Nodes))
	e.commit(ctx, "new", id)
	return nil
}

// DeleteNode removes a node. Answers elsewhere that still point at the
// removed id are reported as dangling reference warnings, one per answer;
// they are never rewritten.
func (e *Editor) DeleteNode(ctx context.Context, id string) ([]domain.Warning, error) {
	if _, exists := e.doc.Nodes[id]; !exists {
		return nil, e.fail(ctx, "del", fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
	}

	delete(e.doc.Nodes, id)
	if e.currentID == id {
		e.currentID = ""
	}

	var warnings []domain.Warning
	for _, ref := range e.doc.Nodes.ReferencesTo(id) {
		w := domain.Warning{
			Code:   domain.WarnDanglingReference,
			NodeID: ref.NodeID,
			Detail: fmt.Sprintf("answer %d still points at deleted node %q", ref.Slot, id),
		}
		warnings = append(warnings, w)
		e.logger.Warn("dangling reference left by delete", "node", ref.NodeID, "slot", ref.Slot, "target", id)
	}

	e.metrics.SetNodeCount(len(e.doc.Nodes))
	e.commit(ctx, "del", id)
	return warnings, nil
}

// SetTitle replaces a node's title. The title must be non-empty.
func (e *Editor) SetTitle(ctx context.Context, id, title string) error {
	node, exists := e.doc.Nodes[id]
	if !exists {
		return e.fail(ctx, "title", fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
	}
	if title == "" {
		return e.fail(ctx, "title", domain.ErrEmptyTitle)
	}

	node.Title = title
	e.commit(ctx, "title", id)
	return nil
}

// SetAnswerText sets the text of the answer in the given 1-based slot.
//
// Slots up to MaxAnswers may be addressed even when they do not exist yet;
// missing slots are filled with empty placeholder answers, each reported as
// a warning. The text itself is not checked for emptiness here; empty
// answers are stripped later by normalization at load time.
func (e *Editor) SetAnswerText(ctx context.Context, id string, slot int, text string) ([]domain.Warning, error) {
	node, exists := e.doc.Nodes[id]
	if !exists {
		return nil, e.fail(ctx, "ans", fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
	}
	if slot < 1 || slot > domain.MaxAnswers {
		return nil, e.fail(ctx, "ans", fmt.Errorf("slot %d: %w", slot, domain.ErrSlotOutOfRange))
	}

	var warnings []domain.Warning
	for len(node.Answers) < slot {
		node.Answers = append(node.Answers, domain.Answer{})
		warnings = append(warnings, domain.Warning{
			Code:   domain.WarnEmptyAnswer,
			NodeID: id,
			Detail: fmt.Sprintf("created empty placeholder answer in slot %d", len(node.Answers)),
		})
		e.logger.Warn("gap-fill created empty answer", "node", id, "slot", len(node.Answers))
	}

	node.Answers[slot-1].Text = text
	e.commit(ctx, "ans", id)
	return warnings, nil
}

// SetAnswerNext points the answer in the given slot at a target node. The
// slot must already exist; unlike SetAnswerText there is no gap-fill. The
// target is not required to resolve yet.
func (e *Editor) SetAnswerNext(ctx context.Context, id string, slot int, target string) error {
	node, err := e.answerSlot(ctx, "next", id, slot)
	if err != nil {
		return err
	}
	node.Answers[slot-1].Next = &target
	e.commit(ctx, "next", id)
	return nil
}

// ClearAnswerNext makes the answer in the given slot terminal.
func (e *Editor) ClearAnswerNext(ctx context.Context, id string, slot int) error {
	node, err := e.answerSlot(ctx, "next", id, slot)
	if err != nil {
		return err
	}
	node.Answers[slot-1].Next = nil
	e.commit(ctx, "next", id)
	return nil
}

// SetAnswerCallback binds a callback name to the answer in the given slot.
// The name is not checked against the registry; unknown names surface as
// warnings at playback time.
func (e *Editor) SetAnswerCallback(ctx context.Context, id string, slot int, name string) error {
	node, err := e.answerSlot(ctx, "fn", id, slot)
	if err != nil {
		return err
	}
	node.Answers[slot-1].Callback = &name
	e.commit(ctx, "fn", id)
	return nil
}

// ClearAnswerCallback removes the callback binding from the answer in the
// given slot.
func (e *Editor) ClearAnswerCallback(ctx context.Context, id string, slot int) error {
	node, err := e.answerSlot(ctx, "fn", id, slot)
	if err != nil {
		return err
	}
	node.Answers[slot-1].Callback = nil
	e.commit(ctx, "fn", id)
	return nil
}

// Select changes the current node without mutating the graph. A fresh
// snapshot of the selected node is pushed to the display collaborator.
func (e *Editor) Select(ctx context.Context, id string) error {
	node, exists := e.doc.Nodes[id]
	if !exists {
		return e.fail(ctx, "select", fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
	}

	e.currentID = id
	e.metrics.RecordEdit("select", observability.EditOK)
	e.notify(ctx, domain.Notification{
		Type:    domain.NotifyUpdateNode,
		ID:      id,
		Payload: node.Clone(),
	})
	return nil
}

// ListNodes emits a summary list of all nodes to the display collaborator
// and returns it, ordered by id.
func (e *Editor) ListNodes(ctx context.Context) []domain.NodeSummary {
	summaries := make([]domain.NodeSummary, 0, len(e.doc.Nodes))
	for _, id := range e.doc.Nodes.IDs() {
		summaries = append(summaries, e.doc.Nodes[id].Summary())
	}

	e.metrics.RecordEdit("list", observability.EditOK)
	e.notify(ctx, domain.Notification{Type: domain.NotifyListNodes, Payload: summaries})
	return summaries
}

// Save persists the document immediately and clears the dirty flag.
func (e *Editor) Save(ctx context.Context) error {
	if err := e.gateway.Save(ctx, e.doc); err != nil {
		e.metrics.RecordEdit("save", observability.EditError)
		return err
	}
	e.dirty = false
	e.cycles = 0
	e.metrics.RecordEdit("save", observability.EditOK)
	e.metrics.RecordSave()
	e.logger.Info("graph saved", "nodes", len(e.doc.Nodes))
	return nil
}

// Tick advances the autosave debounce by one driver cycle.
//
// While the document is dirty, each tick increments a cycle counter; once it
// reaches the configured debounce count the document is saved and both the
// counter and the dirty flag reset. Ticks on a clean document do nothing.
// The returned bool reports whether a save fired.
func (e *Editor) Tick(ctx context.Context) (bool, error) {
	if !e.dirty {
		return false, nil
	}

	e.cycles++
	if e.cycles < e.doc.Cfg.AutosaveDebounce {
		return false, nil
	}

	if err := e.gateway.Save(ctx, e.doc); err != nil {
		e.logger.Error("autosave failed", "err", err)
		return false, err
	}
	e.dirty = false
	e.cycles = 0
	e.metrics.RecordSave()
	e.logger.Debug("autosave", "nodes", len(e.doc.Nodes))
	return true, nil
}

// answerSlot resolves a node and checks that the 1-based slot holds an
// existing answer.
func (e *Editor) answerSlot(ctx context.Context, op, id string, slot int) (*domain.Node, error) {
	node, exists := e.doc.Nodes[id]
	if !exists {
		return nil, e.fail(ctx, op, fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
	}
	if slot < 1 || slot > len(node.Answers) {
		return nil, e.fail(ctx, op, fmt.Errorf("slot %d: %w", slot, domain.ErrSlotDoesNotExist))
	}
	return node, nil
}

// commit records a successful mutation: dirty flag, debounce reset, metrics,
// and the update notification for the affected node.
func (e *Editor) commit(ctx context.Context, op, id string) {
	e.dirty = true
	e.cycles = 0
	e.metrics.RecordEdit(op, observability.EditOK)

	var payload any
	if node, exists := e.doc.Nodes[id]; exists {
		payload = node.Clone()
	}
	e.notify(ctx, domain.Notification{Type: domain.NotifyUpdateNode, ID: id, Payload: payload})
}

func (e *Editor) fail(ctx context.Context, op string, err error) error {
	e.metrics.RecordEdit(op, observability.EditError)
	e.notify(ctx, domain.Notification{
		Type:    domain.NotifyError,
		Payload: domain.ErrorPayload{Message: err.Error()},
	})
	return err
}

func (e *Editor) notify(ctx context.Context, n domain.Notification) {
	e.notifier.Notify(ctx, n)
}
