// Package playback implements the dialogue traversal state machine.
//
// An Engine holds a read-only graph snapshot and walks it one answer at a
// time: Inactive until Start, Presenting while a node is on screen, back to
// Inactive when the dialogue ends. Callbacks bound to answers are dispatched
// through the registry strictly before navigation, and a stack of visited
// node ids is maintained for the whole session.
//
// Like the editor, the Engine expects a single-goroutine driver.
package playback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parley-dev/parley/internal/logging"
	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/observability"
	"github.com/parley-dev/parley/pkg/ports"
	"github.com/parley-dev/parley/pkg/registry"
)

// State is the engine's lifecycle phase.
type State int

const (
	// StateInactive means no dialogue is running.
	StateInactive State = iota
	// StatePresenting means a node is currently offered to the audience.
	StatePresenting
)

func (s State) String() string {
	if s == StatePresenting {
		return "presenting"
	}
	return "inactive"
}

// Engine drives one playback session over a loaded graph.
type Engine struct {
	graph    domain.Graph
	registry *registry.Registry
	presence ports.Presence
	notifier ports.Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics

	state     State
	currentID string
	history   []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the callback registry consulted on answer selection.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithPresence sets the availability predicate polled while presenting.
func WithPresence(p ports.Presence) Option {
	return func(e *Engine) {
		if p != nil {
			e.presence = p
		}
	}
}

// WithNotifier attaches a display collaborator that receives a node snapshot
// each time a new node is presented.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithLogger sets the logger used for playback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an inactive Engine over a graph snapshot. The engine never
// mutates the graph.
func New(graph domain.Graph, opts ...Option) *Engine {
	e := &Engine{
		graph:    graph,
		registry: registry.New(),
		presence: ports.AlwaysPresent,
		notifier: ports.NopNotifier{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle phase.
func (e *Engine) State() State { return e.state }

// Current returns a copy of the node being presented. ok is false while the
// engine is inactive.
func (e *Engine) Current() (domain.Node, bool) {
	if e.state != StatePresenting {
		return domain.Node{}, false
	}
	node, exists := e.graph[e.currentID]
	if !exists {
		return domain.Node{}, false
	}
	return *node.Clone(), true
}

// History returns the visited node ids in visit order. The slice is a copy.
func (e *Engine) History() []string {
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

// Start begins a dialogue at the entry node: the node named "start" when it
// exists, otherwise the lexicographically smallest id. The engine stays
// inactive on an empty graph.
func (e *Engine) Start(ctx context.Context) error {
	if len(e.graph) == 0 {
		return domain.ErrEmptyGraph
	}
	entry, ok := e.graph.Entry()
	if !ok {
		return domain.ErrNoEntryNode
	}

	e.state = StatePresenting
	e.currentID = entry
	e.history = nil
	e.metrics.RecordTransition("start")
	e.logger.Info("dialogue started", "entry", entry)
	e.present(ctx)
	return nil
}

// SelectAnswer consumes the audience's choice of the 1-based answer index on
// the current node.
//
// The answer's callback, if any, is dispatched before navigation. Then the
// answer's link decides the transition: a resolvable target advances the
// dialogue, a missing link ends it normally, and a dangling link ends it
// with ErrDanglingReference. An out-of-range index is rejected with the
// state unchanged. Non-fatal callback diagnostics come back as warnings.
func (e *Engine) SelectAnswer(ctx context.Context, index int) ([]domain.Warning, error) {
	if e.state != StatePresenting {
		return nil, domain.ErrNotPresenting
	}

	node, exists := e.graph[e.currentID]
	if !exists {
		// The graph changed under a stale session id.
		e.end("error")
		return nil, fmt.Errorf("current node %q: %w", e.currentID, domain.ErrDanglingReference)
	}
	if index < 1 || index > len(node.Answers) {
		return nil, fmt.Errorf("index %d of %d: %w", index, len(node.Answers), domain.ErrInvalidAnswerIndex)
	}
	answer := node.Answers[index-1]

	warnings := e.dispatch(ctx, answer)

	e.history = append(e.history, e.currentID)

	if answer.Next == nil {
		e.end("end")
		e.logger.Info("dialogue ended", "at", node.ID)
		return warnings, nil
	}

	target := *answer.Next
	if _, resolvable := e.graph[target]; !resolvable {
		e.end("error")
		e.logger.Warn("dialogue ended by dangling reference", "from", node.ID, "target", target)
		return warnings, fmt.Errorf("answer %d of node %q points at %q: %w",
			index, node.ID, target, domain.ErrDanglingReference)
	}

	e.currentID = target
	e.metrics.RecordTransition("advance")
	e.present(ctx)
	return warnings, nil
}

// Stop ends the session unconditionally and clears the history.
func (e *Engine) Stop() {
	if e.state == StateInactive {
		return
	}
	e.state = StateInactive
	e.currentID = ""
	e.history = nil
	e.metrics.RecordTransition("stop")
	e.logger.Info("dialogue stopped")
}

// Restart stops the current session and starts a fresh one.
func (e *Engine) Restart(ctx context.Context) error {
	e.Stop()
	return e.Start(ctx)
}

// Poll checks the availability predicate and forces a stop when the audience
// is no longer eligible. It reports whether the engine is still presenting
// afterwards. Polling while inactive does nothing.
func (e *Engine) Poll(ctx context.Context) bool {
	if e.state != StatePresenting {
		return false
	}
	if !e.presence.Available(ctx) {
		e.logger.Info("audience unavailable, stopping dialogue")
		e.Stop()
		return false
	}
	return true
}

// dispatch runs the answer's callback, if any, through the registry. Unknown
// names and action failures are reported as warnings; neither blocks
// navigation.
func (e *Engine) dispatch(ctx context.Context, answer domain.Answer) []domain.Warning {
	if answer.Callback == nil {
		return nil
	}
	name := *answer.Callback

	warning, err := e.registry.Dispatch(ctx, name)
	switch {
	case err != nil:
		e.metrics.RecordDispatch(observability.DispatchError)
		e.logger.Error("callback failed", "callback", name, "err", err)
		return []domain.Warning{{
			Code:   domain.WarnCallbackFailed,
			NodeID: e.currentID,
			Detail: err.Error(),
		}}
	case warning != nil:
		e.metrics.RecordDispatch(observability.DispatchUnknown)
		e.logger.Warn("unknown callback", "callback", name, "node", e.currentID)
		w := *warning
		w.NodeID = e.currentID
		return []domain.Warning{w}
	default:
		e.metrics.RecordDispatch(observability.DispatchOK)
		return nil
	}
}

// end leaves Presenting without clearing the history, so callers can still
// inspect the visited path before the next Start or Stop.
func (e *Engine) end(kind string) {
	e.state = StateInactive
	e.currentID = ""
	e.metrics.RecordTransition(kind)
}

func (e *Engine) present(ctx context.Context) {
	node, exists := e.graph[e.currentID]
	if !exists {
		return
	}
	e.notifier.Notify(ctx, domain.Notification{
		Type:    domain.NotifyUpdateNode,
		ID:      e.currentID,
		Payload: node.Clone(),
	})
}
