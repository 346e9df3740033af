// Package observability collects Prometheus metrics for the engine.
//
// All metrics live under the "parley" namespace. A nil *Metrics is a valid
// no-op collector, so callers never have to guard their recording calls.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes recorded by RecordDispatch.
const (
	DispatchOK      = "ok"
	DispatchUnknown = "unknown"
	DispatchError   = "error"
)

// Edit outcomes recorded by RecordEdit.
const (
	EditOK    = "ok"
	EditError = "error"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	editOps     *prometheus.CounterVec
	saves       prometheus.Counter
	transitions *prometheus.CounterVec
	dispatches  *prometheus.CounterVec
	nodeCount   prometheus.Gauge
}

// New registers the engine metrics with the given registry.
// A nil registry falls back to the Prometheus default registerer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		editOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "edit_operations_total",
			Help:      "Graph edit operations by verb and outcome",
		}, []string{"op", "status"}),
		saves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "saves_total",
			Help:      "Completed graph saves, explicit and autosave",
		}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "playback_transitions_total",
			Help:      "Playback state transitions by kind",
		}, []string{"kind"}), // kind: start, advance, end, stop, error
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "callback_dispatches_total",
			Help:      "Callback dispatches by outcome",
		}, []string{"status"}),
		nodeCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "parley",
			Name:      "graph_nodes",
			Help:      "Number of nodes in the loaded graph",
		}),
	}
}

// RecordEdit counts one edit operation with its outcome.
func (m *Metrics) RecordEdit(op, status string) {
	if m == nil {
		return
	}
	m.editOps.WithLabelValues(op, status).Inc()
}

// RecordSave counts one completed save.
func (m *Metrics) RecordSave() {
	if m == nil {
		return
	}
	m.saves.Inc()
}

// RecordTransition counts one playback transition of the given kind.
func (m *Metrics) RecordTransition(kind string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(kind).Inc()
}

// RecordDispatch counts one callback dispatch with its outcome.
func (m *Metrics) RecordDispatch(status string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(status).Inc()
}

// SetNodeCount sets the current graph size gauge.
func (m *Metrics) SetNodeCount(n int) {
	if m == nil {
		return
	}
	m.nodeCount.Set(float64(n))
}
