// Package http exposes a JSON inspection and interaction API over a loaded
// graph and a server-held playback session.
//
// The graph endpoints are read only; mutation happens through the edit
// surface, never over HTTP. The /interact endpoint accepts the same envelope
// shape the display collaborator uses, so a remote surface can drive
// playback without linking the engine.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parley-dev/parley/pkg/domain"
	"github.com/parley-dev/parley/pkg/playback"
)

// Server serves the inspection API for one loaded graph.
type Server struct {
	graph  domain.Graph
	engine *playback.Engine

	// Serializes engine access: the engine expects single-goroutine
	// delivery, HTTP handlers run concurrently.
	mu sync.Mutex

	metricsHandler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler overrides the /metrics handler, e.g. to scope it to a
// private registry.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.metricsHandler = h
		}
	}
}

// New creates a Server over a graph snapshot and a playback engine built
// from the same snapshot.
func New(graph domain.Graph, engine *playback.Engine, opts ...Option) *Server {
	s := &Server{
		graph:          graph,
		engine:         engine,
		metricsHandler: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.getHealth)
	r.Get("/nodes", s.getNodes)
	r.Get("/nodes/{id}", s.getNode)
	r.Get("/session", s.getSession)
	r.Post("/interact", s.postInteract)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	return r
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getNodes(w http.ResponseWriter, r *http.Request) {
	summaries := make([]domain.NodeSummary, 0, len(s.graph))
	for _, id := range s.graph.IDs() {
		summaries = append(summaries, s.graph[id].Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, exists := s.graph[id]
	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("node %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// sessionResponse is the playback session snapshot returned by /session and
// /interact.
type sessionResponse struct {
	State    string           `json:"state"`
	Node     *domain.Node     `json:"node,omitempty"`
	History  []string         `json:"history"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.snapshot(nil, nil)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postInteract(w http.ResponseWriter, r *http.Request) {
	var envelope domain.Interaction
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid interaction envelope")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch envelope.Type {
	case domain.InteractClickAnswer:
		var payload domain.ClickAnswer
		if err := envelope.DecodePayload(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid clickAnswer payload")
			return
		}
		warnings, err := s.engine.SelectAnswer(r.Context(), payload.Idx)
		writeJSON(w, http.StatusOK, s.snapshot(warnings, err))

	case domain.InteractAction:
		var payload domain.Action
		if err := envelope.DecodePayload(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid action payload")
			return
		}
		s.runAction(w, r, payload)

	case domain.InteractSelectNode:
		// Node selection is an edit-surface concern; over HTTP the
		// session only moves through answers.
		writeError(w, http.StatusUnprocessableEntity, "selectNode is not supported over the inspection API")

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown interaction type %q", envelope.Type))
	}
}

func (s *Server) runAction(w http.ResponseWriter, r *http.Request, payload domain.Action) {
	var err error
	switch payload.Op {
	case "start":
		err = s.engine.Start(r.Context())
	case "stop":
		s.engine.Stop()
	case "restart":
		err = s.engine.Restart(r.Context())
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", payload.Op))
		return
	}
	writeJSON(w, http.StatusOK, s.snapshot(nil, err))
}

// snapshot captures the engine state after an interaction. Callers hold the
// mutex.
func (s *Server) snapshot(warnings []domain.Warning, err error) sessionResponse {
	resp := sessionResponse{
		State:    s.engine.State().String(),
		History:  s.engine.History(),
		Warnings: warnings,
	}
	if node, ok := s.engine.Current(); ok {
		resp.Node = &node
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
