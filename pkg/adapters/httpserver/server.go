// Package httpserver exposes a read/control surface of the formflow engine
// over HTTP, for hosts that render server-side and keep the engine out of
// the page.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/formflow/pkg/domain"
)

// Engine defines the slice of the formflow engine the HTTP surface needs.
type Engine interface {
	ProgressNodes(currentPath string) ([]domain.ProgressNode, error)
	LifecycleState() domain.State
	CurrentSubmission() *domain.Submission
	DestroySession(ctx context.Context) error
}

// Server wires the engine into a chi router.
type Server struct {
	Engine Engine
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine) http.Handler {
	server := &Server{Engine: engine}
	r := chi.NewRouter()

	r.Get("/health", server.Health)
	r.Get("/progress", server.Progress)
	r.Get("/state", server.State)
	r.Delete("/session", server.DestroySession)

	return r
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Progress handles GET /progress?path=<current path>.
func (s *Server) Progress(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.Engine.ProgressNodes(r.URL.Query().Get("path"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Progress error: %v", err), http.StatusConflict)
		return
	}
	writeJSON(w, nodes)
}

// stateResponse is the wire shape of the lifecycle snapshot.
type stateResponse struct {
	Phase           domain.Phase       `json:"phase"`
	Submission      *domain.Submission `json:"submission,omitempty"`
	ProcessingError string             `json:"processingError,omitempty"`
	StartingError   string             `json:"startingError,omitempty"`
	Completed       bool               `json:"completed"`
}

// State handles GET /state.
func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	state := s.Engine.LifecycleState()
	resp := stateResponse{
		Phase:           state.Phase,
		Submission:      state.ActiveSubmission(),
		ProcessingError: state.ProcessingError,
		Completed:       state.Completed(),
	}
	if state.StartingError != nil {
		resp.StartingError = state.StartingError.Error()
	}
	writeJSON(w, resp)
}

// DestroySession handles DELETE /session.
func (s *Server) DestroySession(w http.ResponseWriter, r *http.Request) {
	if err := s.Engine.DestroySession(r.Context()); err != nil {
		http.Error(w, fmt.Sprintf("Destroy error: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing sensible left to do.
		return
	}
}
