// Package http exposes a running engine over a small inspection and
// control API, intended for local development and dashboards.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/pergola"
	"github.com/aretw0/pergola/internal/presentation/graph"
	"github.com/aretw0/pergola/pkg/domain"
)

// Engine defines the navigation surface the server drives.
type Engine interface {
	Navigate(ctx context.Context, target string, trigger domain.Trigger) error
	Prefetch(ctx context.Context, target string) error
	Running() bool
	CurrentPage() *domain.Page
	History() []domain.HistoryEntry
	Transitions() []*domain.Transition
}

// Server wires the engine into HTTP handlers.
type Server struct {
	Engine Engine
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine) http.Handler {
	server := &Server{Engine: engine}
	r := chi.NewRouter()

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/status", server.GetStatus)
	r.Get("/history", server.GetHistory)
	r.Get("/transitions", server.GetTransitions)
	r.Get("/graph", server.GetGraph)
	r.Post("/navigate", server.Navigate)
	r.Post("/prefetch", server.Prefetch)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NavigateRequest is the body for POST /navigate.
type NavigateRequest struct {
	URL string `json:"url"`
}

// PrefetchRequest is the body for POST /prefetch.
type PrefetchRequest struct {
	URL string `json:"url"`
}

// StatusResponse describes the engine's current state.
type StatusResponse struct {
	Running   bool   `json:"running"`
	URL       string `json:"url,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Navigate handles the POST /navigate request.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Navigate: Invalid request body", "error", err)
		return
	}
	if body.URL == "" {
		http.Error(w, "Missing url", http.StatusBadRequest)
		return
	}

	if err := s.Engine.Navigate(r.Context(), body.URL, domain.ScriptTrigger); err != nil {
		if err == domain.ErrTransitionRunning {
			http.Error(w, fmt.Sprintf("Navigate rejected: %v", err), http.StatusConflict)
			return
		}
		http.Error(w, fmt.Sprintf("Navigate error: %v", err), http.StatusInternalServerError)
		slog.Error("Navigate failed", "error", err)
		return
	}

	s.writeStatus(w)
}

// Prefetch handles the POST /prefetch request.
func (s *Server) Prefetch(w http.ResponseWriter, r *http.Request) {
	var body PrefetchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Prefetch: Invalid request body", "error", err)
		return
	}
	if body.URL == "" {
		http.Error(w, "Missing url", http.StatusBadRequest)
		return
	}

	if err := s.Engine.Prefetch(r.Context(), body.URL); err != nil {
		http.Error(w, fmt.Sprintf("Prefetch error: %v", err), http.StatusInternalServerError)
		slog.Error("Prefetch failed", "error", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.writeStatus(w)
}

func (s *Server) writeStatus(w http.ResponseWriter) {
	resp := StatusResponse{Running: s.Engine.Running()}
	if page := s.Engine.CurrentPage(); page != nil {
		resp.URL = page.URL
		resp.Namespace = page.Namespace
		resp.Title = page.Title
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Status response encode failed", "error", err)
	}
}

// GetHistory handles the GET /history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.Engine.History()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		slog.Error("GetHistory response encode failed", "error", err)
	}
}

// GetTransitions handles the GET /transitions request.
func (s *Server) GetTransitions(w http.ResponseWriter, r *http.Request) {
	type rule struct {
		Name   string `json:"name"`
		From   string `json:"from,omitempty"`
		To     string `json:"to,omitempty"`
		Sync   bool   `json:"sync,omitempty"`
		Appear bool   `json:"appear,omitempty"`
	}
	transitions := s.Engine.Transitions()
	rules := make([]rule, len(transitions))
	for i, t := range transitions {
		rules[i] = rule{
			Name:   t.Name,
			From:   t.From.Namespace,
			To:     t.To.Namespace,
			Sync:   t.Sync,
			Appear: t.Appear != nil,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rules); err != nil {
		slog.Error("GetTransitions response encode failed", "error", err)
	}
}

// GetGraph handles the GET /graph request, rendering the transition
// rules as a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if page := s.Engine.CurrentPage(); page != nil {
		overlay = &graph.GraphOverlay{CurrentNamespace: page.Namespace}
		for _, entry := range s.Engine.History() {
			overlay.VisitedNamespaces = append(overlay.VisitedNamespaces, entry.Namespace)
		}
	}

	w.Header().Set("Content-Type", "text/vnd.mermaid")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Transitions(), overlay))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"app":     "pergola-http",
		"version": pergola.Version,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
