// Package http exposes bound variables for inspection over HTTP.
// It is read-only: mutations happen in-process, through the trees themselves.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/syncvar/internal/logging"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/go-chi/chi/v5"
)

// Registry lists bound variables. *syncvar.Binder implements it.
type Registry interface {
	Names() []string
	Lookup(name string) (*proxytree.Node, error)
}

// Server serves the inspection routes.
// Snapshots read the trees without locking, so the host must not mutate them concurrently.
type Server struct {
	Registry Registry
	Journal  ports.Journal
	Metrics  http.Handler
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithJournal enables GET /vars/{name}/changes.
func WithJournal(journal ports.Journal) Option {
	return func(s *Server) {
		s.Journal = journal
	}
}

// WithMetrics mounts a metrics handler (e.g. promhttp) on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the registry.
func NewHandler(reg Registry, opts ...Option) http.Handler {
	server := &Server{
		Registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/vars", server.ListVars)
	r.Get("/vars/{name}", server.GetVar)
	r.Get("/vars/{name}/changes", server.ListChanges)
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// ListVars handles GET /vars.
func (s *Server) ListVars(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string][]string{"variables": s.Registry.Names()})
}

// GetVar handles GET /vars/{name}, returning the enumerable contents of the tree.
func (s *Server) GetVar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	node, err := s.Registry.Lookup(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, node)
}

// ListChanges handles GET /vars/{name}/changes.
func (s *Server) ListChanges(w http.ResponseWriter, r *http.Request) {
	if s.Journal == nil {
		http.Error(w, "no journal configured", http.StatusNotImplemented)
		return
	}

	name := chi.URLParam(r, "name")
	records, err := s.Journal.List(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"variable": name, "records": records})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrVariableNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Error("inspection request failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
