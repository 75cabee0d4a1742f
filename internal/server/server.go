package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/staywise/helpdesk/internal/analytics"
	"github.com/staywise/helpdesk/internal/notify"
	"github.com/staywise/helpdesk/internal/pipeline"
	"github.com/staywise/helpdesk/internal/storage"
	"go.uber.org/zap"
)

// Server exposes the helpdesk HTTP API: ticket CRUD, dashboard lists, the
// analytics snapshot, and the SSE processing stream.
type Server struct {
	store    storage.Storage
	runner   *pipeline.Runner
	stats    *analytics.Snapshotter
	notifier notify.Notifier // nil when no channel is configured
	logger   *zap.Logger
}

func New(store storage.Storage, runner *pipeline.Runner, stats *analytics.Snapshotter, notifier notify.Notifier, logger *zap.Logger) *Server {
	return &Server{
		store:    store,
		runner:   runner,
		stats:    stats,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/tickets", s.handleCreateTicket)
	mux.HandleFunc("GET /api/tickets", s.handleListTickets)
	mux.HandleFunc("GET /api/tickets/{id}", s.handleGetTicket)
	mux.HandleFunc("PATCH /api/tickets/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("GET /api/tickets/{id}/process", s.handleProcessTicket)
	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// storageStatus maps a storage error to the right HTTP status.
func storageStatus(err error) int {
	if errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
