// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nxscrypto/bayview-dashboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Snapshot returns the current metrics snapshot and when it was built.
	// Returns an error before the first successful refresh.
	Snapshot() (types.Snapshot, time.Time, error)

	// Status reports the refresh pipeline state and row counts.
	Status() types.Status

	// TriggerRefresh starts a refresh cycle. Returns false when a cycle
	// was already in flight and the trigger was coalesced.
	TriggerRefresh() bool
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	dataHandler      *DataHandler
	refreshHandler   *RefreshHandler
	statusHandler    *StatusHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		dataHandler:      NewDataHandler(deps),
		refreshHandler:   NewRefreshHandler(deps),
		statusHandler:    NewStatusHandler(deps),
		dashboardHandler: newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/data", MetricsMiddleware(s.dataHandler.HandleGetData, "data"))
	mux.HandleFunc("/api/refresh", MetricsMiddleware(s.refreshHandler.HandlePostRefresh, "refresh"))
	mux.HandleFunc("/api/status", MetricsMiddleware(s.statusHandler.HandleGetStatus, "status"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
