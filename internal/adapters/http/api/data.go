// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"
)

// DataHandler serves the full metrics snapshot.
type DataHandler struct {
	deps Dependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps Dependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleGetData handles GET /api/data requests. Before the first
// successful refresh it returns 503 so the frontend can show a loading
// state instead of empty charts.
func (h *DataHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	snapshot, refreshedAt, err := h.deps.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}

	w.Header().Set("X-Last-Refresh", refreshedAt.UTC().Format(time.RFC3339))
	writeJSON(w, http.StatusOK, snapshot)
}
