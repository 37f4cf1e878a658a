// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatusHandler reports the refresh pipeline state.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleGetStatus handles GET /api/status requests.
func (h *StatusHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Status())
}
