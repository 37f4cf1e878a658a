// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// RefreshHandler triggers an on-demand refresh cycle.
type RefreshHandler struct {
	deps Dependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps Dependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status    string `json:"status"`
	Coalesced bool   `json:"coalesced"`
}

// HandlePostRefresh handles POST /api/refresh requests. The refresh runs
// in the background; the response only acknowledges the trigger. A 202
// with coalesced=true means a cycle was already running and no new one
// was started.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	started := h.deps.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, refreshResponse{
		Status:    "accepted",
		Coalesced: !started,
	})
}
