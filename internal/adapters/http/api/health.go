// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthProvider) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	WriteJSON(w, http.StatusOK, h.deps.Health(r.Context()))
}
