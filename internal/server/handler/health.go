package handler

import (
	"net/http"
	"time"
)

// HealthHandler serves liveness information.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a HealthHandler anchored at process start.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// HealthCheck reports service liveness and uptime.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"started": h.startedAt.UTC(),
	})
}
