package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleStatus handles GET /v1/status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.app.Status(r.Context()))
}

// handleActivity handles POST /v1/activity.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, ActivityResponse{LastActivity: h.app.TouchActivity()})
}
