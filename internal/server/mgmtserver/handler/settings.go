package handler

import (
	"net/http"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// handleGetSetting handles GET /v1/settings?path=a.b.
func (h *Handler) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	v, err := h.app.GetSetting(r.URL.Query().Get("path"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, v)
}

// handleSetSetting handles PUT /v1/settings.
func (h *Handler) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req SetSettingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Value == nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code, "value is required", nil)
		return
	}
	switch req.Value.(type) {
	case map[string]any, []any:
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"value must be a scalar", nil)
		return
	}

	if err := h.app.SetSetting(req.Path, req.Value); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	v, err := h.app.GetSetting(req.Path)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, v)
}

// handleDumpSettings handles GET /v1/settings/dump.
func (h *Handler) handleDumpSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.app.SettingsSnapshot())
}

// handleResetSettings handles POST /v1/settings/reset.
func (h *Handler) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ResetSettings(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"reset": true})
}
