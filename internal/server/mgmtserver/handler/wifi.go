package handler

import (
	"net/http"
	"strings"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// handleScan handles GET /v1/wifi/scan.
func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	nets, err := h.app.Scan(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if nets == nil {
		nets = []domain.ScanResult{}
	}
	h.writeJSON(w, r, http.StatusOK, ScanResponse{Networks: nets})
}

// handleListSaved handles GET /v1/wifi/saved.
func (h *Handler) handleListSaved(w http.ResponseWriter, r *http.Request) {
	nets := h.app.SavedNetworks()
	if nets == nil {
		nets = []domain.SavedNetwork{}
	}
	for i := range nets {
		nets[i].Password = ""
	}
	h.writeJSON(w, r, http.StatusOK, SavedNetworksResponse{Networks: nets})
}

// handleAddSaved handles POST /v1/wifi/saved.
func (h *Handler) handleAddSaved(w http.ResponseWriter, r *http.Request) {
	var req AddSavedNetworkRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SSID) == "" || req.Password == "" {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code,
			"ssid and password are required", nil)
		return
	}

	if err := h.app.AddSavedNetwork(req.SSID, req.Password, req.Priority); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, domain.SavedNetwork{SSID: strings.TrimSpace(req.SSID), Priority: req.Priority})
}

// handleRemoveSaved handles DELETE /v1/wifi/saved/{ssid}.
func (h *Handler) handleRemoveSaved(w http.ResponseWriter, r *http.Request) {
	ssid := r.PathValue("ssid")
	if err := h.app.RemoveSavedNetwork(ssid); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ConnectResponse{SSID: ssid})
}

// handleConnectSaved handles POST /v1/wifi/saved/connect.
func (h *Handler) handleConnectSaved(w http.ResponseWriter, r *http.Request) {
	ssid, err := h.app.ConnectSaved(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ConnectResponse{SSID: ssid})
}

// handleConnect handles POST /v1/wifi/connect.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SSID) == "" {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrMissingArgument.Code, "ssid is required", nil)
		return
	}

	if err := h.app.Connect(r.Context(), req.SSID, req.Password); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ConnectResponse{SSID: strings.TrimSpace(req.SSID)})
}

// handleDisconnect handles POST /v1/wifi/disconnect.
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Disconnect(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"hotspot_requested": true})
}

// handleHotspotPassword handles POST /v1/hotspot/password.
func (h *Handler) handleHotspotPassword(w http.ResponseWriter, r *http.Request) {
	var req HotspotPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := h.app.ChangeHotspotPassword(r.Context(), req.Password); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]bool{"changed": true})
}
