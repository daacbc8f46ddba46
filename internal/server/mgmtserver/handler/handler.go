package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/server/daemon"
	"github.com/yndnr/netkeep-go/internal/telemetry/logger"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// App is the daemon surface the API drives. *daemon.App implements it.
type App interface {
	Status(ctx context.Context) daemon.Status
	Scan(ctx context.Context) ([]domain.ScanResult, error)
	SavedNetworks() []domain.SavedNetwork
	AddSavedNetwork(ssid, password string, priority *int) error
	RemoveSavedNetwork(ssid string) error
	ConnectSaved(ctx context.Context) (string, error)
	Connect(ctx context.Context, ssid, password string) error
	Disconnect(ctx context.Context) error
	ChangeHotspotPassword(ctx context.Context, password string) error
	GetSetting(path string) (daemon.SettingValue, error)
	SetSetting(path string, value any) error
	SettingsSnapshot() map[string]string
	ResetSettings() error
	TouchActivity() time.Time
}

var _ App = (*daemon.App)(nil)

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	app     App
	metrics *metric.Registry
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New creates a new Handler. A nil metrics registry disables /metrics.
func New(app App, metrics *metric.Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		app:     app,
		metrics: metrics,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /v1/status", h.handleStatus)

	// Wi-Fi endpoints
	h.mux.HandleFunc("GET /v1/wifi/scan", h.handleScan)
	h.mux.HandleFunc("GET /v1/wifi/saved", h.handleListSaved)
	h.mux.HandleFunc("POST /v1/wifi/saved", h.handleAddSaved)
	h.mux.HandleFunc("DELETE /v1/wifi/saved/{ssid}", h.handleRemoveSaved)
	h.mux.HandleFunc("POST /v1/wifi/saved/connect", h.handleConnectSaved)
	h.mux.HandleFunc("POST /v1/wifi/connect", h.handleConnect)
	h.mux.HandleFunc("POST /v1/wifi/disconnect", h.handleDisconnect)
	h.mux.HandleFunc("POST /v1/hotspot/password", h.handleHotspotPassword)

	// Settings endpoints
	h.mux.HandleFunc("GET /v1/settings", h.handleGetSetting)
	h.mux.HandleFunc("PUT /v1/settings", h.handleSetSetting)
	h.mux.HandleFunc("GET /v1/settings/dump", h.handleDumpSettings)
	h.mux.HandleFunc("POST /v1/settings/reset", h.handleResetSettings)

	h.mux.HandleFunc("POST /v1/activity", h.handleActivity)

	if h.metrics != nil {
		h.mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// getRequestID extracts the request ID set by the RequestID middleware.
func getRequestID(r *http.Request) string {
	if reqID := logger.RequestIDFromContext(r.Context()); reqID != "" {
		return reqID
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status := errorCodeToHTTPStatus(de.Code)
		if status >= 500 {
			h.logger.Warn("request failed", "request_id", getRequestID(r), "error", err)
		}
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, status, de.Code, de.Message, details)
		return
	}

	// Generic internal error
	h.logger.Error("internal error", "request_id", getRequestID(r), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, "internal server error", nil)
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes. The first
// three digits of the numeric part are the status.
func errorCodeToHTTPStatus(code string) int {
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i-1 < 3 {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(code[i+1 : i+4])
	if err != nil || status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

// decodeJSON reads a bounded JSON body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code,
			"invalid request body", err.Error())
		return false
	}
	return true
}
