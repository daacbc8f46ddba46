package handler

import (
	"encoding/json"
	"time"

	"github.com/yndnr/netkeep-go/internal/core/domain"
)

// CodeOK is the envelope code of every successful response.
const CodeOK = "OK"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
	Details   any             `json:"details,omitempty"` // Additional error details
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	raw, _ := json.Marshal(data)
	return &Response{
		Code:      CodeOK,
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      raw,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ScanResponse is the response body for GET /v1/wifi/scan.
type ScanResponse struct {
	Networks []domain.ScanResult `json:"networks"`
}

// SavedNetworksResponse is the response body for GET /v1/wifi/saved.
// Passwords are never included.
type SavedNetworksResponse struct {
	Networks []domain.SavedNetwork `json:"networks"`
}

// AddSavedNetworkRequest is the request body for POST /v1/wifi/saved.
type AddSavedNetworkRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Priority *int   `json:"priority,omitempty"`
}

// ConnectRequest is the request body for POST /v1/wifi/connect.
type ConnectRequest struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// ConnectResponse reports the network that was joined.
type ConnectResponse struct {
	SSID string `json:"ssid"`
}

// HotspotPasswordRequest is the request body for POST /v1/hotspot/password.
type HotspotPasswordRequest struct {
	Password string `json:"password"`
}

// SetSettingRequest is the request body for PUT /v1/settings.
type SetSettingRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// ActivityResponse is the response body for POST /v1/activity.
type ActivityResponse struct {
	LastActivity time.Time `json:"last_activity"`
}
