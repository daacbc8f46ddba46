package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/netkeep-go/internal/core/domain"
	"github.com/yndnr/netkeep-go/internal/server/daemon"
	"github.com/yndnr/netkeep-go/internal/telemetry/logger"
	"github.com/yndnr/netkeep-go/internal/telemetry/metric"
)

// fakeApp implements App with canned answers and records calls.
type fakeApp struct {
	status   daemon.Status
	scan     []domain.ScanResult
	scanErr  error
	saved    []domain.SavedNetwork
	settings map[string]string

	connectErr error
	changeErr  error
	connected  string
	touched    time.Time
	resets     int
}

func newFakeApp() *fakeApp {
	return &fakeApp{settings: map[string]string{"hotspot.ssid": "NetKeep"}}
}

func (f *fakeApp) Status(context.Context) daemon.Status { return f.status }

func (f *fakeApp) Scan(context.Context) ([]domain.ScanResult, error) { return f.scan, f.scanErr }

func (f *fakeApp) SavedNetworks() []domain.SavedNetwork {
	out := make([]domain.SavedNetwork, len(f.saved))
	copy(out, f.saved)
	return out
}

func (f *fakeApp) AddSavedNetwork(ssid, password string, priority *int) error {
	f.saved = append(f.saved, domain.SavedNetwork{SSID: ssid, Password: password, Priority: priority})
	return nil
}

func (f *fakeApp) RemoveSavedNetwork(ssid string) error {
	for i, n := range f.saved {
		if n.SSID == ssid {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrNetworkNotFound.WithDetails(ssid)
}

func (f *fakeApp) ConnectSaved(context.Context) (string, error) {
	if len(f.saved) == 0 {
		return "", domain.ErrNoSavedNetwork
	}
	return f.saved[0].SSID, nil
}

func (f *fakeApp) Connect(_ context.Context, ssid, _ string) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = ssid
	return nil
}

func (f *fakeApp) Disconnect(context.Context) error {
	f.connected = ""
	return nil
}

func (f *fakeApp) ChangeHotspotPassword(_ context.Context, password string) error {
	if len(password) < 8 {
		return domain.ErrInvalidArgument.WithDetails("hotspot password must be 8 to 63 characters")
	}
	return f.changeErr
}

func (f *fakeApp) GetSetting(path string) (daemon.SettingValue, error) {
	if v, ok := f.settings[path]; ok {
		return daemon.SettingValue{Path: path, Value: &v}, nil
	}
	if path == "hotspot" {
		return daemon.SettingValue{Path: path, Keys: []string{"ssid"}}, nil
	}
	return daemon.SettingValue{Path: path}, domain.ErrMissingData.WithDetails(path)
}

func (f *fakeApp) SetSetting(path string, value any) error {
	if path == "" {
		return domain.ErrMissingArgument.WithDetails("settings path")
	}
	f.settings[path] = toString(value)
	return nil
}

func (f *fakeApp) SettingsSnapshot() map[string]string {
	out := make(map[string]string, len(f.settings))
	for k, v := range f.settings {
		out[k] = v
	}
	return out
}

func (f *fakeApp) ResetSettings() error {
	f.resets++
	return nil
}

func (f *fakeApp) TouchActivity() time.Time {
	f.touched = time.Unix(1700000000, 0).UTC()
	return f.touched
}

func toString(v any) string {
	b, _ := json.Marshal(v)
	return strings.Trim(string(b), `"`)
}

func newTestHandler(app *fakeApp) *Handler {
	return New(app, metric.NewRegistry(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req = req.WithContext(logger.WithRequestID(req.Context(), "req-test"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func decodeData(t *testing.T, resp Response, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(newFakeApp())
	rec, resp := do(t, h, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, CodeOK, resp.Code)
	require.Equal(t, "req-test", resp.RequestID)
	require.NotZero(t, resp.Timestamp)

	var data HealthResponse
	decodeData(t, resp, &data)
	require.Equal(t, "healthy", data.Status)
}

func TestHandleStatus(t *testing.T) {
	app := newFakeApp()
	app.status.State = domain.StateHotspotActive
	app.status.Platform = "linux"
	app.status.SettingsDirty = true

	rec, resp := do(t, newTestHandler(app), http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data map[string]any
	decodeData(t, resp, &data)
	require.Equal(t, "HOTSPOT_ACTIVE", data["state"])
	require.Equal(t, "linux", data["platform"])
	require.Equal(t, true, data["settings_dirty"])
}

func TestHandleScan(t *testing.T) {
	app := newFakeApp()
	h := newTestHandler(app)

	rec, resp := do(t, h, http.MethodGet, "/v1/wifi/scan", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"networks":[]}`, string(resp.Data))

	app.scan = []domain.ScanResult{{SSID: "home", SignalPercent: 80, SignalDBm: -60}}
	_, resp = do(t, h, http.MethodGet, "/v1/wifi/scan", nil)
	var data ScanResponse
	decodeData(t, resp, &data)
	require.Len(t, data.Networks, 1)
	require.Equal(t, "home", data.Networks[0].SSID)

	app.scanErr = domain.ErrCommandTimeout.WithDetails("iwlist wlan0 scan")
	rec, resp = do(t, h, http.MethodGet, "/v1/wifi/scan", nil)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	require.Equal(t, "NK-CMD-5041", resp.Code)
	require.Equal(t, "NK-CMD-5041", rec.Header().Get("X-Error-Code"))
}

func TestSavedNetworks_Lifecycle(t *testing.T) {
	app := newFakeApp()
	h := newTestHandler(app)

	rec, resp := do(t, h, http.MethodPost, "/v1/wifi/saved",
		AddSavedNetworkRequest{SSID: "home", Password: "secret", Priority: domain.IntPtr(1)})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotContains(t, string(resp.Data), "secret")

	rec, resp = do(t, h, http.MethodGet, "/v1/wifi/saved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, string(resp.Data), "secret")
	var list SavedNetworksResponse
	decodeData(t, resp, &list)
	require.Len(t, list.Networks, 1)
	require.Equal(t, 1, *list.Networks[0].Priority)

	rec, resp = do(t, h, http.MethodPost, "/v1/wifi/saved/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var conn ConnectResponse
	decodeData(t, resp, &conn)
	require.Equal(t, "home", conn.SSID)

	rec, _ = do(t, h, http.MethodDelete, "/v1/wifi/saved/home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = do(t, h, http.MethodDelete, "/v1/wifi/saved/home", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, domain.ErrNetworkNotFound.Code, resp.Code)
	require.Equal(t, "home", resp.Details)

	rec, resp = do(t, h, http.MethodPost, "/v1/wifi/saved/connect", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, domain.ErrNoSavedNetwork.Code, resp.Code)
}

func TestAddSaved_Validation(t *testing.T) {
	h := newTestHandler(newFakeApp())

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing ssid", AddSavedNetworkRequest{Password: "pw"}, domain.ErrMissingArgument.Code},
		{"missing password", AddSavedNetworkRequest{SSID: "home"}, domain.ErrMissingArgument.Code},
		{"not json", "nope", domain.ErrInvalidArgument.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, h, http.MethodPost, "/v1/wifi/saved", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestConnectAndDisconnect(t *testing.T) {
	app := newFakeApp()
	h := newTestHandler(app)

	rec, _ := do(t, h, http.MethodPost, "/v1/wifi/connect", ConnectRequest{SSID: "home", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "home", app.connected)

	rec, _ = do(t, h, http.MethodPost, "/v1/wifi/connect", ConnectRequest{Password: "pw"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	app.connectErr = domain.ErrCommandFailure.WithDetails("nmcli device wifi connect x")
	rec, resp := do(t, h, http.MethodPost, "/v1/wifi/connect", ConnectRequest{SSID: "x", Password: "pw"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "NK-CMD-5021", resp.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/wifi/disconnect", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, app.connected)
}

func TestHotspotPassword(t *testing.T) {
	h := newTestHandler(newFakeApp())

	rec, resp := do(t, h, http.MethodPost, "/v1/hotspot/password", HotspotPasswordRequest{Password: "short"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, domain.ErrInvalidArgument.Code, resp.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/hotspot/password", HotspotPasswordRequest{Password: "longenough"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSettings(t *testing.T) {
	app := newFakeApp()
	h := newTestHandler(app)

	rec, resp := do(t, h, http.MethodGet, "/v1/settings?path=hotspot.ssid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var v daemon.SettingValue
	decodeData(t, resp, &v)
	require.Equal(t, "NetKeep", *v.Value)

	rec, resp = do(t, h, http.MethodGet, "/v1/settings?path=hotspot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v = daemon.SettingValue{}
	decodeData(t, resp, &v)
	require.Nil(t, v.Value)
	require.Equal(t, []string{"ssid"}, v.Keys)

	rec, _ = do(t, h, http.MethodGet, "/v1/settings?path=nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = do(t, h, http.MethodGet, "/v1/settings/dump", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dump map[string]string
	decodeData(t, resp, &dump)
	require.Equal(t, "NetKeep", dump["hotspot.ssid"])

	rec, resp = do(t, h, http.MethodPut, "/v1/settings", map[string]any{"path": "display.brightness", "value": 40})
	require.Equal(t, http.StatusOK, rec.Code)
	v = daemon.SettingValue{}
	decodeData(t, resp, &v)
	require.Equal(t, "40", *v.Value)

	rec, _ = do(t, h, http.MethodPut, "/v1/settings", map[string]any{"path": "a"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/v1/settings", map[string]any{"path": "a", "value": map[string]any{"b": 1}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/v1/settings", map[string]any{"path": "", "value": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/v1/settings/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, app.resets)
}

func TestActivity(t *testing.T) {
	app := newFakeApp()
	rec, resp := do(t, newTestHandler(app), http.MethodPost, "/v1/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data ActivityResponse
	decodeData(t, resp, &data)
	require.True(t, app.touched.Equal(data.LastActivity))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(newFakeApp())
	rec, _ := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(newFakeApp())
	rec, _ := do(t, h, http.MethodDelete, "/v1/status", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := map[string]int{
		"NK-ARG-4001":  http.StatusBadRequest,
		"NK-ARG-4002":  http.StatusBadRequest,
		"NK-WIFI-4041": http.StatusNotFound,
		"NK-CFG-4041":  http.StatusNotFound,
		"NK-SYS-4290":  http.StatusTooManyRequests,
		"NK-CMD-5010":  http.StatusNotImplemented,
		"NK-CMD-5021":  http.StatusBadGateway,
		"NK-CMD-5041":  http.StatusGatewayTimeout,
		"NK-SYS-5000":  http.StatusInternalServerError,
		"garbage":      http.StatusInternalServerError,
		"NK-X-12":      http.StatusInternalServerError,
		"NK-X-2000":    http.StatusInternalServerError,
	}
	for code, want := range tests {
		require.Equal(t, want, errorCodeToHTTPStatus(code), code)
	}
}

func TestHandleServiceError_Generic(t *testing.T) {
	app := newFakeApp()
	app.scanErr = io.ErrUnexpectedEOF
	h := newTestHandler(app)

	rec, resp := do(t, h, http.MethodGet, "/v1/wifi/scan", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, domain.ErrInternal.Code, resp.Code)
}
