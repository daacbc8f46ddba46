package connection

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

func envelope(w http.ResponseWriter, status int, resp *handler.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func testMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/settings", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, handler.NewResponse("req-1", map[string]string{"path": r.URL.Query().Get("path")}))
	})
	mux.HandleFunc("POST /v1/wifi/connect", func(w http.ResponseWriter, r *http.Request) {
		var req handler.ConnectRequest
		json.NewDecoder(r.Body).Decode(&req)
		envelope(w, http.StatusOK, handler.NewResponse("req-2", handler.ConnectResponse{SSID: req.SSID}))
	})
	mux.HandleFunc("DELETE /v1/wifi/saved/{ssid}", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusNotFound, handler.NewErrorResponse("req-3", "NK-WIFI-4041", "saved network not found", r.PathValue("ssid")))
	})
	return mux
}

func TestClient_TCP(t *testing.T) {
	srv := httptest.NewServer(testMux())
	defer srv.Close()
	c := New(srv.URL + "/")

	var got map[string]string
	require.NoError(t, c.Get(context.Background(), "/v1/settings", url.Values{"path": {"hotspot.ssid"}}, &got))
	require.Equal(t, "hotspot.ssid", got["path"])

	var conn handler.ConnectResponse
	require.NoError(t, c.Post(context.Background(), "/v1/wifi/connect", handler.ConnectRequest{SSID: "home"}, &conn))
	require.Equal(t, "home", conn.SSID)
}

func TestClient_Socket(t *testing.T) {
	dir, err := os.MkdirTemp("", "nkc")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "nk.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	srv := httptest.NewUnstartedServer(testMux())
	srv.Listener.Close()
	srv.Listener = ln
	srv.Start()
	defer srv.Close()

	var conn handler.ConnectResponse
	require.NoError(t, New(path).Post(context.Background(), "/v1/wifi/connect", handler.ConnectRequest{SSID: "cafe"}, &conn))
	require.Equal(t, "cafe", conn.SSID)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(testMux())
	defer srv.Close()

	err := New(srv.URL).Delete(context.Background(), "/v1/wifi/saved/home", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "NK-WIFI-4041", apiErr.Code)
	require.Equal(t, "[NK-WIFI-4041] saved network not found: home", apiErr.Error())
}

func TestClient_NonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(testMux())
	defer srv.Close()

	err := New(srv.URL).Put(context.Background(), "/v1/wifi/connect", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusMethodNotAllowed, apiErr.Status)
	require.Equal(t, "HTTP-405", apiErr.Code)
}

func TestClient_Unreachable(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "missing.sock")).Get(context.Background(), "/health", nil, nil)
	require.ErrorContains(t, err, "request failed")
}
