package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yndnr/netkeep-go/internal/infra/buildinfo"
	"github.com/yndnr/netkeep-go/internal/server/mgmtserver/handler"
)

// DefaultTimeout covers the slowest daemon operation, a manual connect.
const DefaultTimeout = 60 * time.Second

// socketHost is the placeholder host used for socket requests.
const socketHost = "http://netkeep"

// Client talks to the management API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client. target is a socket path or an http(s):// URL.
func New(target string) *Client {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return &Client{
			baseURL: strings.TrimRight(target, "/"),
			client:  &http.Client{Timeout: DefaultTimeout},
		}
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", target)
		},
	}
	return &Client{
		baseURL: socketHost,
		client:  &http.Client{Transport: transport, Timeout: DefaultTimeout},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// Error implements error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != nil {
		msg += fmt.Sprintf(": %v", e.Details)
	}
	return msg
}

// Get performs a GET request and decodes the envelope data into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends a request. out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "netkeep-cli/"+buildinfo.Version)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return ParseResponse(resp, out)
}

// ParseResponse unwraps the envelope of resp into target.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env handler.Response
	jsonErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		if jsonErr == nil && env.Code != "" {
			return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message, Details: env.Details}
		}
		return &APIError{
			Status:  resp.StatusCode,
			Code:    fmt.Sprintf("HTTP-%d", resp.StatusCode),
			Message: strings.TrimSpace(string(raw)),
		}
	}
	if jsonErr != nil {
		return fmt.Errorf("parse response: %w", jsonErr)
	}

	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}
