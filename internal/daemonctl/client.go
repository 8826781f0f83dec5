// Package daemonctl is the HTTP client the filmstrip CLI uses against a
// running filmstripd API.
package daemonctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"filmstrip/internal/daemon"
	"filmstrip/internal/services"
)

const defaultTimeout = 20 * time.Minute

// Client talks to one filmstripd instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the daemon listening at bind (a host:port or a
// full http URL).
func New(bind string) *Client {
	base := strings.TrimSpace(bind)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		// Renders are synchronous; the submit call holds until publish.
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// APIError carries the daemon's error payload alongside the HTTP status.
type APIError struct {
	StatusCode    int
	Message       string
	WorkspacePath string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daemon returned %d: %s", e.StatusCode, e.Message)
}

// SubmitJob posts a render request and waits for the result.
func (c *Client) SubmitJob(ctx context.Context, req daemon.RenderRequest) (daemon.RenderResponse, error) {
	var resp daemon.RenderResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/jobs", req, &resp)
	return resp, err
}

// ListJobs fetches every tracked job, newest first.
func (c *Client) ListJobs(ctx context.Context) ([]daemon.JobView, error) {
	var resp daemon.JobListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/jobs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// GetJob fetches one job by id.
func (c *Client) GetJob(ctx context.Context, jobID string) (daemon.JobView, error) {
	var resp daemon.JobView
	err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+jobID, nil, &resp)
	return resp, err
}

// Health fetches the daemon's aggregated component readiness.
func (c *Client) Health(ctx context.Context) (daemon.HealthResponse, error) {
	var resp daemon.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &resp)
	return resp, err
}

// Version fetches the daemon build information.
func (c *Client) Version(ctx context.Context) (daemon.VersionResponse, error) {
	var resp daemon.VersionResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/version", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "daemonctl", "request",
			"is filmstripd running? start it or check paths.api_bind", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr daemon.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = strings.TrimSpace(string(data))
		}
		return &APIError{
			StatusCode:    resp.StatusCode,
			Message:       apiErr.Error,
			WorkspacePath: apiErr.WorkspacePath,
		}
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
