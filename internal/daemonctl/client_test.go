package daemonctl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmstrip/internal/daemon"
)

func TestSubmitJobRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/jobs" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req daemon.RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.JobID != "job-1" || len(req.Segments) != 1 {
			t.Errorf("unexpected request payload: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(daemon.RenderResponse{JobID: req.JobID, URL: "http://host/job-1.mp4"})
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.SubmitJob(context.Background(), daemon.RenderRequest{
		JobID:    "job-1",
		Segments: []map[string]any{{"imageUrl": "http://x/a.png", "duration": 2}},
	})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}
	if resp.URL != "http://host/job-1.mp4" {
		t.Errorf("URL = %q", resp.URL)
	}
}

func TestSubmitJobSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(daemon.ErrorResponse{
			Error:         "segments list is empty",
			WorkspacePath: "/tmp/job-abc",
		})
	}))
	defer server.Close()

	_, err := New(server.URL).SubmitJob(context.Background(), daemon.RenderRequest{JobID: "job-2"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "segments list is empty" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if apiErr.WorkspacePath != "/tmp/job-abc" {
		t.Errorf("workspace path not carried: %+v", apiErr)
	}
}

func TestBaseURLNormalization(t *testing.T) {
	client := New("127.0.0.1:7985")
	if client.baseURL != "http://127.0.0.1:7985" {
		t.Errorf("baseURL = %q", client.baseURL)
	}
	client = New("http://example.test/")
	if client.baseURL != "http://example.test" {
		t.Errorf("baseURL = %q", client.baseURL)
	}
}
