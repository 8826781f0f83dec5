package daemon

import (
	"time"

	"filmstrip/internal/job"
)

// RenderRequest is the job descriptor accepted by POST /api/v1/jobs.
type RenderRequest struct {
	JobID         string           `json:"jobId"`
	Segments      []map[string]any `json:"segments"`
	Resolution    string           `json:"resolution,omitempty"`
	SubtitleStyle string           `json:"subtitleStyle,omitempty"`
}

// RenderResponse reports a published render.
type RenderResponse struct {
	JobID string `json:"jobId"`
	URL   string `json:"url"`
}

// ErrorResponse is the failure payload. WorkspacePath is only populated
// outside production.
type ErrorResponse struct {
	Error         string `json:"error"`
	WorkspacePath string `json:"workspacePath,omitempty"`
}

// JobView is the API projection of a tracked job.
type JobView struct {
	JobID           string     `json:"jobId"`
	Status          string     `json:"status"`
	ProgressPercent float64    `json:"progressPercent"`
	ProgressMessage string     `json:"progressMessage,omitempty"`
	SegmentCount    int        `json:"segmentCount"`
	Resolution      string     `json:"resolution"`
	URL             string     `json:"url,omitempty"`
	StorageKey      string     `json:"storageKey,omitempty"`
	Error           string     `json:"error,omitempty"`
	FallbackUsed    bool       `json:"fallbackUsed,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// JobListResponse wraps GET /api/v1/jobs.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

// HealthCheckView is one component's readiness in the health payload.
type HealthCheckView struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse aggregates component readiness.
type HealthResponse struct {
	Status  string            `json:"status"`
	Uptime  int64             `json:"uptimeSeconds"`
	Checks  []HealthCheckView `json:"checks"`
	Version string            `json:"version"`
}

// VersionResponse wraps GET /api/v1/version.
type VersionResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// ViewFromJob projects a job record into its API shape.
func ViewFromJob(j job.Job) JobView {
	return JobView{
		JobID:           j.ID,
		Status:          string(j.Status),
		ProgressPercent: j.ProgressPercent,
		ProgressMessage: j.ProgressMessage,
		SegmentCount:    j.SegmentCount,
		Resolution:      j.Resolution,
		URL:             j.OutputURL,
		StorageKey:      j.StorageKey,
		Error:           j.ErrorMessage,
		FallbackUsed:    j.FallbackUsed,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
		CompletedAt:     j.CompletedAt,
	}
}
