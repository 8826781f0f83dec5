package job

import (
	"strings"
	"time"

	"filmstrip/internal/segment"
)

// Status represents the lifecycle of a render job.
type Status string

const (
	StatusReceived           Status = "received"
	StatusNormalizing        Status = "normalizing"
	StatusFetching           Status = "fetching"
	StatusSubtitleProcessing Status = "subtitle-processing"
	StatusValidating         Status = "validating"
	StatusComposingFast      Status = "composing-fast"
	StatusComposingFallback  Status = "composing-fallback"
	StatusPublishing         Status = "publishing"
	StatusCleanup            Status = "cleanup"
	StatusDone               Status = "done"
	StatusFailed             Status = "failed"
)

// DaemonStopReason is the error message set when jobs are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusReceived,
	StatusNormalizing,
	StatusFetching,
	StatusSubtitleProcessing,
	StatusValidating,
	StatusComposingFast,
	StatusComposingFallback,
	StatusPublishing,
	StatusCleanup,
	StatusDone,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusNormalizing:        {},
	StatusFetching:           {},
	StatusSubtitleProcessing: {},
	StatusValidating:         {},
	StatusComposingFast:      {},
	StatusComposingFallback:  {},
	StatusPublishing:         {},
	StatusCleanup:            {},
}

// Job represents one render request tracked by the daemon. Stages read and
// write the working fields as the job advances; the registry serves copies
// to the API.
type Job struct {
	ID               string
	RequestID        string
	Resolution       string
	SubtitleStyle    string
	SubtitleLanguage string
	SegmentCount     int
	Status           Status
	ProgressPercent  float64
	ProgressMessage  string
	OutputURL        string
	StorageKey       string
	ErrorMessage     string
	WorkspaceDir     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time

	// Working state, populated as stages execute.
	RawSegments  []map[string]any
	Segments     []segment.Segment
	RenderedFile string
	FallbackUsed bool
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (j Job) IsProcessing() bool {
	return IsProcessingStatus(j.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether the status is a final state.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// SetProgress updates both progress fields atomically.
func (j *Job) SetProgress(message string, percent float64) {
	j.ProgressMessage = message
	j.ProgressPercent = percent
}

// SetFailed marks the job as failed with the given error message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.ProgressPercent = 0
	j.ProgressMessage = message
}

// SetDone marks the job as successfully completed with its published artifact.
func (j *Job) SetDone(url, storageKey string, completedAt time.Time) {
	j.Status = StatusDone
	j.OutputURL = url
	j.StorageKey = storageKey
	j.ProgressPercent = 100
	j.ProgressMessage = "published"
	j.ErrorMessage = ""
	j.CompletedAt = &completedAt
}
