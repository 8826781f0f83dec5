// Package publish defines the artifact publisher port. Adapters place a
// finished render where callers can reach it and report the public URL.
package publish

import (
	"context"

	"filmstrip/internal/textutil"
)

// Result identifies a published artifact.
type Result struct {
	// URL is where callers can fetch the artifact.
	URL string
	// StorageKey is the provider-scoped object key.
	StorageKey string
}

// Publisher stores one finished artifact per job. Publishing the same job ID
// again overwrites the previous artifact.
type Publisher interface {
	Publish(ctx context.Context, localPath, jobID string) (Result, error)
	Provider() string
	HealthCheck(ctx context.Context) error
}

// StorageKey derives the object key for a job. Every adapter uses the same
// derivation so republishing a job lands on the same object.
func StorageKey(jobID string) string {
	name := textutil.SanitizeFileName(jobID)
	if name == "" {
		return ""
	}
	return name + ".mp4"
}
