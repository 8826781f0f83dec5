// Package localfs publishes artifacts to a directory on the local
// filesystem, typically one served by the daemon's static file handler.
package localfs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"filmstrip/internal/fileutil"
	"filmstrip/internal/logging"
	"filmstrip/internal/publish"
	"filmstrip/internal/services"
)

// LocalFS implements publish.Publisher against a root directory.
type LocalFS struct {
	root    string
	baseURL string
	logger  *slog.Logger
}

// New returns a publisher that copies artifacts into root and reports URLs
// under baseURL.
func New(root, baseURL string, logger *slog.Logger) *LocalFS {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LocalFS{root: root, baseURL: baseURL, logger: logger}
}

// Provider identifies the adapter.
func (l *LocalFS) Provider() string { return "localfs" }

// Publish copies the artifact into the root under the job's storage key and
// returns its public URL. An existing artifact for the same job is replaced.
func (l *LocalFS) Publish(ctx context.Context, localPath, jobID string) (publish.Result, error) {
	key := publish.StorageKey(jobID)
	if key == "" {
		return publish.Result{}, services.Wrap(services.ErrValidation, "publish", "derive storage key",
			fmt.Sprintf("job id %q contains no usable characters", jobID), nil)
	}

	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return publish.Result{}, services.Wrap(services.ErrConfiguration, "publish", "prepare output dir",
			"cannot create artifact directory", err)
	}
	dst := filepath.Join(l.root, key)
	if err := fileutil.CopyFileVerified(localPath, dst); err != nil {
		return publish.Result{}, services.Wrap(services.ErrConfiguration, "publish", "store artifact",
			fmt.Sprintf("cannot place artifact at %s", dst), err)
	}

	publicURL, err := url.JoinPath(l.baseURL, key)
	if err != nil {
		return publish.Result{}, services.Wrap(services.ErrConfiguration, "publish", "build artifact url",
			fmt.Sprintf("base url %q is not joinable", l.baseURL), err)
	}

	log := logging.WithContext(ctx, l.logger)
	log.Info("artifact published",
		logging.String("storage_key", key),
		logging.String("url", publicURL),
		logging.String("provider", l.Provider()))
	return publish.Result{URL: publicURL, StorageKey: key}, nil
}

// HealthCheck verifies the artifact root exists and is a writable directory.
func (l *LocalFS) HealthCheck(ctx context.Context) error {
	info, err := os.Stat(l.root)
	if err != nil {
		return fmt.Errorf("artifact dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("artifact dir %s is not a directory", l.root)
	}
	probe, err := os.CreateTemp(l.root, ".health-*")
	if err != nil {
		return fmt.Errorf("artifact dir not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
