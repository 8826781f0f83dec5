package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"filmstrip/internal/logging"
	"filmstrip/internal/services"
)

const (
	dirPrefix       = "job-"
	assetsSubdir    = "assets"
	subtitlesSubdir = "subtitles"
	clipsSubdir     = "clips"
)

// Manager allocates and releases job session directories beneath a root.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a workspace manager rooted at root.
func NewManager(root string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{root: root, logger: logger}
}

// Root returns the directory workspaces are allocated under.
func (m *Manager) Root() string {
	return m.root
}

// Session is one job's exclusively-owned scratch directory.
type Session struct {
	JobID string
	Token string
	Dir   string
}

// Allocate creates a fresh session directory for the given job. The
// directory name derives from a generated token, never from the job ID,
// so duplicate IDs remain isolated from each other.
func (m *Manager) Allocate(ctx context.Context, jobID string) (*Session, error) {
	token := uuid.NewString()
	dir := filepath.Join(m.root, dirPrefix+token)

	for _, sub := range []string{assetsSubdir, subtitlesSubdir, clipsSubdir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			_ = os.RemoveAll(dir)
			return nil, services.Wrap(
				services.ErrConfiguration, "workspace", "allocate",
				fmt.Sprintf("failed to create workspace under %s", m.root), err)
		}
	}

	logging.WithContext(ctx, m.logger).Debug("workspace allocated",
		logging.String("path", dir),
		logging.String("token", token))

	return &Session{JobID: jobID, Token: token, Dir: dir}, nil
}

// Release removes the session directory and everything beneath it. It is
// idempotent and never returns an error: removal failures are logged and
// swallowed so cleanup cannot mask a job's primary outcome.
func (m *Manager) Release(sess *Session) {
	if sess == nil || strings.TrimSpace(sess.Dir) == "" {
		return
	}
	if err := os.RemoveAll(sess.Dir); err != nil {
		m.logger.Warn("failed to remove workspace",
			logging.String("path", sess.Dir),
			logging.String(logging.FieldJobID, sess.JobID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check workspace_dir permissions"),
			logging.String(logging.FieldImpact, "disk space not reclaimed"))
		return
	}
	m.logger.Debug("workspace released",
		logging.String("path", sess.Dir),
		logging.String(logging.FieldJobID, sess.JobID))
}

// AssetPath returns the download destination for the segment at index.
// The extension may be supplied with or without a leading dot.
func (s *Session) AssetPath(index int, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	return filepath.Join(s.Dir, assetsSubdir, fmt.Sprintf("segment-%03d.%s", index, ext))
}

// SubtitlesDir returns the directory subtitle files are generated into.
func (s *Session) SubtitlesDir() string {
	return filepath.Join(s.Dir, subtitlesSubdir)
}

// SubtitlePath returns the subtitle file location for the segment at index.
func (s *Session) SubtitlePath(index int, lang string) string {
	return filepath.Join(s.Dir, subtitlesSubdir, fmt.Sprintf("segment-%03d.%s.srt", index, lang))
}

// ClipPath returns the per-segment render location used by the fallback
// composition path.
func (s *Session) ClipPath(index int) string {
	return filepath.Join(s.Dir, clipsSubdir, fmt.Sprintf("segment-%03d.mp4", index))
}

// ConcatListPath returns the concat demuxer list file location.
func (s *Session) ConcatListPath() string {
	return filepath.Join(s.Dir, "concat.txt")
}

// OutputPath returns the final rendered artifact location within the session.
func (s *Session) OutputPath() string {
	return filepath.Join(s.Dir, "output.mp4")
}
