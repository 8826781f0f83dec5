package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"filmstrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockPath = filepath.Join(base, "filmstripd.lock")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Publish.OutputDir = filepath.Join(base, "artifacts")
	cfgVal.Publish.BaseURL = "http://filmstrip.test/artifacts"
	cfgVal.Render.SegmentTimeout = 5
	cfgVal.Daemon.Environment = "development"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure config directories: %v", err)
	}

	return builder.cfg
}

// WithEnvironment overrides the daemon environment on the test config.
func WithEnvironment(env string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Daemon.Environment = env
	}
}

// WithAssetCache enables the asset cache beneath the test base directory.
func WithAssetCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.AssetCache.Dir = filepath.Join(b.baseDir, "asset-cache")
	}
}

// WithSubtitlesDisabled turns off subtitle generation for the test config.
func WithSubtitlesDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Subtitles.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkspaceDir)
}
