package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	LogDir       string `toml:"log_dir"`
	LockPath     string `toml:"lock_path"`
	APIBind      string `toml:"api_bind"`
}

// Render contains the composition engine settings.
type Render struct {
	Resolution     string `toml:"resolution"`
	FrameRate      int    `toml:"frame_rate"`
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	SegmentTimeout int    `toml:"segment_timeout"`
	MaxConcurrent  int    `toml:"max_concurrent"`
}

// Fetch contains the asset download policy. Headers are attached to every
// asset request, for sources that require auth tokens or referer headers.
type Fetch struct {
	Retries        int               `toml:"retries"`
	RetryDelayMS   int               `toml:"retry_delay_ms"`
	RequestTimeout int               `toml:"request_timeout"`
	Headers        map[string]string `toml:"headers"`
}

// Publish contains artifact placement settings for the local filesystem
// publisher.
type Publish struct {
	OutputDir string `toml:"output_dir"`
	BaseURL   string `toml:"base_url"`
}

// Subtitles contains configuration for the SRT generation collaborator.
type Subtitles struct {
	Enabled      bool   `toml:"enabled"`
	Language     string `toml:"language"`
	Style        string `toml:"style"`
	MaxLineChars int    `toml:"max_line_chars"`
}

// AssetCache contains configuration for the downloaded-asset cache. An empty
// dir disables the cache.
type AssetCache struct {
	Dir        string `toml:"dir"`
	MaxMiB     int    `toml:"max_mib"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Daemon contains runtime policy for the filmstripd process.
type Daemon struct {
	Environment     string `toml:"environment"`
	SweepInterval   int    `toml:"sweep_interval"`
	WorkspaceMaxAge int    `toml:"workspace_max_age"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	RecentJobs      int    `toml:"recent_jobs"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	OnSuccess      bool   `toml:"on_success"`
	OnFailure      bool   `toml:"on_failure"`
}

// Config encapsulates all configuration values for filmstrip.
//
// Configuration sections by subsystem:
//   - Paths: workspace/log directories, daemon lock, API bind address
//   - Render: resolution, frame rate, ffmpeg binaries, fallback timeouts
//   - Fetch: asset download retry policy
//   - Publish: artifact output directory and public base URL
//   - Subtitles: SRT generation settings
//   - AssetCache: optional downloaded-asset cache
//   - Daemon: environment gating, background sweeps, shutdown
//   - Logging: log format and level
//   - Notifications: ntfy push notification settings
type Config struct {
	Paths         Paths         `toml:"paths"`
	Render        Render        `toml:"render"`
	Fetch         Fetch         `toml:"fetch"`
	Publish       Publish       `toml:"publish"`
	Subtitles     Subtitles     `toml:"subtitles"`
	AssetCache    AssetCache    `toml:"asset_cache"`
	Daemon        Daemon        `toml:"daemon"`
	Logging       Logging       `toml:"logging"`
	Notifications Notifications `toml:"notifications"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/filmstrip/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filmstrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.LogDir, c.Publish.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.AssetCache.Dir) != "" {
		if err := os.MkdirAll(c.AssetCache.Dir, 0o755); err != nil {
			return fmt.Errorf("create asset cache directory %q: %w", c.AssetCache.Dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for composition.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Render.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Render.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

// IsProduction reports whether failure payloads and workspace retention
// should use the locked-down production behaviour.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Daemon.Environment), "production")
}

// ParseResolution splits a "WxH" resolution string into its dimensions.
func ParseResolution(value string) (int, int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	parts := strings.Split(trimmed, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("resolution %q: want WxH", value)
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: bad width: %w", value, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: bad height: %w", value, err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("resolution %q: dimensions must be positive", value)
	}
	return width, height, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
