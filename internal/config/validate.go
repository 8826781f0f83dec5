package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, _, err := ParseResolution(c.Render.Resolution); err != nil {
		return fmt.Errorf("render.resolution: %w", err)
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 120 {
		return errors.New("render.frame_rate must be between 1 and 120")
	}
	if c.Render.SegmentTimeout <= 0 {
		return errors.New("render.segment_timeout must be positive (seconds)")
	}
	if c.Render.MaxConcurrent < 0 {
		return errors.New("render.max_concurrent must not be negative")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Retries < 0 {
		return errors.New("fetch.retries must not be negative")
	}
	if c.Fetch.RetryDelayMS <= 0 {
		return errors.New("fetch.retry_delay_ms must be positive")
	}
	if c.Fetch.RequestTimeout <= 0 {
		return errors.New("fetch.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if strings.TrimSpace(c.Publish.OutputDir) == "" {
		return errors.New("publish.output_dir must be set")
	}
	if strings.TrimSpace(c.Publish.BaseURL) == "" {
		return errors.New("publish.base_url must be set")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if !c.Subtitles.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Subtitles.Language) == "" {
		return errors.New("subtitles.language must be set when subtitles.enabled is true")
	}
	if c.Subtitles.MaxLineChars <= 0 {
		return errors.New("subtitles.max_line_chars must be positive")
	}
	return nil
}

func (c *Config) validateDaemon() error {
	switch c.Daemon.Environment {
	case "production", "development":
	default:
		return fmt.Errorf("daemon.environment must be production or development, got %q", c.Daemon.Environment)
	}
	for name, value := range map[string]int{
		"daemon.sweep_interval":    c.Daemon.SweepInterval,
		"daemon.workspace_max_age": c.Daemon.WorkspaceMaxAge,
		"daemon.shutdown_timeout":  c.Daemon.ShutdownTimeout,
		"daemon.recent_jobs":       c.Daemon.RecentJobs,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Notifications.NtfyTopic != "" && c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format must be console, json, or auto, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
