package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePublish(); err != nil {
		return err
	}
	if err := c.normalizeAssetCache(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeFetch()
	c.normalizeSubtitles()
	c.normalizeDaemon()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockPath) == "" {
		c.Paths.LockPath = defaultLockPath
	}
	if c.Paths.LockPath, err = expandPath(c.Paths.LockPath); err != nil {
		return fmt.Errorf("paths.lock_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizePublish() error {
	var err error
	if strings.TrimSpace(c.Publish.OutputDir) == "" {
		c.Publish.OutputDir = defaultOutputDir
	}
	if c.Publish.OutputDir, err = expandPath(c.Publish.OutputDir); err != nil {
		return fmt.Errorf("publish.output_dir: %w", err)
	}
	c.Publish.BaseURL = strings.TrimRight(strings.TrimSpace(c.Publish.BaseURL), "/")
	if c.Publish.BaseURL == "" {
		c.Publish.BaseURL = defaultBaseURL
	}
	return nil
}

func (c *Config) normalizeAssetCache() error {
	c.AssetCache.Dir = strings.TrimSpace(c.AssetCache.Dir)
	if c.AssetCache.Dir == "" {
		return nil
	}
	var err error
	if c.AssetCache.Dir, err = expandPath(c.AssetCache.Dir); err != nil {
		return fmt.Errorf("asset_cache.dir: %w", err)
	}
	if c.AssetCache.MaxMiB <= 0 {
		c.AssetCache.MaxMiB = defaultAssetCacheMaxMiB
	}
	if c.AssetCache.MaxAgeDays <= 0 {
		c.AssetCache.MaxAgeDays = defaultAssetCacheAgeDays
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.Resolution = strings.ToLower(strings.TrimSpace(c.Render.Resolution))
	if c.Render.Resolution == "" {
		c.Render.Resolution = defaultResolution
	}
	if c.Render.FrameRate <= 0 {
		c.Render.FrameRate = defaultFrameRate
	}
	if c.Render.SegmentTimeout <= 0 {
		c.Render.SegmentTimeout = defaultSegmentTimeout
	}
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
}

func (c *Config) normalizeFetch() {
	if c.Fetch.Retries < 0 {
		c.Fetch.Retries = defaultFetchRetries
	}
	if c.Fetch.RetryDelayMS <= 0 {
		c.Fetch.RetryDelayMS = defaultFetchRetryDelayMS
	}
	if c.Fetch.RequestTimeout <= 0 {
		c.Fetch.RequestTimeout = defaultFetchTimeout
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
	if c.Subtitles.Language == "" {
		c.Subtitles.Language = defaultSubtitleLanguage
	}
	c.Subtitles.Style = strings.ToLower(strings.TrimSpace(c.Subtitles.Style))
	if c.Subtitles.Style == "" {
		c.Subtitles.Style = defaultSubtitleStyle
	}
	if c.Subtitles.MaxLineChars <= 0 {
		c.Subtitles.MaxLineChars = defaultSubtitleLineChars
	}
}

func (c *Config) normalizeDaemon() {
	c.Daemon.Environment = strings.ToLower(strings.TrimSpace(c.Daemon.Environment))
	if c.Daemon.Environment == "" {
		if value, ok := os.LookupEnv("FILMSTRIP_ENVIRONMENT"); ok {
			c.Daemon.Environment = strings.ToLower(strings.TrimSpace(value))
		}
	}
	if c.Daemon.Environment == "" {
		c.Daemon.Environment = defaultEnvironment
	}
	if c.Daemon.SweepInterval <= 0 {
		c.Daemon.SweepInterval = defaultSweepInterval
	}
	if c.Daemon.WorkspaceMaxAge <= 0 {
		c.Daemon.WorkspaceMaxAge = defaultWorkspaceMaxAge
	}
	if c.Daemon.ShutdownTimeout <= 0 {
		c.Daemon.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Daemon.RecentJobs <= 0 {
		c.Daemon.RecentJobs = defaultRecentJobs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("FILMSTRIP_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
