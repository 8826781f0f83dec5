package config

const (
	defaultWorkspaceDir       = "~/.local/share/filmstrip/workspace"
	defaultLogDir             = "~/.local/share/filmstrip/logs"
	defaultLockPath           = "~/.local/share/filmstrip/filmstripd.lock"
	defaultOutputDir          = "~/.local/share/filmstrip/artifacts"
	defaultAPIBind            = "127.0.0.1:7985"
	defaultBaseURL            = "http://127.0.0.1:7985/artifacts"
	defaultResolution         = "1280x720"
	defaultFrameRate          = 24
	defaultSegmentTimeout     = 45
	defaultFetchRetries       = 2
	defaultFetchRetryDelayMS  = 500
	defaultFetchTimeout       = 120
	defaultSubtitleLanguage   = "en"
	defaultSubtitleStyle      = "default"
	defaultSubtitleLineChars  = 42
	defaultAssetCacheMaxMiB   = 512
	defaultAssetCacheAgeDays  = 30
	defaultEnvironment        = "development"
	defaultSweepInterval      = 30
	defaultWorkspaceMaxAge    = 24
	defaultShutdownTimeout    = 10
	defaultRecentJobs         = 50
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
			LockPath:     defaultLockPath,
			APIBind:      defaultAPIBind,
		},
		Render: Render{
			Resolution:     defaultResolution,
			FrameRate:      defaultFrameRate,
			SegmentTimeout: defaultSegmentTimeout,
		},
		Fetch: Fetch{
			Retries:        defaultFetchRetries,
			RetryDelayMS:   defaultFetchRetryDelayMS,
			RequestTimeout: defaultFetchTimeout,
		},
		Publish: Publish{
			OutputDir: defaultOutputDir,
			BaseURL:   defaultBaseURL,
		},
		Subtitles: Subtitles{
			Enabled:      true,
			Language:     defaultSubtitleLanguage,
			Style:        defaultSubtitleStyle,
			MaxLineChars: defaultSubtitleLineChars,
		},
		AssetCache: AssetCache{
			MaxMiB:     defaultAssetCacheMaxMiB,
			MaxAgeDays: defaultAssetCacheAgeDays,
		},
		Daemon: Daemon{
			Environment:     defaultEnvironment,
			SweepInterval:   defaultSweepInterval,
			WorkspaceMaxAge: defaultWorkspaceMaxAge,
			ShutdownTimeout: defaultShutdownTimeout,
			RecentJobs:      defaultRecentJobs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			OnSuccess:      true,
			OnFailure:      true,
		},
	}
}
