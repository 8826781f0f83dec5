package main

import (
	"fmt"
	"log/slog"
	"time"

	"filmstrip/internal/assetcache"
	"filmstrip/internal/config"
	"filmstrip/internal/daemon"
	"filmstrip/internal/fetch"
	"filmstrip/internal/job"
	"filmstrip/internal/limiter"
	"filmstrip/internal/logging"
	"filmstrip/internal/notifications"
	"filmstrip/internal/pipeline"
	"filmstrip/internal/publish/localfs"
	"filmstrip/internal/subtitles"
	"filmstrip/internal/workspace"
)

// closerList collects shutdown hooks acquired during assembly, released in
// reverse order.
type closerList []func() error

func (c closerList) close(logger *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn("close service", logging.Error(err))
		}
	}
}

// buildDaemon constructs every render service from config and wires them
// into a daemon ready to Start.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, closerList, error) {
	var closers closerList

	cache, err := assetcache.Open(assetcache.Options{
		Dir:        cfg.AssetCache.Dir,
		MaxMiB:     cfg.AssetCache.MaxMiB,
		MaxAgeDays: cfg.AssetCache.MaxAgeDays,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open asset cache: %w", err)
	}
	closers = append(closers, cache.Close)

	capacity := cfg.Render.MaxConcurrent
	if capacity <= 0 {
		capacity = limiter.DefaultCapacity()
	}

	deps := pipeline.Deps{
		Workspaces: workspace.NewManager(cfg.Paths.WorkspaceDir, logger),
		Fetcher: fetch.New(fetch.Options{
			Retries:        cfg.Fetch.Retries,
			RetryDelay:     time.Duration(cfg.Fetch.RetryDelayMS) * time.Millisecond,
			RequestTimeout: time.Duration(cfg.Fetch.RequestTimeout) * time.Second,
			Headers:        cfg.Fetch.Headers,
		}, logger),
		Cache:     cache,
		Pool:      limiter.New(capacity),
		Publisher: localfs.New(cfg.Publish.OutputDir, cfg.Publish.BaseURL, logger),
		Registry:  job.NewRegistry(cfg.Daemon.RecentJobs),
		Notifier:  notifications.NewService(cfg),
	}

	if cfg.Subtitles.Enabled {
		generator, err := subtitles.NewGenerator(subtitles.Options{
			Language:     cfg.Subtitles.Language,
			MaxLineChars: cfg.Subtitles.MaxLineChars,
		}, logger)
		if err != nil {
			closers.close(logger)
			return nil, nil, fmt.Errorf("subtitle generator: %w", err)
		}
		deps.Subtitles = generator
	}

	pipe, err := pipeline.New(cfg, deps, logger)
	if err != nil {
		closers.close(logger)
		return nil, nil, fmt.Errorf("assemble pipeline: %w", err)
	}

	d, err := daemon.New(cfg, pipe, deps.Registry, cache, logger)
	if err != nil {
		closers.close(logger)
		return nil, nil, fmt.Errorf("create daemon: %w", err)
	}
	return d, closers, nil
}
