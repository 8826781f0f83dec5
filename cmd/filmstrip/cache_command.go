package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filmstrip/internal/assetcache"
	"filmstrip/internal/config"
	"filmstrip/internal/logging"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the downloaded-asset cache",
	}

	cacheCmd.AddCommand(newCacheStatusCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func openCache(cfg *config.Config) (*assetcache.Cache, error) {
	cache, err := assetcache.Open(assetcache.Options{
		Dir:        cfg.AssetCache.Dir,
		MaxMiB:     cfg.AssetCache.MaxMiB,
		MaxAgeDays: cfg.AssetCache.MaxAgeDays,
	}, logging.NewNop())
	if err != nil {
		return nil, fmt.Errorf("open asset cache: %w", err)
	}
	return cache, nil
}

func newCacheStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show asset cache size and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			if !cache.Enabled() {
				fmt.Fprintln(out, "Asset cache is disabled (asset_cache.dir is empty)")
				return nil
			}

			stats, err := cache.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("cache stats: %w", err)
			}
			fmt.Fprintf(out, "Directory: %s\n", stats.Dir)
			fmt.Fprintf(out, "Entries:   %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:      %.1f MiB\n", float64(stats.TotalBytes)/(1024*1024))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Evict expired and over-budget cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer cache.Close()

			out := cmd.OutOrStdout()
			if !cache.Enabled() {
				fmt.Fprintln(out, "Asset cache is disabled (asset_cache.dir is empty)")
				return nil
			}

			result, err := cache.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			fmt.Fprintf(out, "Removed %d file(s), reclaimed %.1f MiB\n",
				result.RemovedFiles, float64(result.ReclaimedBytes)/(1024*1024))
			return nil
		},
	}
}
