package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"filmstrip/internal/config"
	"filmstrip/internal/logging"
	"filmstrip/internal/preflight"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Path:        filepath.Join(cfg.Paths.LogDir, "filmstripd.log"),
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if failed := preflight.Failed(preflight.RunAll(ctx, cfg)); len(failed) > 0 {
		for _, result := range failed {
			logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
		}
		fmt.Fprintln(os.Stderr, "filmstripd: preflight failed, refusing to start")
		os.Exit(1)
	}

	d, closers, err := buildDaemon(cfg, logger)
	if err != nil {
		logger.Error("assemble daemon", logging.Error(err))
		os.Exit(1)
	}
	defer closers.close(logger)

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("filmstripd shutting down")
	d.Stop()
}
