package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"filmstrip/internal/logging"
	"filmstrip/internal/testsupport"
)

func TestBuildDaemonAssemblesServices(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithAssetCache())
	logger := logging.NewNop()

	d, closers, err := buildDaemon(cfg, logger)
	if err != nil {
		t.Fatalf("buildDaemon: %v", err)
	}
	if d == nil {
		t.Fatal("expected daemon")
	}
	closers.close(logger)
}

func TestBuildDaemonWithoutSubtitlesOrCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithSubtitlesDisabled())
	logger := logging.NewNop()

	d, closers, err := buildDaemon(cfg, logger)
	if err != nil {
		t.Fatalf("buildDaemon: %v", err)
	}
	if d == nil {
		t.Fatal("expected daemon")
	}
	closers.close(logger)
}

func TestDaemonServesVersionAfterStart(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	logger := logging.NewNop()

	d, closers, err := buildDaemon(cfg, logger)
	if err != nil {
		t.Fatalf("buildDaemon: %v", err)
	}
	defer closers.close(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	defer d.Stop()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + d.Addr() + "/api/v1/version")
	if err != nil {
		t.Fatalf("version request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
