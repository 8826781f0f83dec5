package main

import (
	"testing"

	"filmstrip/internal/testsupport"
)

func TestCacheStatusDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, cfgPath := newCLIConfig(t)

	out, _, err := runCLI(t, []string{"cache", "status"}, "", cfgPath)
	if err != nil {
		t.Fatalf("cache status: %v", err)
	}
	requireContains(t, out, "disabled")
}

func TestCacheStatusAndPruneEnabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithAssetCache())
	cfgPath := writeCLIConfig(t, cfg)

	out, _, err := runCLI(t, []string{"cache", "status"}, "", cfgPath)
	if err != nil {
		t.Fatalf("cache status: %v", err)
	}
	requireContains(t, out, "Entries:   0")

	out, _, err = runCLI(t, []string{"cache", "prune"}, "", cfgPath)
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 0 file(s)")
}
