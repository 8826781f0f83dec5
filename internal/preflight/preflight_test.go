package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"filmstrip/internal/testsupport"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeDiskMissingPath(t *testing.T) {
	result := CheckFreeDisk("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := CheckSystemDeps(context.Background(), cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 dependency checks, got %d", len(results))
	}
	for _, dep := range results {
		if !dep.Available {
			t.Fatalf("expected %s to be available: %s", dep.Name, dep.Detail)
		}
	}
}

func TestCheckSystemDepsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Render.FFmpegBinary = "clearly-not-present-binary"

	results := CheckSystemDeps(context.Background(), cfg)
	if results[0].Available {
		t.Fatal("expected missing ffmpeg to be reported unavailable")
	}
}

func TestRunAllPassesWithHealthyConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := RunAll(context.Background(), cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected no failures, got %#v", failed)
	}
}

func TestRunAllReportsMissingOutputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := os.RemoveAll(cfg.Publish.OutputDir); err != nil {
		t.Fatal(err)
	}

	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 {
		t.Fatalf("expected exactly one failure, got %#v", failed)
	}
	if failed[0].Name != "Output directory" {
		t.Fatalf("unexpected failing check: %s", failed[0].Name)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
