package localfs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"filmstrip/internal/logging"
	"filmstrip/internal/publish/localfs"
	"filmstrip/internal/services"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output.mp4")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestPublishPlacesArtifactUnderJobKey(t *testing.T) {
	root := t.TempDir()
	pub := localfs.New(root, "http://example.test/artifacts", logging.NewNop())
	src := writeArtifact(t, "video-bytes")

	result, err := pub.Publish(context.Background(), src, "job-123")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.StorageKey != "job-123.mp4" {
		t.Fatalf("StorageKey = %q, want job-123.mp4", result.StorageKey)
	}
	if result.URL != "http://example.test/artifacts/job-123.mp4" {
		t.Fatalf("URL = %q", result.URL)
	}

	data, err := os.ReadFile(filepath.Join(root, "job-123.mp4"))
	if err != nil {
		t.Fatalf("read published artifact: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("published content = %q", data)
	}
}

func TestPublishOverwritesPreviousArtifact(t *testing.T) {
	root := t.TempDir()
	pub := localfs.New(root, "http://example.test/artifacts", logging.NewNop())

	if _, err := pub.Publish(context.Background(), writeArtifact(t, "first"), "job-9"); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	if _, err := pub.Publish(context.Background(), writeArtifact(t, "second"), "job-9"); err != nil {
		t.Fatalf("second Publish: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "job-9.mp4"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("republish should overwrite, got %q", data)
	}
}

func TestPublishSanitizesJobID(t *testing.T) {
	root := t.TempDir()
	pub := localfs.New(root, "http://example.test/artifacts", logging.NewNop())

	result, err := pub.Publish(context.Background(), writeArtifact(t, "x"), "a/b:c")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if result.StorageKey != "a-b-c.mp4" {
		t.Fatalf("StorageKey = %q, want a-b-c.mp4", result.StorageKey)
	}
	if _, err := os.Stat(filepath.Join(root, "a-b-c.mp4")); err != nil {
		t.Fatalf("sanitized artifact missing: %v", err)
	}
}

func TestPublishRejectsUnusableJobID(t *testing.T) {
	pub := localfs.New(t.TempDir(), "http://example.test/artifacts", logging.NewNop())

	_, err := pub.Publish(context.Background(), writeArtifact(t, "x"), "???")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPublishMissingSourceFails(t *testing.T) {
	pub := localfs.New(t.TempDir(), "http://example.test/artifacts", logging.NewNop())

	_, err := pub.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), "job-1")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	root := t.TempDir()
	pub := localfs.New(root, "http://example.test/artifacts", logging.NewNop())
	if err := pub.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck on writable dir: %v", err)
	}

	missing := localfs.New(filepath.Join(root, "nope"), "http://example.test/artifacts", logging.NewNop())
	if err := missing.HealthCheck(context.Background()); err == nil {
		t.Fatal("HealthCheck should fail for a missing dir")
	}
}
