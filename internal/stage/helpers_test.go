package stage

import (
	"errors"
	"strings"
	"testing"

	"filmstrip/internal/job"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

func TestSegments_Present(t *testing.T) {
	j := &job.Job{Segments: []segment.Segment{{ImageURL: "http://assets.test/a.png"}}}
	segs, err := Segments(j)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
}

func TestSegments_Missing(t *testing.T) {
	_, err := Segments(&job.Job{})
	if err == nil {
		t.Fatal("expected error when segments missing")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "normalized segments missing") {
		t.Fatalf("unexpected message: %v", err)
	}
}
