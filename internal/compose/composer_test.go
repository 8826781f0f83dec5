package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filmstrip/internal/logging"
	"filmstrip/internal/media/ffprobe"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

type runnerCall struct {
	name string
	args []string
}

// creatingRunner records every invocation and fabricates the output file
// (always the final argument) so post-run existence checks pass.
func creatingRunner(calls *[]runnerCall) commandRunner {
	return func(ctx context.Context, name string, args ...string) error {
		*calls = append(*calls, runnerCall{name: name, args: append([]string(nil), args...)})
		return os.WriteFile(args[len(args)-1], []byte("rendered"), 0o644)
	}
}

func newTestComposer() *Composer {
	return NewComposer(Options{
		Width:          1280,
		Height:         720,
		FrameRate:      24,
		SegmentTimeout: 5 * time.Second,
	}, logging.NewNop())
}

func hasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestRenderFastSingleInvocation(t *testing.T) {
	dir := t.TempDir()
	segs := []segment.Segment{
		{Index: 0, LocalPath: filepath.Join(dir, "a.png"), Duration: 3, Width: 1280, Height: 720},
		{Index: 1, LocalPath: filepath.Join(dir, "b.png"), Duration: 4, Width: 1280, Height: 720},
	}
	output := filepath.Join(dir, "output.mp4")

	var calls []runnerCall
	composer := newTestComposer()
	composer.WithCommandRunner(creatingRunner(&calls))

	result, err := composer.RenderFast(context.Background(), segs, output)
	if err != nil {
		t.Fatalf("RenderFast failed: %v", err)
	}
	if result.Mode != ModeFast || result.OutputPath != output {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(calls) != 1 {
		t.Fatalf("expected a single ffmpeg invocation, got %d", len(calls))
	}

	args := calls[0].args
	if !hasArgPair(args, "-t", "3.000") || !hasArgPair(args, "-t", "4.000") {
		t.Errorf("per-segment durations missing from args: %v", args)
	}
	if !hasArgPair(args, "-i", segs[0].LocalPath) || !hasArgPair(args, "-i", segs[1].LocalPath) {
		t.Errorf("inputs missing from args: %v", args)
	}

	wantGraph := "[0:v]scale=1280:720,pad=1280:720:0:0:black,setsar=1,fps=24[v0];" +
		"[1:v]scale=1280:720,pad=1280:720:0:0:black,setsar=1,fps=24[v1];" +
		"[v0][v1]concat=n=2:v=1:a=0[outv]"
	if !hasArgPair(args, "-filter_complex", wantGraph) {
		t.Errorf("filter graph mismatch:\nargs: %v\nwant: %s", args, wantGraph)
	}

	if !hasArgPair(args, "-map", "[outv]") {
		t.Errorf("missing output map: %v", args)
	}
	if !hasArgPair(args, "-c:v", "libx264") || !hasArgPair(args, "-pix_fmt", "yuv420p") {
		t.Errorf("output codec profile missing: %v", args)
	}
	if !hasArgPair(args, "-movflags", "+faststart") {
		t.Errorf("faststart missing: %v", args)
	}
	var hasAN bool
	for _, a := range args {
		if a == "-an" {
			hasAN = true
		}
	}
	if !hasAN {
		t.Errorf("audio should be disabled: %v", args)
	}
	if args[len(args)-1] != output {
		t.Errorf("output path must be the final argument: %v", args)
	}
}

func TestRenderFastPreservesSegmentOrder(t *testing.T) {
	dir := t.TempDir()
	var segs []segment.Segment
	for i := 0; i < 4; i++ {
		segs = append(segs, segment.Segment{
			Index:     i,
			LocalPath: filepath.Join(dir, string(rune('a'+i))+".png"),
			Duration:  float64(i + 1),
			Width:     1280,
			Height:    720,
		})
	}

	var calls []runnerCall
	composer := newTestComposer()
	composer.WithCommandRunner(creatingRunner(&calls))

	if _, err := composer.RenderFast(context.Background(), segs, filepath.Join(dir, "out.mp4")); err != nil {
		t.Fatalf("RenderFast failed: %v", err)
	}

	args := calls[0].args
	var inputs []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-i" {
			inputs = append(inputs, args[i+1])
		}
	}
	if len(inputs) != 4 {
		t.Fatalf("expected 4 inputs, got %v", inputs)
	}
	for i, seg := range segs {
		if inputs[i] != seg.LocalPath {
			t.Errorf("input %d = %q, want %q", i, inputs[i], seg.LocalPath)
		}
	}
}

func TestRenderFastLetterboxesPortrait(t *testing.T) {
	dir := t.TempDir()
	segs := []segment.Segment{
		{Index: 0, LocalPath: filepath.Join(dir, "tall.png"), Duration: 2, Width: 720, Height: 1280},
	}

	var calls []runnerCall
	composer := newTestComposer()
	composer.WithCommandRunner(creatingRunner(&calls))

	if _, err := composer.RenderFast(context.Background(), segs, filepath.Join(dir, "out.mp4")); err != nil {
		t.Fatalf("RenderFast failed: %v", err)
	}

	joined := strings.Join(calls[0].args, " ")
	if !strings.Contains(joined, "scale=405:720,pad=1280:720:437:0:black") {
		t.Errorf("portrait letterbox filter missing: %s", joined)
	}
}

func TestRenderFastRequiresProbedDimensions(t *testing.T) {
	segs := []segment.Segment{{LocalPath: "a.png", Duration: 2}}
	composer := newTestComposer()
	composer.WithCommandRunner(creatingRunner(&[]runnerCall{}))

	_, err := composer.RenderFast(context.Background(), segs, "out.mp4")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderFastRejectsEmptyInput(t *testing.T) {
	composer := newTestComposer()
	_, err := composer.RenderFast(context.Background(), nil, "out.mp4")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderFastFailureRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp4")
	segs := []segment.Segment{
		{Index: 0, LocalPath: filepath.Join(dir, "a.png"), Duration: 2, Width: 100, Height: 100},
	}

	composer := newTestComposer()
	composer.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		_ = os.WriteFile(output, []byte("partial"), 0o644)
		return errors.New("encoder exploded")
	})

	_, err := composer.RenderFast(context.Background(), segs, output)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatal("partial output should have been removed")
	}
}

func TestProbeFillsDimensions(t *testing.T) {
	segs := []segment.Segment{
		{Index: 0, LocalPath: "a.png"},
		{Index: 1, LocalPath: "b.jpg"},
	}

	composer := newTestComposer()
	composer.WithProber(func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		w := 800
		if strings.HasSuffix(path, ".jpg") {
			w = 1920
		}
		return ffprobe.Result{Streams: []ffprobe.Stream{
			{CodecType: "video", Width: w, Height: 600},
		}}, nil
	})

	probed, err := composer.Probe(context.Background(), segs)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if probed[0].Width != 800 || probed[1].Width != 1920 {
		t.Fatalf("unexpected widths: %d, %d", probed[0].Width, probed[1].Width)
	}
	if segs[0].Width != 0 {
		t.Fatal("input slice must not be mutated")
	}
}

func TestProbeFailureNamesSegment(t *testing.T) {
	segs := []segment.Segment{
		{Index: 0, LocalPath: "a.png"},
		{Index: 1, LocalPath: "corrupt.png"},
	}

	composer := newTestComposer()
	composer.WithProber(func(ctx context.Context, binary, path string) (ffprobe.Result, error) {
		if strings.Contains(path, "corrupt") {
			return ffprobe.Result{}, errors.New("invalid data")
		}
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video", Width: 10, Height: 10}}}, nil
	})

	_, err := composer.Probe(context.Background(), segs)
	if err == nil {
		t.Fatal("expected probe error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "segment 1") {
		t.Fatalf("error should name the failing segment: %v", err)
	}
}
