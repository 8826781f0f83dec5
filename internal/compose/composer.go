package compose

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"filmstrip/internal/logging"
	"filmstrip/internal/media/ffprobe"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

const (
	defaultFrameRate      = 24
	defaultSegmentTimeout = 45 * time.Second
)

// Mode names the composition strategy that produced a result.
type Mode string

const (
	ModeFast     Mode = "fast"
	ModeFallback Mode = "fallback"
)

// Result reports one successful composition.
type Result struct {
	OutputPath string
	Mode       Mode
	Elapsed    time.Duration
}

type commandRunner func(ctx context.Context, name string, args ...string) error

type probeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Options configures a Composer. Zero values select defaults.
type Options struct {
	FFmpegBinary   string
	FFprobeBinary  string
	Width          int
	Height         int
	FrameRate      int
	SegmentTimeout time.Duration
}

// Composer renders segment sequences with ffmpeg.
type Composer struct {
	ffmpeg         string
	ffprobe        string
	width          int
	height         int
	frameRate      int
	segmentTimeout time.Duration
	logger         *slog.Logger
	run            commandRunner
	probe          probeFunc
}

// NewComposer constructs a composer for the given target frame.
func NewComposer(opts Options, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = logging.NewNop()
	}
	ffmpegBin := strings.TrimSpace(opts.FFmpegBinary)
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	ffprobeBin := strings.TrimSpace(opts.FFprobeBinary)
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	segmentTimeout := opts.SegmentTimeout
	if segmentTimeout <= 0 {
		segmentTimeout = defaultSegmentTimeout
	}
	return &Composer{
		ffmpeg:         ffmpegBin,
		ffprobe:        ffprobeBin,
		width:          opts.Width,
		height:         opts.Height,
		frameRate:      frameRate,
		segmentTimeout: segmentTimeout,
		logger:         logging.NewComponentLogger(logger, "compose"),
		run:            defaultCommandRunner,
		probe:          ffprobe.Inspect,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Composer) WithCommandRunner(r commandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// WithProber allows injecting a custom image prober for tests.
func (c *Composer) WithProber(fn probeFunc) {
	if c != nil && fn != nil {
		c.probe = fn
	}
}

// Probe fills in the native pixel dimensions of every segment image.
// A segment whose image cannot be probed fails the whole batch: neither
// composition path can place an image without knowing its size.
func (c *Composer) Probe(ctx context.Context, segs []segment.Segment) ([]segment.Segment, error) {
	probed := make([]segment.Segment, len(segs))
	copy(probed, segs)
	for i := range probed {
		result, err := c.probe(ctx, c.ffprobe, probed[i].LocalPath)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "compose", "probe image",
				fmt.Sprintf("segment %d: cannot inspect %s", i, probed[i].LocalPath), err)
		}
		w, h, err := result.Dimensions()
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "compose", "probe image",
				fmt.Sprintf("segment %d: %s carries no image data", i, probed[i].LocalPath), err)
		}
		probed[i].Width = w
		probed[i].Height = h
	}
	return probed, nil
}

// RenderFast produces the full video in a single ffmpeg invocation. Segments
// must carry probed dimensions. On failure the partial output is removed and
// the error is returned for the orchestrator to weigh fallback eligibility.
func (c *Composer) RenderFast(ctx context.Context, segs []segment.Segment, outputPath string) (Result, error) {
	if len(segs) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "compose", "render fast", "no segments to render", nil)
	}
	for i, seg := range segs {
		if seg.Width <= 0 || seg.Height <= 0 {
			return Result{}, services.Wrap(services.ErrValidation, "compose", "render fast",
				fmt.Sprintf("segment %d: missing probed dimensions", i), nil)
		}
	}

	args := c.buildFastArgs(segs, outputPath)
	log := logging.WithContext(ctx, c.logger)
	log.Info("starting single-pass render",
		logging.Int("segments", len(segs)),
		logging.String("output", outputPath),
		logging.String(logging.FieldEventType, "compose_fast_start"))
	log.Debug("ffmpeg invocation", logging.String("args", strings.Join(args, " ")))

	started := time.Now()
	if err := c.run(ctx, c.ffmpeg, args...); err != nil {
		_ = os.Remove(outputPath)
		return Result{}, services.Wrap(services.ErrExternalTool, "compose", "render fast",
			"single-pass ffmpeg render failed", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "compose", "render fast",
			"ffmpeg exited cleanly but produced no output", err)
	}

	elapsed := time.Since(started)
	log.Info("single-pass render complete",
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "compose_fast_complete"))
	return Result{OutputPath: outputPath, Mode: ModeFast, Elapsed: elapsed}, nil
}

// buildFastArgs assembles the single-invocation argument list: one looping
// image input per segment, a filter graph that scales, pads, and normalizes
// each into the target frame, and a concat joining them in order.
func (c *Composer) buildFastArgs(segs []segment.Segment, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, seg := range segs {
		args = append(args,
			"-loop", "1",
			"-t", formatSeconds(seg.Duration),
			"-i", seg.LocalPath,
		)
	}

	var graph strings.Builder
	for i, seg := range segs {
		place := PlacementFor(seg.Width, seg.Height, c.width, c.height)
		fmt.Fprintf(&graph, "[%d:v]%s[v%d];", i, c.segmentFilter(place), i)
	}
	for i := range segs {
		fmt.Fprintf(&graph, "[v%d]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[outv]", len(segs))

	args = append(args,
		"-filter_complex", graph.String(),
		"-map", "[outv]",
	)
	args = append(args, outputProfileArgs()...)
	args = append(args, outputPath)
	return args
}

// segmentFilter scales a segment into its placement, pads to the full frame,
// squares the sample aspect ratio, and locks the frame rate.
func (c *Composer) segmentFilter(place Placement) string {
	return fmt.Sprintf("scale=%d:%d,pad=%d:%d:%d:%d:black,setsar=1,fps=%d",
		place.Width, place.Height, c.width, c.height, place.X, place.Y, c.frameRate)
}

// outputProfileArgs is the fixed delivery profile shared by both paths.
func outputProfileArgs() []string {
	return []string{
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-an",
	}
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}

// defaultCommandRunner executes ffmpeg commands.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		// Include output in error for debugging
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
