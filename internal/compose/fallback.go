package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"filmstrip/internal/logging"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

// RenderFallback renders every segment to its own clip under a per-segment
// deadline, then stitches the clips with the concat demuxer without
// re-encoding. It is the recovery strategy after a fast-path failure; its
// own failure is terminal for the job.
func (c *Composer) RenderFallback(ctx context.Context, segs []segment.Segment, clipPaths []string, listPath, outputPath string) (Result, error) {
	if len(segs) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "compose", "render fallback", "no segments to render", nil)
	}
	if len(clipPaths) != len(segs) {
		return Result{}, services.Wrap(services.ErrValidation, "compose", "render fallback",
			fmt.Sprintf("clip path count %d does not match segment count %d", len(clipPaths), len(segs)), nil)
	}

	log := logging.WithContext(ctx, c.logger)
	log.Info("starting per-segment fallback render",
		logging.Int("segments", len(segs)),
		logging.Duration("segment_timeout", c.segmentTimeout),
		logging.String(logging.FieldEventType, "compose_fallback_start"))

	started := time.Now()
	for i, seg := range segs {
		if err := c.renderClip(ctx, seg, clipPaths[i]); err != nil {
			return Result{}, err
		}
		log.Debug("segment clip rendered",
			logging.Int(logging.FieldSegment, i),
			logging.String("clip", clipPaths[i]))
	}

	if err := writeConcatList(listPath, clipPaths); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "compose", "render fallback",
			"cannot write concat list", err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-movflags", "+faststart",
		outputPath,
	}
	if err := c.run(ctx, c.ffmpeg, args...); err != nil {
		_ = os.Remove(outputPath)
		return Result{}, services.Wrap(services.ErrExternalTool, "compose", "render fallback",
			"concat of segment clips failed", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "compose", "render fallback",
			"concat exited cleanly but produced no output", err)
	}

	elapsed := time.Since(started)
	log.Info("fallback render complete",
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "compose_fallback_complete"))
	return Result{OutputPath: outputPath, Mode: ModeFallback, Elapsed: elapsed}, nil
}

// renderClip renders one segment to its own clip. The clip inherits the
// shared output profile so the final concat can copy streams verbatim. A
// segment that exceeds the per-segment deadline is killed and reported as a
// timeout.
func (c *Composer) renderClip(ctx context.Context, seg segment.Segment, clipPath string) error {
	clipCtx, cancel := context.WithTimeout(ctx, c.segmentTimeout)
	defer cancel()

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-loop", "1",
		"-t", formatSeconds(seg.Duration),
		"-i", seg.LocalPath,
		"-vf", c.clipFilter(),
	}
	args = append(args, outputProfileArgs()...)
	args = append(args, clipPath)

	if err := c.run(clipCtx, c.ffmpeg, args...); err != nil {
		_ = os.Remove(clipPath)
		if errors.Is(clipCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "compose", "render clip",
				fmt.Sprintf("segment %d exceeded the %s render deadline", seg.Index, c.segmentTimeout), err)
		}
		return services.Wrap(services.ErrExternalTool, "compose", "render clip",
			fmt.Sprintf("segment %d render failed", seg.Index), err)
	}
	if _, err := os.Stat(clipPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "compose", "render clip",
			fmt.Sprintf("segment %d produced no clip", seg.Index), err)
	}
	return nil
}

// clipFilter fits the image inside the frame and centers it with padding,
// letting ffmpeg pick the scaled size instead of precomputing a placement.
// Skipping the probe-driven geometry keeps the fallback independent of the
// inputs that may have broken the fast path's filter graph.
func (c *Composer) clipFilter() string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black,setsar=1,fps=%d",
		c.width, c.height, c.width, c.height, c.frameRate)
}

// writeConcatList emits the concat demuxer manifest, one clip per line in
// playback order.
func writeConcatList(listPath string, clipPaths []string) error {
	var b strings.Builder
	for _, clip := range clipPaths {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(clip))
	}
	return os.WriteFile(listPath, []byte(b.String()), 0o644)
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}
