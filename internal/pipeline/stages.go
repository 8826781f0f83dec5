package pipeline

import (
	"context"
	"fmt"
	"os/exec"

	"filmstrip/internal/fetch"
	"filmstrip/internal/job"
	"filmstrip/internal/limiter"
	"filmstrip/internal/logging"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
	"filmstrip/internal/stage"
	"filmstrip/internal/subtitles"
)

// normalizeStage maps raw intake segments onto the canonical shape.
type normalizeStage struct {
	p *Pipeline
}

func (s *normalizeStage) Prepare(ctx context.Context, j *job.Job) error {
	if len(j.RawSegments) == 0 {
		return services.Wrap(services.ErrValidation, "pipeline", "normalize",
			"segments list is empty; at least one segment is required", nil)
	}
	return nil
}

func (s *normalizeStage) Execute(ctx context.Context, j *job.Job) error {
	segs, err := segment.Normalize(j.RawSegments)
	if err != nil {
		return err
	}
	j.Segments = segs
	return nil
}

func (s *normalizeStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("normalize")
}

// fetchStage downloads every segment image into the job workspace through
// the shared concurrency limiter. Fetches complete out of order; results
// land in their segment's slot so downstream order matches input order.
type fetchStage struct {
	p *Pipeline
}

func (s *fetchStage) Prepare(ctx context.Context, j *job.Job) error {
	if j.WorkspaceDir == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "fetch",
			"job has no workspace to download into", nil)
	}
	return nil
}

func (s *fetchStage) Execute(ctx context.Context, j *job.Job) error {
	segs, err := stage.Segments(j)
	if err != nil {
		return err
	}
	session := s.p.session(j)
	cache := s.p.deps.Cache
	log := logging.WithContext(ctx, s.p.logger)

	results := limiter.Map(ctx, s.p.deps.Pool, segs, func(ctx context.Context, i int, seg segment.Segment) (string, error) {
		ext := fetch.ExtensionFromURL(seg.ImageURL)
		dest := session.AssetPath(i, ext)

		if hit, err := cache.Get(ctx, seg.ImageURL, dest); err != nil {
			log.Warn("asset cache lookup failed",
				logging.Int(logging.FieldSegment, i),
				logging.Error(err))
		} else if hit {
			return dest, nil
		}

		if err := s.p.deps.Fetcher.Download(ctx, seg.ImageURL, dest); err != nil {
			return "", err
		}
		if err := cache.Put(ctx, seg.ImageURL, dest); err != nil {
			log.Warn("asset cache store failed",
				logging.Int(logging.FieldSegment, i),
				logging.Error(err))
		}
		return dest, nil
	})

	for i, res := range results {
		if res.Err != nil {
			return services.Wrap(services.ErrTransient, "pipeline", "fetch",
				fmt.Sprintf("segment %d", i), res.Err)
		}
		j.Segments[i].LocalPath = res.Value
	}
	return nil
}

func (s *fetchStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("fetch")
}

// subtitleStage runs the subtitle collaborator for every segment that
// carries caption text or word-timing hints. A calculated duration from
// word timings replaces the segment's duration before validation.
type subtitleStage struct {
	p *Pipeline
}

func (s *subtitleStage) Prepare(ctx context.Context, j *job.Job) error {
	return nil
}

func (s *subtitleStage) Execute(ctx context.Context, j *job.Job) error {
	if s.p.deps.Subtitles == nil || !s.p.cfg.Subtitles.Enabled {
		return nil
	}
	segs, err := stage.Segments(j)
	if err != nil {
		return err
	}
	style, err := subtitles.ResolveStyle(j.SubtitleStyle)
	if err != nil {
		return err
	}
	workDir := s.p.session(j).SubtitlesDir()

	for i := range segs {
		if !subtitles.Needed(segs[i]) {
			continue
		}
		result, err := s.p.deps.Subtitles.Generate(ctx, segs[i], workDir, i, segs[i].Duration, style)
		if err != nil {
			return err
		}
		j.Segments[i].Duration = result.CalculatedDuration
		j.Segments[i].SubtitlePath = result.SRTPath
	}
	return nil
}

func (s *subtitleStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("subtitles")
}

// validateStage enforces finite positive durations. It runs strictly after
// subtitle processing so word-timing recalculations are honored.
type validateStage struct {
	p *Pipeline
}

func (s *validateStage) Prepare(ctx context.Context, j *job.Job) error {
	return nil
}

func (s *validateStage) Execute(ctx context.Context, j *job.Job) error {
	segs, err := stage.Segments(j)
	if err != nil {
		return err
	}
	return segment.ValidateDurations(segs)
}

func (s *validateStage) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy("validate")
}

// composeFastStage probes image dimensions and renders every segment in a
// single ffmpeg pass. A failure here is not job-fatal; the orchestrator
// falls back to per-segment rendering.
type composeFastStage struct {
	p *Pipeline
}

func (s *composeFastStage) Prepare(ctx context.Context, j *job.Job) error {
	for i, seg := range j.Segments {
		if seg.LocalPath == "" {
			return services.Wrap(services.ErrConfiguration, "pipeline", "compose",
				fmt.Sprintf("segment %d has no downloaded image", i), nil)
		}
	}
	return nil
}

func (s *composeFastStage) Execute(ctx context.Context, j *job.Job) error {
	composer, err := s.p.composerFor(j)
	if err != nil {
		return err
	}
	probed, err := composer.Probe(ctx, j.Segments)
	if err != nil {
		return err
	}
	j.Segments = probed

	result, err := composer.RenderFast(ctx, j.Segments, s.p.session(j).OutputPath())
	if err != nil {
		return err
	}
	j.RenderedFile = result.OutputPath
	return nil
}

func (s *composeFastStage) HealthCheck(ctx context.Context) stage.Health {
	for _, binary := range []string{s.p.cfg.FFmpegBinary(), s.p.cfg.FFprobeBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy("compose", fmt.Sprintf("binary %q not found", binary))
		}
	}
	return stage.Healthy("compose")
}

// composeFallbackStage renders each segment to its own clip and stitches
// them losslessly. Entered only after a fast-path failure; its own failure
// is terminal for the job.
type composeFallbackStage struct {
	p *Pipeline
}

func (s *composeFallbackStage) Prepare(ctx context.Context, j *job.Job) error {
	return nil
}

func (s *composeFallbackStage) Execute(ctx context.Context, j *job.Job) error {
	composer, err := s.p.composerFor(j)
	if err != nil {
		return err
	}
	// The fast path may have failed before probing completed.
	if missingDimensions(j.Segments) {
		probed, err := composer.Probe(ctx, j.Segments)
		if err != nil {
			return err
		}
		j.Segments = probed
	}

	session := s.p.session(j)
	clipPaths := make([]string, len(j.Segments))
	for i := range j.Segments {
		clipPaths[i] = session.ClipPath(i)
	}
	result, err := composer.RenderFallback(ctx, j.Segments, clipPaths, session.ConcatListPath(), session.OutputPath())
	if err != nil {
		return err
	}
	j.RenderedFile = result.OutputPath
	j.FallbackUsed = true
	return nil
}

func (s *composeFallbackStage) HealthCheck(ctx context.Context) stage.Health {
	return (&composeFastStage{s.p}).HealthCheck(ctx)
}

func missingDimensions(segs []segment.Segment) bool {
	for _, seg := range segs {
		if seg.Width <= 0 || seg.Height <= 0 {
			return true
		}
	}
	return false
}

// publishStage hands the rendered artifact to the publisher. Republishing a
// job ID overwrites the prior artifact.
type publishStage struct {
	p *Pipeline
}

func (s *publishStage) Prepare(ctx context.Context, j *job.Job) error {
	if j.RenderedFile == "" {
		return services.Wrap(services.ErrConfiguration, "pipeline", "publish",
			"no rendered file to publish", nil)
	}
	return nil
}

func (s *publishStage) Execute(ctx context.Context, j *job.Job) error {
	result, err := s.p.deps.Publisher.Publish(ctx, j.RenderedFile, j.ID)
	if err != nil {
		return err
	}
	j.OutputURL = result.URL
	j.StorageKey = result.StorageKey
	return nil
}

func (s *publishStage) HealthCheck(ctx context.Context) stage.Health {
	if err := s.p.deps.Publisher.HealthCheck(ctx); err != nil {
		return stage.Unhealthy("publish", err.Error())
	}
	return stage.Healthy("publish")
}
