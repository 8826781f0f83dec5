package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"filmstrip/internal/assetcache"
	"filmstrip/internal/compose"
	"filmstrip/internal/config"
	"filmstrip/internal/fetch"
	"filmstrip/internal/job"
	"filmstrip/internal/limiter"
	"filmstrip/internal/logging"
	"filmstrip/internal/notifications"
	"filmstrip/internal/publish"
	"filmstrip/internal/services"
	"filmstrip/internal/stage"
	"filmstrip/internal/subtitles"
	"filmstrip/internal/workspace"
)

// Request is one inbound render job descriptor.
type Request struct {
	JobID         string
	RequestID     string
	Segments      []map[string]any
	Resolution    string
	SubtitleStyle string
}

// Response reports a published render.
type Response struct {
	JobID string
	URL   string
}

// Deps are the injected collaborators the pipeline sequences. All services
// are constructed once at startup and reused across jobs.
type Deps struct {
	Workspaces *workspace.Manager
	Fetcher    *fetch.Fetcher
	Cache      *assetcache.Cache
	Pool       *limiter.Limiter
	Subtitles  *subtitles.Generator
	Publisher  publish.Publisher
	Registry   *job.Registry
	Notifier   notifications.Service
}

// Pipeline runs render jobs end to end.
type Pipeline struct {
	cfg         *config.Config
	deps        Deps
	logger      *slog.Logger
	newComposer func(width, height int) *compose.Composer

	steps []stageStep
}

type stageStep struct {
	status  job.Status
	name    string
	handler stage.Handler
}

// New validates the dependency set and builds a pipeline.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires config")
	}
	if deps.Workspaces == nil || deps.Fetcher == nil || deps.Pool == nil || deps.Publisher == nil || deps.Registry == nil {
		return nil, errors.New("pipeline requires workspace manager, fetcher, limiter, publisher, and registry")
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	p := &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	p.newComposer = func(width, height int) *compose.Composer {
		return compose.NewComposer(compose.Options{
			FFmpegBinary:   cfg.FFmpegBinary(),
			FFprobeBinary:  cfg.FFprobeBinary(),
			Width:          width,
			Height:         height,
			FrameRate:      cfg.Render.FrameRate,
			SegmentTimeout: time.Duration(cfg.Render.SegmentTimeout) * time.Second,
		}, logger)
	}
	p.steps = []stageStep{
		{job.StatusNormalizing, "normalize", &normalizeStage{p}},
		{job.StatusFetching, "fetch", &fetchStage{p}},
		{job.StatusSubtitleProcessing, "subtitles", &subtitleStage{p}},
		{job.StatusValidating, "validate", &validateStage{p}},
		{job.StatusComposingFast, "compose", &composeFastStage{p}},
		{job.StatusPublishing, "publish", &publishStage{p}},
	}
	return p, nil
}

// WithComposerFactory overrides composition engine construction, used by
// tests to inject stub runners and probers.
func (p *Pipeline) WithComposerFactory(fn func(width, height int) *compose.Composer) {
	if p != nil && fn != nil {
		p.newComposer = fn
	}
}

// Health reports the readiness of every stage plus the workspace root.
func (p *Pipeline) Health(ctx context.Context) []stage.Health {
	checks := make([]stage.Health, 0, len(p.steps)+1)
	for _, step := range p.steps {
		checks = append(checks, step.handler.HealthCheck(ctx))
	}
	return checks
}

// Run executes one job to completion or failure. Intake validation happens
// before any workspace is allocated; after allocation, cleanup always runs
// under the configured retention policy.
func (p *Pipeline) Run(ctx context.Context, req Request) (Response, error) {
	req.JobID = strings.TrimSpace(req.JobID)
	if req.JobID == "" {
		return Response{}, services.Wrap(services.ErrValidation, "pipeline", "intake",
			"jobId is required and must be a non-empty string", nil)
	}
	if len(req.Segments) == 0 {
		return Response{}, services.Wrap(services.ErrValidation, "pipeline", "intake",
			"segments list is empty; at least one segment is required", nil)
	}

	resolution := strings.TrimSpace(req.Resolution)
	if resolution == "" {
		resolution = p.cfg.Render.Resolution
	}
	if _, _, err := config.ParseResolution(resolution); err != nil {
		return Response{}, services.Wrap(services.ErrValidation, "pipeline", "intake", "", err)
	}
	style, err := subtitles.ResolveStyle(req.SubtitleStyle)
	if err != nil {
		return Response{}, err
	}

	ctx = services.WithJobID(ctx, req.JobID)
	if req.RequestID != "" {
		ctx = services.WithRequestID(ctx, req.RequestID)
	}
	log := logging.WithContext(ctx, p.logger)

	j := job.Job{
		ID:            req.JobID,
		RequestID:     req.RequestID,
		Resolution:    resolution,
		SubtitleStyle: style.Name,
		SegmentCount:  len(req.Segments),
		Status:        job.StatusReceived,
		RawSegments:   req.Segments,
	}
	p.deps.Registry.Add(j)

	session, err := p.deps.Workspaces.Allocate(ctx, j.ID)
	if err != nil {
		return Response{}, p.fail(ctx, &j, "workspace", err)
	}
	j.WorkspaceDir = session.Dir
	p.sync(&j)

	started := time.Now()
	log.Info("job started",
		logging.Int("segments", j.SegmentCount),
		logging.String("resolution", j.Resolution),
		logging.String("workspace", session.Dir),
		logging.String(logging.FieldEventType, "job_start"))

	for _, step := range p.steps {
		if err := p.runStage(ctx, &j, step); err != nil {
			if step.status != job.StatusComposingFast {
				return Response{}, p.fail(ctx, &j, step.name, err)
			}
			log.Warn("fast composition failed, entering fallback",
				logging.Error(err),
				logging.String(logging.FieldEventType, "compose_fallback_trigger"))
			fallback := stageStep{job.StatusComposingFallback, "compose-fallback", &composeFallbackStage{p}}
			if err := p.runStage(ctx, &j, fallback); err != nil {
				return Response{}, p.fail(ctx, &j, fallback.name, err)
			}
		}
	}

	p.transition(&j, job.StatusCleanup)
	p.deps.Workspaces.Release(session)
	j.WorkspaceDir = ""

	now := time.Now().UTC()
	p.deps.Registry.Update(j.ID, func(stored *job.Job) {
		stored.SetDone(j.OutputURL, j.StorageKey, now)
		stored.WorkspaceDir = ""
		stored.FallbackUsed = j.FallbackUsed
	})

	elapsed := time.Since(started)
	log.Info("job complete",
		logging.String("url", j.OutputURL),
		logging.Bool("fallback", j.FallbackUsed),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "job_complete"))

	if err := p.deps.Notifier.NotifyJobCompleted(ctx, j.ID, j.OutputURL, j.SegmentCount, elapsed, j.FallbackUsed); err != nil {
		log.Warn("completion notification failed", logging.Error(err))
	}
	return Response{JobID: j.ID, URL: j.OutputURL}, nil
}

// runStage transitions the job forward and executes one handler with
// start/complete logs. Transitions are strictly sequential; no stage moves
// a job backward.
func (p *Pipeline) runStage(ctx context.Context, j *job.Job, step stageStep) error {
	p.transition(j, step.status)
	stageCtx := services.WithStage(ctx, step.name)
	log := logging.WithContext(stageCtx, p.logger)

	stageStart := time.Now()
	log.Info("stage started",
		logging.String(logging.FieldStage, step.name),
		logging.String(logging.FieldEventType, "stage_start"))

	if err := step.handler.Prepare(stageCtx, j); err != nil {
		return err
	}
	if err := step.handler.Execute(stageCtx, j); err != nil {
		return err
	}

	p.sync(j)
	log.Info("stage completed",
		logging.String(logging.FieldStage, step.name),
		logging.Duration("stage_duration", time.Since(stageStart)),
		logging.String(logging.FieldEventType, "stage_complete"))
	return nil
}

func (p *Pipeline) transition(j *job.Job, status job.Status) {
	j.Status = status
	j.SetProgress(progressMessage(status), progressPercent(status))
	p.sync(j)
}

// sync copies the working job record into the registry so status queries
// observe live progress.
func (p *Pipeline) sync(j *job.Job) {
	p.deps.Registry.Update(j.ID, func(stored *job.Job) {
		*stored = *j
	})
}

// session rebuilds the path helper view over the job's workspace directory.
func (p *Pipeline) session(j *job.Job) *workspace.Session {
	return &workspace.Session{JobID: j.ID, Dir: j.WorkspaceDir}
}

func (p *Pipeline) composerFor(j *job.Job) (*compose.Composer, error) {
	width, height, err := config.ParseResolution(j.Resolution)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "parse resolution", "", err)
	}
	return p.newComposer(width, height), nil
}

var progressByStatus = map[job.Status]float64{
	job.StatusReceived:           0,
	job.StatusNormalizing:        5,
	job.StatusFetching:           15,
	job.StatusSubtitleProcessing: 35,
	job.StatusValidating:         45,
	job.StatusComposingFast:      55,
	job.StatusComposingFallback:  65,
	job.StatusPublishing:         85,
	job.StatusCleanup:            95,
	job.StatusDone:               100,
}

func progressPercent(status job.Status) float64 {
	return progressByStatus[status]
}

func progressMessage(status job.Status) string {
	return fmt.Sprintf("stage %s", status)
}
