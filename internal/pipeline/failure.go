package pipeline

import (
	"context"
	"fmt"

	"filmstrip/internal/job"
	"filmstrip/internal/logging"
	"filmstrip/internal/services"
)

// genericFailureMessage is what production callers see instead of internal
// error detail.
const genericFailureMessage = "render job failed"

// Error is a job failure shaped for the caller. Message and WorkspacePath
// are environment-gated: production payloads carry a generic message and no
// internal paths, while development payloads keep the full detail plus the
// retained workspace for postmortem.
type Error struct {
	JobID         string
	Stage         string
	Message       string
	WorkspacePath string
	Err           error
}

func (e *Error) Error() string {
	return fmt.Sprintf("job %s failed at %s: %s", e.JobID, e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// fail is the single exit point for post-intake failures: it applies the
// cleanup/retention policy, records the terminal state, notifies, and
// shapes the caller-facing error.
func (p *Pipeline) fail(ctx context.Context, j *job.Job, stageName string, stageErr error) error {
	log := logging.WithContext(ctx, p.logger)
	message := services.Message(stageErr)
	if message == "" {
		message = fmt.Sprintf("stage %s failed without detail", stageName)
	}

	retained := ""
	if j.WorkspaceDir != "" {
		if p.cfg.IsProduction() {
			p.deps.Workspaces.Release(p.session(j))
			j.WorkspaceDir = ""
		} else {
			retained = j.WorkspaceDir
		}
	}

	p.deps.Registry.Update(j.ID, func(stored *job.Job) {
		stored.SetFailed(message)
		stored.WorkspaceDir = retained
	})

	attrs := []logging.Attr{
		logging.String(logging.FieldStage, stageName),
		logging.String("error_kind", services.Kind(stageErr)),
		logging.Error(stageErr),
		logging.Alert("stage_failure"),
		logging.String(logging.FieldEventType, "job_failed"),
	}
	if retained != "" {
		attrs = append(attrs, logging.String("retained_workspace", retained))
	}
	log.Error("job failed", logging.Args(attrs...)...)

	if err := p.deps.Notifier.NotifyJobFailed(ctx, j.ID, stageName, message); err != nil {
		log.Warn("failure notification failed", logging.Error(err))
	}

	public := message
	if p.cfg.IsProduction() {
		public = genericFailureMessage
	}
	return &Error{
		JobID:         j.ID,
		Stage:         stageName,
		Message:       public,
		WorkspacePath: retained,
		Err:           stageErr,
	}
}
