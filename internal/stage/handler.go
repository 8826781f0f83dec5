package stage

import (
	"context"

	"filmstrip/internal/job"
)

// Handler describes the contract the pipeline needs from each render stage.
type Handler interface {
	Prepare(context.Context, *job.Job) error
	Execute(context.Context, *job.Job) error
	HealthCheck(context.Context) Health
}
