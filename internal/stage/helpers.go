package stage

import (
	"filmstrip/internal/job"
	"filmstrip/internal/segment"
	"filmstrip/internal/services"
)

// Segments returns the job's normalized segments.
// On absence it returns a services.ErrValidation suitable for stage Execute methods.
func Segments(j *job.Job) ([]segment.Segment, error) {
	if len(j.Segments) == 0 {
		return nil, services.Wrap(
			services.ErrValidation, "stage", "load segments",
			"normalized segments missing; normalization must run first", nil)
	}
	return j.Segments, nil
}
