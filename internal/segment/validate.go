package segment

import (
	"fmt"
	"math"

	"filmstrip/internal/services"
)

// ValidateDurations checks that every segment carries a finite positive
// duration. It must run after subtitle processing, which may recalculate
// durations from word timing hints. The first offending index is reported
// in the error.
func ValidateDurations(segments []Segment) error {
	for i, seg := range segments {
		if seg.Duration > 0 && !math.IsInf(seg.Duration, 1) {
			continue
		}
		return services.Wrap(
			services.ErrValidation, "segment", "validate durations",
			fmt.Sprintf("segment %d: duration must be a finite positive number, got %v", i, seg.Duration), nil)
	}
	return nil
}
