package worldgen

import (
	"fmt"
	"time"
)

// StageTiming records how long one completed pipeline stage took.
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
}

// GenerationError is the terminal failure of a run. Timings cover the
// stages that completed before the failing one, in pipeline order.
type GenerationError struct {
	Stage   string
	Err     error
	Timings []StageTiming
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
