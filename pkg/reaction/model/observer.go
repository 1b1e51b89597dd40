package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunInfo identifies one execution of a built chain.
type RunInfo struct {
	ID        uuid.UUID
	Steps     int
	StartedAt time.Time
}

// StepResult reports one executed step. Err is the step's failure, nil
// on success.
type StepResult struct {
	Label    string
	Duration time.Duration
	Err      error
}

// RunResult reports a finished run.
type RunResult struct {
	Duration time.Duration
	Records  int
	Err      error
}

// Observer receives lifecycle notifications during a run.
//
// Hooks run synchronously on the run goroutine, in registration order.
// They cannot alter the run outcome. Steps skipped after a failure
// notify nothing. A stateful observer must not be shared between
// concurrent runs.
type Observer interface {
	// OnRunStart runs before the first step executes.
	OnRunStart(ctx context.Context, info RunInfo)
	// OnStepStart runs before each executed step.
	OnStepStart(ctx context.Context, info RunInfo, step StepInfo)
	// OnStepDone runs after each executed step.
	OnStepDone(ctx context.Context, info RunInfo, step StepInfo, result StepResult)
	// OnRunEnd runs once the sequence is exhausted, whether the run
	// succeeded or halted.
	OnRunEnd(ctx context.Context, info RunInfo, result RunResult)
}
