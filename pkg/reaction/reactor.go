package reaction

import (
	"context"

	"github.com/askiada/go-reaction/pkg/reaction/model"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

// reactor walks a built step sequence against an initial value. It
// lives for exactly one Run call: it owns the current outcome and the
// log being built, and is never reused.
//
// The reactor has two states. While current carries no failure it is
// running and every step executes. The first failure halts it and the
// halted state is absorbing: later steps are skipped entirely, they
// consume their index but start no clock and produce no record.
type reactor struct {
	clock     timing.Clock
	log       *timing.Log
	observers []model.Observer
	info      model.RunInfo

	current any
	err     error
}

// Run executes the chain on the calling goroutine and blocks until the
// sequence is exhausted or short-circuited. It always returns normally:
// a step failure comes back as a failed outcome, never as a panic.
//
// The log is a true partial record of the run, one record per executed
// step in execution order, up to and including the failing step. The
// context is observed between steps only; a step is never cancelled
// mid-execution.
func (b *Builder[V]) Run(ctx context.Context, opts ...RunOption) (Outcome[V], *timing.Log) {
	cfg := newRunConfig(opts...)
	startedAt := cfg.clock.Now()

	if b == nil {
		return Failure[V](ErrBuilderMustBeSet), timing.NewLog(cfg.runID, startedAt)
	}

	rea := &reactor{
		clock:     cfg.clock,
		log:       timing.NewLog(cfg.runID, startedAt),
		observers: cfg.observers,
		info: model.RunInfo{
			ID:        cfg.runID,
			Steps:     b.count,
			StartedAt: startedAt,
		},
		current: b.initial,
		err:     b.failure,
	}

	rea.execute(ctx, b.sequence())

	if rea.err != nil {
		return Failure[V](rea.err), rea.log
	}

	value, _ := rea.current.(V)

	return Success(value), rea.log
}

func (r *reactor) execute(ctx context.Context, steps []anyStep) {
	for _, obs := range r.observers {
		obs.OnRunStart(ctx, r.info)
	}

	for _, step := range steps {
		r.executeStep(ctx, step)
	}

	result := model.RunResult{
		Duration: r.clock.Since(r.info.StartedAt),
		Records:  r.log.Len(),
		Err:      r.err,
	}
	for _, obs := range r.observers {
		obs.OnRunEnd(ctx, r.info, result)
	}
}

func (r *reactor) executeStep(ctx context.Context, step anyStep) {
	if r.err != nil {
		return
	}

	if err := ctx.Err(); err != nil {
		r.err = err

		return
	}

	for _, obs := range r.observers {
		obs.OnStepStart(ctx, r.info, step.info)
	}

	start := r.clock.Now()
	out, label, err := r.invoke(ctx, step)
	elapsed := r.clock.Since(start)

	if label == "" {
		label = step.info.Name
	}

	r.log.Append(timing.Record{
		Index:    step.info.Index,
		Label:    label,
		Duration: elapsed,
	})

	result := model.StepResult{Label: label, Duration: elapsed, Err: err}
	for _, obs := range r.observers {
		obs.OnStepDone(ctx, r.info, step.info, result)
	}

	if err != nil {
		r.err = err

		return
	}

	r.current = out
}

func (r *reactor) invoke(ctx context.Context, step anyStep) (any, string, error) {
	if step.exec == nil {
		return nil, "", ErrStepMustBeSet
	}

	return step.exec(ctx, r.current)
}
