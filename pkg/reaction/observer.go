package reaction

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/askiada/go-reaction/pkg/reaction/model"
)

// loggingObserver emits one event per executed step plus run start and
// end events.
type loggingObserver struct {
	logger zerolog.Logger
}

func (o *loggingObserver) OnRunStart(_ context.Context, info model.RunInfo) {
	o.logger.Info().
		Str("run_id", info.ID.String()).
		Int("steps", info.Steps).
		Msg("run started")
}

func (o *loggingObserver) OnStepStart(_ context.Context, _ model.RunInfo, _ model.StepInfo) {
}

func (o *loggingObserver) OnStepDone(_ context.Context, info model.RunInfo, step model.StepInfo, result model.StepResult) {
	evt := o.logger.Info()
	msg := "step completed"

	if result.Err != nil {
		evt = o.logger.Error().Err(result.Err)
		msg = "step failed"
	}

	evt.
		Str("run_id", info.ID.String()).
		Int("index", step.Index).
		Str("label", result.Label).
		Dur("duration", result.Duration).
		Msg(msg)
}

func (o *loggingObserver) OnRunEnd(_ context.Context, info model.RunInfo, result model.RunResult) {
	evt := o.logger.Info()
	msg := "run succeeded"

	if result.Err != nil {
		evt = o.logger.Error().Err(result.Err)
		msg = "run halted"
	}

	evt.
		Str("run_id", info.ID.String()).
		Int("records", result.Records).
		Dur("duration", result.Duration).
		Msg(msg)
}

// tracingObserver opens a span for the run and a child span per
// executed step. A fresh instance is created per run, so holding the
// open spans between hooks is safe.
type tracingObserver struct {
	tracer   trace.Tracer
	runCtx   context.Context //nolint:containedctx //parents the step spans between hooks
	runSpan  trace.Span
	stepSpan trace.Span
}

func (o *tracingObserver) OnRunStart(ctx context.Context, info model.RunInfo) {
	o.runCtx, o.runSpan = o.tracer.Start(ctx, "reaction.run",
		trace.WithAttributes(
			attribute.String("reaction.run_id", info.ID.String()),
			attribute.Int("reaction.steps", info.Steps),
		),
	)
}

func (o *tracingObserver) OnStepStart(_ context.Context, _ model.RunInfo, step model.StepInfo) {
	if o.runCtx == nil {
		return
	}

	_, o.stepSpan = o.tracer.Start(o.runCtx, "reaction.step",
		trace.WithAttributes(
			attribute.Int("reaction.step.index", step.Index),
			attribute.String("reaction.step.name", step.Name),
			attribute.String("reaction.step.type", string(step.Type)),
		),
	)
}

func (o *tracingObserver) OnStepDone(_ context.Context, _ model.RunInfo, _ model.StepInfo, result model.StepResult) {
	if o.stepSpan == nil {
		return
	}

	o.stepSpan.SetAttributes(attribute.String("reaction.step.label", result.Label))

	if result.Err != nil {
		o.stepSpan.RecordError(result.Err)
		o.stepSpan.SetStatus(codes.Error, result.Err.Error())
	}

	o.stepSpan.End()
	o.stepSpan = nil
}

func (o *tracingObserver) OnRunEnd(_ context.Context, _ model.RunInfo, result model.RunResult) {
	if o.runSpan == nil {
		return
	}

	o.runSpan.SetAttributes(attribute.Int("reaction.records", result.Records))

	if result.Err != nil {
		o.runSpan.RecordError(result.Err)
		o.runSpan.SetStatus(codes.Error, result.Err.Error())
	}

	o.runSpan.End()
}

var (
	_ model.Observer = (*loggingObserver)(nil)
	_ model.Observer = (*tracingObserver)(nil)
)
