package reaction

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/askiada/go-reaction/pkg/reaction/model"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

type runConfig struct {
	clock     timing.Clock
	runID     uuid.UUID
	observers []model.Observer
}

func newRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{
		clock: timing.SystemClock(),
		runID: uuid.New(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// RunOption configures one Run call.
type RunOption func(cfg *runConfig)

// WithClock replaces the system clock used to time steps.
func WithClock(clock timing.Clock) RunOption {
	return func(cfg *runConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// WithRunID replaces the generated run identifier.
func WithRunID(runID uuid.UUID) RunOption {
	return func(cfg *runConfig) {
		cfg.runID = runID
	}
}

// WithObserver registers an observer for the run. Observers fire in
// registration order, on the run goroutine.
func WithObserver(observer model.Observer) RunOption {
	return func(cfg *runConfig) {
		if observer != nil {
			cfg.observers = append(cfg.observers, observer)
		}
	}
}

// WithLogger registers an observer logging one event per executed step
// and the run start and end. Without this option the run stays silent.
func WithLogger(logger zerolog.Logger) RunOption {
	return WithObserver(&loggingObserver{logger: logger})
}

// WithTracer registers an observer opening a span for the run and a
// child span per executed step.
func WithTracer(tracer trace.Tracer) RunOption {
	return func(cfg *runConfig) {
		if tracer != nil {
			cfg.observers = append(cfg.observers, &tracingObserver{tracer: tracer})
		}
	}
}
