// Command reaction runs a few example chains: the arithmetic chain,
// a slice chain with ForEach and Merge, and a chain halted by a step
// failure. Configuration comes from an optional YAML file (first
// argument) and REACTION_ environment variables.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/askiada/go-reaction/internal/config"
	"github.com/askiada/go-reaction/internal/history"
	"github.com/askiada/go-reaction/internal/telemetry"
	"github.com/askiada/go-reaction/pkg/reaction"
	"github.com/askiada/go-reaction/pkg/reaction/drawer"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

var (
	errInvalidInput = errors.New("invalid input")
	errArithmetic   = errors.New("arithmetic error")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "reaction: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "unable to parse log level %s", cfg.LogLevel)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	ctx := context.Background()

	runOpts := []reaction.RunOption{reaction.WithLogger(logger)}

	if cfg.Tracing {
		shutdown, err := telemetry.InitTracer("reaction")
		if err != nil {
			return err
		}

		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("unable to shut down tracing")
			}
		}()

		runOpts = append(runOpts, reaction.WithTracer(otel.Tracer("reaction")))
	}

	var store *history.Store

	if cfg.History.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.History.Path), 0o750); err != nil {
			return errors.Wrap(err, "unable to create history directory")
		}

		store, err = history.New(cfg.History.Path)
		if err != nil {
			return err
		}

		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("unable to close history store")
			}
		}()
	}

	chains := []struct {
		name string
		run  func(context.Context, ...reaction.RunOption) (string, *timing.Log, error)
	}{
		{name: "arithmetic", run: runArithmetic},
		{name: "slice", run: runSlice},
		{name: "failing", run: runFailing},
	}

	for _, chain := range chains {
		value, log, err := chain.run(ctx, runOpts...)
		if err != nil {
			logger.Warn().Err(err).Str("chain", chain.name).Msg("chain halted")
		} else {
			logger.Info().Str("chain", chain.name).Str("value", value).Msg("chain succeeded")
		}

		fmt.Print(log.String())

		if store != nil {
			if err := store.SaveRun(ctx, log, err); err != nil {
				return err
			}
		}
	}

	if cfg.Drawing.Enabled {
		if err := drawChain(cfg.Drawing.Path); err != nil {
			return err
		}

		logger.Info().Str("path", cfg.Drawing.Path).Msg("chain drawn")
	}

	return nil
}

// runArithmetic is the canonical example: 5 -> add 2 -> square ->
// double -> to string.
func runArithmetic(ctx context.Context, opts ...reaction.RunOption) (string, *timing.Log, error) {
	chain := reaction.Then(
		reaction.Then(
			reaction.Then(
				reaction.Then(
					reaction.Input(5),
					add(2),
				),
				square(),
			),
			double(),
		),
		toString(),
	)

	outcome, log := chain.Run(ctx, opts...)
	value, err := outcome.Get()

	return value, log, err
}

// runSlice squares every element, sums them and renders the total.
func runSlice(ctx context.Context, opts ...reaction.RunOption) (string, *timing.Log, error) {
	chain := reaction.Then(
		reaction.Merge(
			reaction.ForEach(
				reaction.Input([]int{1, 2, 3, 4}),
				square(),
			),
			func(acc, next int) int { return acc + next },
		),
		toString(),
	)

	outcome, log := chain.Run(ctx, opts...)
	value, err := outcome.Get()

	return value, log, err
}

// runFailing halts on the square root of a negative number; the last
// step never executes.
func runFailing(ctx context.Context, opts ...reaction.RunOption) (string, *timing.Log, error) {
	chain := reaction.Then(
		reaction.Then(
			reaction.Then(
				reaction.Input(3),
				add(-12),
			),
			sqrt(),
		),
		toString(),
	)

	outcome, log := chain.Run(ctx, opts...)
	value, err := outcome.Get()

	return value, log, err
}

func drawChain(path string) error {
	chain := reaction.Then(
		reaction.IfElse(
			reaction.Then(
				reaction.Input(5),
				add(2),
			),
			func(in int) bool { return in%2 == 0 },
			square(),
			double(),
		),
		toString(),
	)

	outcome, log := chain.Run(context.Background())
	if outcome.IsFailure() {
		return outcome.Err()
	}

	drw := drawer.NewDOTDrawer()

	if err := drawer.Build(drw, chain.Describe()); err != nil {
		return err
	}

	if err := drw.ApplyTimings(log); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}
	defer func() { _ = file.Close() }()

	return drw.Draw(file)
}

func add(n int) *reaction.Step[int, int] {
	return reaction.Transform("add", func(_ context.Context, in int) int {
		return in + n
	})
}

func square() *reaction.Step[int, int] {
	return reaction.Apply("square", func(_ context.Context, in int) (int, error) {
		out := in * in
		if in != 0 && out/in != in {
			return 0, errArithmetic
		}

		return out, nil
	})
}

func double() *reaction.Step[int, int] {
	return reaction.Transform("double", func(_ context.Context, in int) int {
		return in * 2
	})
}

func sqrt() *reaction.Step[int, int] {
	return reaction.Apply("sqrt", func(_ context.Context, in int) (int, error) {
		if in < 0 {
			return 0, errors.Wrapf(errInvalidInput, "square root of %d", in)
		}

		root := 0
		for (root+1)*(root+1) <= in {
			root++
		}

		return root, nil
	})
}

func toString() *reaction.Step[int, string] {
	return reaction.Transform("to_string", func(_ context.Context, in int) string {
		return strconv.Itoa(in)
	})
}
