package reaction_test

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-reaction/pkg/reaction"
	"github.com/askiada/go-reaction/pkg/reaction/model"
	"github.com/askiada/go-reaction/pkg/reaction/timing"
)

var errBoom = errors.New("boom")

func addStep(n int) *reaction.Step[int, int] {
	return reaction.Transform("add", func(_ context.Context, in int) int {
		return in + n
	})
}

func squareStep() *reaction.Step[int, int] {
	return reaction.Transform("square", func(_ context.Context, in int) int {
		return in * in
	})
}

func labels(t *testing.T, log *timing.Log) []string {
	t.Helper()

	records := log.Records()
	out := make([]string, 0, len(records))

	for _, rec := range records {
		out = append(out, rec.Label)
	}

	return out
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	chain := reaction.Then(
		reaction.Then(
			reaction.Then(
				reaction.Input(5),
				addStep(1),
			),
			reaction.Transform("double", func(_ context.Context, in int) int {
				return in * 2
			}),
		),
		reaction.Transform("to_string", func(_ context.Context, in int) string {
			return strconv.Itoa(in)
		}),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, "12", outcome.Value())

	records := log.Records()
	require.Len(t, records, 3)
	assert.Equal(t, []string{"add", "double", "to_string"}, labels(t, log))

	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.Duration, time.Duration(0))
	}
}

func TestRunShortCircuit(t *testing.T) {
	t.Parallel()

	var executions atomic.Int64

	counted := func(name string, fail bool) *reaction.Step[int, int] {
		return reaction.Apply(name, func(_ context.Context, in int) (int, error) {
			executions.Add(1)

			if fail {
				return 0, errBoom
			}

			return in, nil
		})
	}

	chain := reaction.Then(
		reaction.Then(
			reaction.Then(
				reaction.Then(
					reaction.Input(1),
					counted("first", false),
				),
				counted("second", false),
			),
			counted("third", true),
		),
		counted("fourth", false),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	// The failure propagates verbatim, never wrapped.
	assert.Equal(t, errBoom, outcome.Err())

	// The failing step is the third of four: three executions, three
	// records, nothing after.
	assert.Equal(t, int64(3), executions.Load())
	assert.Equal(t, []string{"first", "second", "third"}, labels(t, log))
}

func TestRunIfElse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input         int
		expectedValue int
		expectedLabel string
	}{
		"even input runs then branch": {
			input:         4,
			expectedValue: 16,
			expectedLabel: "then:square",
		},
		"odd input runs else branch": {
			input:         5,
			expectedValue: 6,
			expectedLabel: "else:add",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			chain := reaction.IfElse(
				reaction.Input(tc.input),
				func(in int) bool { return in%2 == 0 },
				squareStep(),
				addStep(1),
			)

			outcome, log := chain.Run(context.Background())

			require.True(t, outcome.IsSuccess())
			assert.Equal(t, tc.expectedValue, outcome.Value())
			assert.Equal(t, []string{tc.expectedLabel}, labels(t, log))
		})
	}
}

func TestRunIfElseSingleBranchExecutes(t *testing.T) {
	t.Parallel()

	var thenRuns, elseRuns atomic.Int64

	chain := reaction.IfElse(
		reaction.Input(4),
		func(in int) bool { return in%2 == 0 },
		reaction.Transform("then", func(_ context.Context, in int) int {
			thenRuns.Add(1)

			return in
		}),
		reaction.Transform("else", func(_ context.Context, in int) int {
			elseRuns.Add(1)

			return in
		}),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, int64(1), thenRuns.Load())
	assert.Equal(t, int64(0), elseRuns.Load())
	assert.Equal(t, 1, log.Len())
}

func TestRunForEach(t *testing.T) {
	t.Parallel()

	chain := reaction.ForEach(
		reaction.Input([]int{1, 2, 3, 4}),
		squareStep(),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, []int{1, 4, 9, 16}, outcome.Value())
	assert.Equal(t, []string{"each:square"}, labels(t, log))
}

func TestRunForEachFailFast(t *testing.T) {
	t.Parallel()

	var seen []int

	chain := reaction.ForEach(
		reaction.Input([]int{1, 2, -1, 4}),
		reaction.Apply("positive", func(_ context.Context, in int) (int, error) {
			seen = append(seen, in)

			if in < 0 {
				return 0, errBoom
			}

			return in, nil
		}),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	assert.Equal(t, errBoom, outcome.Err())

	// The third element fails; the fourth is never evaluated. The
	// combinator still produces its single record.
	assert.Equal(t, []int{1, 2, -1}, seen)
	assert.Equal(t, 1, log.Len())
}

func TestRunMerge(t *testing.T) {
	t.Parallel()

	chain := reaction.Merge(
		reaction.Input([]int{10, 20, 30, 40}),
		func(acc, next int) int { return acc + next },
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, 100, outcome.Value())
	assert.Equal(t, []string{"merge"}, labels(t, log))
}

func TestRunMergeSingleElement(t *testing.T) {
	t.Parallel()

	chain := reaction.Merge(
		reaction.Input([]int{7}),
		func(acc, next int) int { return acc + next },
	)

	outcome, _ := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, 7, outcome.Value())
}

func TestRunMergeEmptySequence(t *testing.T) {
	t.Parallel()

	chain := reaction.Merge(
		reaction.Input([]int{}),
		func(acc, next int) int { return acc + next },
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	assert.ErrorIs(t, outcome.Err(), reaction.ErrEmptySequence)
	assert.Equal(t, 1, log.Len())
}

func TestRunFromFailure(t *testing.T) {
	t.Parallel()

	var executions atomic.Int64

	chain := reaction.Then(
		reaction.From(reaction.Failure[int](errBoom)),
		reaction.Apply("never", func(_ context.Context, in int) (int, error) {
			executions.Add(1)

			return in, nil
		}),
	)

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	assert.Equal(t, errBoom, outcome.Err())
	assert.Equal(t, int64(0), executions.Load())
	assert.Equal(t, 0, log.Len())
}

func TestRunFromSuccess(t *testing.T) {
	t.Parallel()

	chain := reaction.Then(reaction.From(reaction.Success(20)), addStep(1))

	outcome, _ := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, 21, outcome.Value())
}

func TestRunContextCancelled(t *testing.T) {
	t.Parallel()

	var executions atomic.Int64

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := reaction.Then(
		reaction.Input(1),
		reaction.Apply("never", func(_ context.Context, in int) (int, error) {
			executions.Add(1)

			return in, nil
		}),
	)

	outcome, log := chain.Run(ctx)

	require.True(t, outcome.IsFailure())
	assert.ErrorIs(t, outcome.Err(), context.Canceled)
	assert.Equal(t, int64(0), executions.Load())
	assert.Equal(t, 0, log.Len())
}

func TestRunContextCancelledBetweenSteps(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	chain := reaction.Then(
		reaction.Then(
			reaction.Input(1),
			reaction.Transform("cancel", func(_ context.Context, in int) int {
				cancel()

				return in
			}),
		),
		addStep(1),
	)

	outcome, log := chain.Run(ctx)

	require.True(t, outcome.IsFailure())
	assert.ErrorIs(t, outcome.Err(), context.Canceled)

	// The cancelling step completed and was recorded; the next one
	// never started.
	assert.Equal(t, []string{"cancel"}, labels(t, log))
}

func TestRunDeterministicStructure(t *testing.T) {
	t.Parallel()

	chain := reaction.Merge(
		reaction.ForEach(
			reaction.Input([]int{1, 2, 3}),
			squareStep(),
		),
		func(acc, next int) int { return acc + next },
	)

	first, firstLog := chain.Run(context.Background())
	second, secondLog := chain.Run(context.Background())

	require.True(t, first.IsSuccess())
	require.True(t, second.IsSuccess())
	assert.Equal(t, first.Value(), second.Value())
	assert.Equal(t, labels(t, firstLog), labels(t, secondLog))
	assert.NotEqual(t, firstLog.RunID(), secondLog.RunID())
}

func TestBuilderSharedPrefix(t *testing.T) {
	t.Parallel()

	base := reaction.Then(reaction.Input(10), addStep(1))

	doubled := reaction.Then(base, reaction.Transform("double", func(_ context.Context, in int) int {
		return in * 2
	}))
	squared := reaction.Then(base, squareStep())

	baseOutcome, baseLog := base.Run(context.Background())
	doubledOutcome, _ := doubled.Run(context.Background())
	squaredOutcome, _ := squared.Run(context.Background())

	assert.Equal(t, 11, baseOutcome.Value())
	assert.Equal(t, 1, baseLog.Len())
	assert.Equal(t, 22, doubledOutcome.Value())
	assert.Equal(t, 121, squaredOutcome.Value())
}

func TestRunConcurrentReuse(t *testing.T) {
	t.Parallel()

	chain := reaction.Then(reaction.Then(reaction.Input(5), addStep(1)), squareStep())

	grp, ctx := errgroup.WithContext(context.Background())

	for range 16 {
		grp.Go(func() error {
			outcome, log := chain.Run(ctx)

			value, err := outcome.Get()
			if err != nil {
				return err
			}

			if value != 36 {
				return errors.Errorf("expected 36, got %d", value)
			}

			if log.Len() != 2 {
				return errors.Errorf("expected 2 records, got %d", log.Len())
			}

			return nil
		})
	}

	require.NoError(t, grp.Wait())
}

func TestRunNilStep(t *testing.T) {
	t.Parallel()

	chain := reaction.Then(reaction.Input(1), (*reaction.Step[int, int])(nil))

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	assert.ErrorIs(t, outcome.Err(), reaction.ErrStepMustBeSet)
	assert.Equal(t, []string{"step[0]"}, labels(t, log))
}

func TestRunNilBuilder(t *testing.T) {
	t.Parallel()

	chain := reaction.Then(nil, addStep(1))

	outcome, log := chain.Run(context.Background())

	require.True(t, outcome.IsFailure())
	assert.ErrorIs(t, outcome.Err(), reaction.ErrBuilderMustBeSet)
	assert.Equal(t, 0, log.Len())
}

func TestRunWithRunID(t *testing.T) {
	t.Parallel()

	runID := uuid.New()

	chain := reaction.Then(reaction.Input(1), addStep(1))

	_, log := chain.Run(context.Background(), reaction.WithRunID(runID))

	assert.Equal(t, runID, log.RunID())
}

func TestRunEffect(t *testing.T) {
	t.Parallel()

	var observed int

	chain := reaction.Then(
		reaction.Then(
			reaction.Then(reaction.Input(5), addStep(2)),
			reaction.Effect("observe", func(_ context.Context, in int) error {
				observed = in

				return nil
			}),
		),
		squareStep(),
	)

	outcome, _ := chain.Run(context.Background())

	require.True(t, outcome.IsSuccess())
	assert.Equal(t, 7, observed)
	assert.Equal(t, 49, outcome.Value())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	chain := reaction.Merge(
		reaction.ForEach(
			reaction.IfElse(
				reaction.Then(reaction.Input([]int{1, 2}), reaction.Transform("head", func(_ context.Context, in []int) []int {
					return in
				})),
				func(in []int) bool { return len(in) > 0 },
				reaction.Transform("keep", func(_ context.Context, in []int) []int { return in }),
				reaction.Transform("drop", func(_ context.Context, _ []int) []int { return nil }),
			),
			squareStep(),
		),
		func(acc, next int) int { return acc + next },
	)

	infos := chain.Describe()
	require.Len(t, infos, 4)

	assert.Equal(t, model.NormalStepType, infos[0].Type)
	assert.Equal(t, "head", infos[0].Name)
	assert.Equal(t, model.BranchStepType, infos[1].Type)
	assert.Equal(t, []string{"then:keep", "else:drop"}, infos[1].Branches)
	assert.Equal(t, model.EachStepType, infos[2].Type)
	assert.Equal(t, "each:square", infos[2].Name)
	assert.Equal(t, model.FoldStepType, infos[3].Type)

	// The description is stable.
	assert.Equal(t, infos, chain.Describe())
}
