package reaction

import (
	"context"
	"fmt"
)

// Step is a single fallible transformation from I to O, tagged with a
// name used for timing attribution. A step must be pure with respect
// to the chain: it only sees the value it receives and only hands back
// the value it returns. Side effects are the author's responsibility.
type Step[I, O any] struct {
	name string
	fn   func(context.Context, I) (O, error)
}

// Apply returns a step wrapping a fallible transformation.
func Apply[I, O any](name string, fn func(context.Context, I) (O, error)) *Step[I, O] {
	return &Step[I, O]{name: name, fn: fn}
}

// Transform returns a step wrapping a transformation that cannot fail.
func Transform[I, O any](name string, fn func(context.Context, I) O) *Step[I, O] {
	if fn == nil {
		return &Step[I, O]{name: name}
	}

	return &Step[I, O]{
		name: name,
		fn: func(ctx context.Context, in I) (O, error) {
			return fn(ctx, in), nil
		},
	}
}

// Effect returns a step running a side effect and passing its input
// through unchanged. A failing effect halts the chain like any other
// step.
func Effect[T any](name string, fn func(context.Context, T) error) *Step[T, T] {
	if fn == nil {
		return &Step[T, T]{name: name}
	}

	return &Step[T, T]{
		name: name,
		fn: func(ctx context.Context, in T) (T, error) {
			return in, fn(ctx, in)
		},
	}
}

// Name returns the step name.
func (s *Step[I, O]) Name() string {
	return s.name
}

// stepName resolves the display name of a step at position idx.
func stepName[I, O any](s *Step[I, O], idx int) string {
	if s == nil || s.name == "" {
		return fmt.Sprintf("step[%d]", idx)
	}

	return s.name
}
