package reaction

import (
	"context"
	"fmt"

	"github.com/askiada/go-reaction/pkg/reaction/model"
)

// anyStep is the type-erased form a typed step takes once appended.
// exec receives the current value and returns the next value plus the
// record label a branch resolves at execution time; an empty label
// means the step's own name. A nil exec halts the run with
// ErrStepMustBeSet.
type anyStep struct {
	info model.StepInfo
	exec func(ctx context.Context, in any) (out any, label string, err error)
}

// node is one link of the persistent step list. Appending never
// mutates an existing node, so builders sharing a prefix stay
// independent.
type node struct {
	prev *node
	step anyStep
}

// Builder describes a chain of steps over an evolving value. V is the
// output type of the last position, tracked at compile time, so a step
// whose input type does not match the chain cannot be appended.
//
// A Builder is immutable: every chaining call returns a new builder
// sharing the already built prefix. Building is purely descriptive, no
// step executes before Run. A builder can be extended in different
// directions, shared between goroutines and run any number of times;
// each run starts from the builder's initial value and produces its
// own log.
type Builder[V any] struct {
	last    *node
	count   int
	initial any
	failure error
}

// Input starts a chain from a value.
func Input[V any](value V) *Builder[V] {
	return &Builder[V]{initial: value}
}

// From starts a chain from a prior outcome, so pipelines compose. A
// failed outcome short-circuits the whole run: no step executes and no
// record is produced.
func From[V any](outcome Outcome[V]) *Builder[V] {
	if outcome.IsFailure() {
		return &Builder[V]{failure: outcome.Err()}
	}

	return &Builder[V]{initial: outcome.Value()}
}

// extend appends one erased step, leaving b untouched.
func extend[O, I any](b *Builder[I], st anyStep) *Builder[O] {
	return &Builder[O]{
		last:    &node{prev: b.last, step: st},
		count:   b.count + 1,
		initial: b.initial,
		failure: b.failure,
	}
}

// Then appends one step. It is a function rather than a method so the
// output type may differ from the input type.
func Then[I, O any](b *Builder[I], step *Step[I, O]) *Builder[O] {
	if b == nil {
		return &Builder[O]{failure: ErrBuilderMustBeSet}
	}

	info := model.StepInfo{
		Type:  model.NormalStepType,
		Name:  stepName(step, b.count),
		Index: b.count,
	}

	if step == nil || step.fn == nil {
		return extend[O](b, anyStep{info: info})
	}

	fn := step.fn

	return extend[O](b, anyStep{
		info: info,
		exec: func(ctx context.Context, in any) (any, string, error) {
			out, err := fn(ctx, in.(I))

			return out, "", err
		},
	})
}

// IfElse appends one branching step. At execution time the predicate
// picks which branch runs; only the executed branch produces a record,
// labelled "then:" or "else:" plus the branch step name. Both branches
// must produce the same output type. The predicate cannot fail; a
// branch that needs to fail should do so inside its step.
func IfElse[I, O any](b *Builder[I], predicate func(I) bool, thenStep, elseStep *Step[I, O]) *Builder[O] {
	if b == nil {
		return &Builder[O]{failure: ErrBuilderMustBeSet}
	}

	thenLabel := "then:" + stepName(thenStep, b.count)
	elseLabel := "else:" + stepName(elseStep, b.count)
	info := model.StepInfo{
		Type:     model.BranchStepType,
		Name:     fmt.Sprintf("if_else[%d]", b.count),
		Index:    b.count,
		Branches: []string{thenLabel, elseLabel},
	}

	if predicate == nil || thenStep == nil || thenStep.fn == nil || elseStep == nil || elseStep.fn == nil {
		return extend[O](b, anyStep{info: info})
	}

	thenFn, elseFn := thenStep.fn, elseStep.fn

	return extend[O](b, anyStep{
		info: info,
		exec: func(ctx context.Context, in any) (any, string, error) {
			value := in.(I)
			if predicate(value) {
				out, err := thenFn(ctx, value)

				return out, thenLabel, err
			}

			out, err := elseFn(ctx, value)

			return out, elseLabel, err
		},
	})
}

// ForEach appends one step applying step to every element of the
// current slice, left to right, collecting the outputs in order. The
// first element failure halts the whole step; later elements are never
// evaluated. The step produces a single record covering all elements.
func ForEach[E, O any](b *Builder[[]E], step *Step[E, O]) *Builder[[]O] {
	if b == nil {
		return &Builder[[]O]{failure: ErrBuilderMustBeSet}
	}

	info := model.StepInfo{
		Type:  model.EachStepType,
		Name:  "each:" + stepName(step, b.count),
		Index: b.count,
	}

	if step == nil || step.fn == nil {
		return extend[[]O](b, anyStep{info: info})
	}

	fn := step.fn

	return extend[[]O](b, anyStep{
		info: info,
		exec: func(ctx context.Context, in any) (any, string, error) {
			items := in.([]E)
			outs := make([]O, 0, len(items))

			for _, item := range items {
				out, err := fn(ctx, item)
				if err != nil {
					return nil, "", err
				}

				outs = append(outs, out)
			}

			return outs, "", nil
		},
	})
}

// Merge appends one step folding the current slice left to right,
// seeded with the first element. Folding an empty slice fails with
// ErrEmptySequence. The combine function cannot fail; a fallible
// reduction belongs in a following step.
func Merge[E any](b *Builder[[]E], combine func(acc, next E) E) *Builder[E] {
	if b == nil {
		return &Builder[E]{failure: ErrBuilderMustBeSet}
	}

	info := model.StepInfo{
		Type:  model.FoldStepType,
		Name:  "merge",
		Index: b.count,
	}

	if combine == nil {
		return extend[E](b, anyStep{info: info})
	}

	return extend[E](b, anyStep{
		info: info,
		exec: func(_ context.Context, in any) (any, string, error) {
			items := in.([]E)
			if len(items) == 0 {
				return nil, "", ErrEmptySequence
			}

			acc := items[0]
			for _, item := range items[1:] {
				acc = combine(acc, item)
			}

			return acc, "", nil
		},
	})
}

// Describe returns the chain structure in order. The same builder
// always returns the same description.
func (b *Builder[V]) Describe() []model.StepInfo {
	if b == nil {
		return nil
	}

	infos := make([]model.StepInfo, b.count)
	for n := b.last; n != nil; n = n.prev {
		infos[n.step.info.Index] = n.step.info
	}

	return infos
}

// sequence materialises the persistent list in execution order.
func (b *Builder[V]) sequence() []anyStep {
	steps := make([]anyStep, b.count)
	for n := b.last; n != nil; n = n.prev {
		steps[n.step.info.Index] = n.step
	}

	return steps
}
