package reaction

import "github.com/pkg/errors"

var (
	// ErrBuilderMustBeSet reports a chaining call on a nil builder. The
	// run still returns normally, carrying this failure.
	ErrBuilderMustBeSet = errors.New("builder must be set")
	// ErrStepMustBeSet reports a step built without a function, or a
	// branch built without a predicate.
	ErrStepMustBeSet = errors.New("step must be set")
	// ErrFailureMustBeSet replaces a nil error handed to Failure, so a
	// failed outcome always carries a failure.
	ErrFailureMustBeSet = errors.New("failure must be set")
	// ErrEmptySequence reports a fold over a sequence with no elements.
	ErrEmptySequence = errors.New("sequence must contain at least one element")
)
