package reaction

import "fmt"

// Outcome is the result threaded through a chain: either a success
// value or a failure. Once a run reaches a failure, no further step
// executes and the failure propagates unchanged to the caller.
//
// The zero value is a success holding the zero value of T. An outcome
// is a failure exactly when Err returns non-nil.
type Outcome[T any] struct {
	value T
	err   error
}

// Success returns a successful outcome holding value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failure returns a failed outcome. A nil err is replaced with
// ErrFailureMustBeSet so the outcome still reports failure.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrFailureMustBeSet
	}

	return Outcome[T]{err: err}
}

// IsSuccess reports whether the outcome holds a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

// IsFailure reports whether the outcome holds a failure.
func (o Outcome[T]) IsFailure() bool {
	return o.err != nil
}

// Value returns the success value, or the zero value of T after a
// failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() error {
	return o.err
}

// Get unpacks the outcome for callers that only want the value and a
// plain error.
func (o Outcome[T]) Get() (T, error) {
	return o.value, o.err
}

func (o Outcome[T]) String() string {
	if o.err != nil {
		return fmt.Sprintf("failure(%v)", o.err)
	}

	return fmt.Sprintf("success(%v)", o.value)
}
