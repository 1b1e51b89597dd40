package timing

import "time"

type systemClock struct{}

// SystemClock returns the wall clock. Durations rely on Go's monotonic
// clock reading, so they are never negative.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Since(start time.Time) time.Duration {
	return time.Since(start)
}

var _ Clock = systemClock{}
