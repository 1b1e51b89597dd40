package timing

import "time"

// Clock measures how long a unit of work takes. Runs use the system
// clock unless the caller injects another implementation.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time
	// Since returns the time elapsed since start.
	Since(start time.Time) time.Duration
}
