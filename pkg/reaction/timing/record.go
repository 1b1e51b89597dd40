package timing

import (
	"fmt"
	"time"
)

// Record is the timing entry of one executed step. Index is the step
// position in the built sequence; steps skipped after a failure consume
// their index but never produce a record.
type Record struct {
	Index    int           `json:"index"`
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Label, round(r.Duration))
}

// round trims a duration to the precision worth displaying at its
// magnitude.
func round(d time.Duration) time.Duration {
	switch {
	case d > time.Minute:
		d = d.Round(time.Second)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
