package timing

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Log collects the records of a single run, in execution order. A Log
// belongs to exactly one run and is appended to from a single
// goroutine, so it carries no locking.
type Log struct {
	runID     uuid.UUID
	startedAt time.Time
	records   []Record
}

// NewLog creates an empty log for one run.
func NewLog(runID uuid.UUID, startedAt time.Time) *Log {
	return &Log{
		runID:     runID,
		startedAt: startedAt,
	}
}

// RunID identifies the run this log belongs to.
func (l *Log) RunID() uuid.UUID {
	return l.runID
}

// StartedAt returns the instant the run began.
func (l *Log) StartedAt() time.Time {
	return l.startedAt
}

// Append adds one record. Records arrive in execution order and are
// never reordered or removed.
func (l *Log) Append(rec Record) {
	l.records = append(l.records, rec)
}

// Records returns a copy of the recorded entries.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)

	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

// Total returns the summed duration of all records.
func (l *Log) Total() time.Duration {
	var total time.Duration
	for _, rec := range l.records {
		total += rec.Duration
	}

	return total
}

// WriteTextTo writes one line per record followed by a total line.
func (l *Log) WriteTextTo(wrt io.Writer) error {
	for _, rec := range l.records {
		_, err := fmt.Fprintf(wrt, "%d. %s\n", rec.Index+1, rec)
		if err != nil {
			return errors.Wrap(err, "unable to write record")
		}
	}

	_, err := fmt.Fprintf(wrt, "total (%s)\n", round(l.Total()))
	if err != nil {
		return errors.Wrap(err, "unable to write total")
	}

	return nil
}

func (l *Log) String() string {
	var sb strings.Builder

	_ = l.WriteTextTo(&sb)

	return sb.String()
}

type logJSON struct {
	RunID     string   `json:"run_id"`
	StartedAt string   `json:"started_at"`
	Total     int64    `json:"total_ns"`
	Records   []Record `json:"records"`
}

func (l *Log) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(logJSON{
		RunID:     l.runID.String(),
		StartedAt: l.startedAt.UTC().Format(time.RFC3339Nano),
		Total:     int64(l.Total()),
		Records:   l.records,
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal log")
	}

	return out, nil
}
