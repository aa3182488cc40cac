// Package fetchlog keeps a record of every upstream fetch: which endpoint
// was asked, how it answered and whether a fallback payload was served
// instead. The settings page reads it to show the health of each data
// source.
package fetchlog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is the outcome of one upstream fetch.
type Event struct {
	ID         string
	Endpoint   string
	Status     int // zero when no response was received
	DurationMs int64
	Fallback   bool
	Error      string
	At         time.Time
}

// NewEvent returns an event with a fresh id, timestamped now.
func NewEvent(endpoint string, status int, duration time.Duration, err error) Event {
	e := Event{
		ID:         uuid.NewString(),
		Endpoint:   endpoint,
		Status:     status,
		DurationMs: duration.Milliseconds(),
		Fallback:   err != nil,
		At:         time.Now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// Stat aggregates the events of one endpoint.
type Stat struct {
	Endpoint   string
	Requests   int
	Fallbacks  int
	LastStatus int
	LastError  string
	LastAt     time.Time
}

// Healthy reports whether the most recent fetch was served live.
func (s Stat) Healthy() bool { return s.LastError == "" }

// Recorder stores fetch outcomes.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Reader queries stored fetch outcomes.
type Reader interface {
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
	// Stats returns one entry per endpoint, ordered by endpoint.
	Stats(ctx context.Context) ([]Stat, error)
}

// Log is a fetch log backend.
type Log interface {
	Recorder
	Reader
	Close() error
}
