package poller

import (
	"time"

	"clinicwatch/internal/navigator"
)

// Iteration summarizes one pass of the loop body.
type Iteration struct {
	Run     int
	CheckID string
	// State is WAIT or NOTIFY_AND_STOP.
	State  State
	Reason string

	Navigation navigator.Outcome
	Navigated  bool
	Available  bool
	// Ambiguous is set when the availability text was empty.
	Ambiguous bool
	// Diverged is set when either classifier's answer depended on whitespace
	// in the recognized text.
	Diverged bool

	// Err is the classified failure that routed the iteration to WAIT.
	Err error
	// NotifyErr is the delivery failure, if any, in NOTIFY_AND_STOP.
	NotifyErr error

	StartedAt time.Time
	Duration  time.Duration
}

// Report summarizes a Run.
type Report struct {
	Iterations int
	Last       Iteration
	StartedAt  time.Time
	FinishedAt time.Time
}

// Stopped reports whether the loop ended by notifying.
func (r Report) Stopped() bool {
	return r.Last.State.Terminal()
}
