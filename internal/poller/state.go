package poller

import (
	"clinicwatch/internal/services"
)

// State names a poll loop state.
type State string

const (
	StateLaunch            State = "LAUNCH"
	StateNavigateCheck     State = "NAVIGATE_CHECK"
	StateAvailabilityCheck State = "AVAILABILITY_CHECK"
	StateWait              State = "WAIT"
	StateNotifyAndStop     State = "NOTIFY_AND_STOP"
)

// Terminal reports whether the loop ends in this state.
func (s State) Terminal() bool {
	return s == StateNotifyAndStop
}

// Reasons recorded on an iteration.
const (
	ReasonSlotAvailable = "slot_available"
	ReasonNoSlots       = "no_slots"
	ReasonNotNavigated  = "not_navigated"
	ReasonCheckFailed   = "check_failed"
)

// check is the outcome of one classification step.
type check struct {
	state  State
	passed bool
	err    error
}

// decide maps a check outcome to the next state and a reason. Failures of
// any kind route to WAIT.
func decide(c check) (State, string) {
	if c.err != nil {
		return StateWait, ReasonCheckFailed + ":" + string(kindOf(c.err))
	}
	switch c.state {
	case StateNavigateCheck:
		if c.passed {
			return StateAvailabilityCheck, ""
		}
		return StateWait, ReasonNotNavigated
	case StateAvailabilityCheck:
		if c.passed {
			return StateNotifyAndStop, ReasonSlotAvailable
		}
		return StateWait, ReasonNoSlots
	default:
		return StateWait, ReasonCheckFailed
	}
}

func kindOf(err error) services.Kind {
	kind := services.Classify(err)
	if kind == services.KindNone {
		return services.KindUnknown
	}
	return kind
}
