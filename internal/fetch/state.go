package fetch

import (
	"fmt"
	"time"
)

// State is a step of the fetch state machine:
//
//	Idle -> Attempting -> Succeeded
//	                   -> RetryScheduled -> Attempting
//	                   -> Failed
type State int

const (
	StateIdle State = iota
	StateAttempting
	StateRetryScheduled
	StateSucceeded
	StateFailed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAttempting:
		return "Attempting"
	case StateRetryScheduled:
		return "RetryScheduled"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// validTransitions lists the edges of the state machine.
var validTransitions = map[State][]State{
	StateIdle:           {StateAttempting},
	StateAttempting:     {StateSucceeded, StateRetryScheduled, StateFailed},
	StateRetryScheduled: {StateAttempting, StateFailed},
}

func canTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Outcome classifies a single attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// Attempt describes one finished attempt of a fetch invocation.
// It only lives for the duration of the observer callback.
type Attempt struct {
	Number    int // 1-based
	StartedAt time.Time
	Outcome   Outcome
	Err       error         // nil on success
	Delay     time.Duration // backoff before the next attempt, 0 if none
}
