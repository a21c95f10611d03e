package dashboard

import "errors"

// Sentinel errors for dashboard operations.
var (
	// ErrCircuitOpen indicates the endpoint's circuit breaker is rejecting
	// requests after repeated failures.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrSuperseded indicates a newer refresh started before this one
	// finished; its result was discarded.
	ErrSuperseded = errors.New("refresh superseded")

	// ErrNoBaseURL indicates the analytics API base URL is not configured.
	ErrNoBaseURL = errors.New("analytics API URL not configured")
)
