// Package fetch provides the resilient read pipeline used to load analytics
// payloads from the backend API: a deadline per attempt, status and
// content-type validation, and bounded exponential-backoff retry.
//
// Every failure is classified into one of the sentinels below at the
// transport boundary. Callers check with errors.Is(err, fetch.ErrAccessDenied)
// etc., or errors.As(err, &statusErr) for the status code and body.
package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch failures.
var (
	// ErrTimeout indicates an attempt exceeded its deadline (retryable).
	ErrTimeout = errors.New("request timeout")

	// ErrNetwork indicates a connection-level failure: reset, abort,
	// malformed transfer (retryable).
	ErrNetwork = errors.New("network failure")

	// ErrAccessDenied indicates the server rejected the credentials (401/403).
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidResponseFormat indicates a success status with a non-JSON or
	// unparseable body. It signals a server contract violation.
	ErrInvalidResponseFormat = errors.New("invalid response format")

	// ErrServer indicates any other non-success status.
	ErrServer = errors.New("server error")

	// ErrRetriesExhausted wraps the last retryable failure once the retry
	// budget is spent.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// maxErrorBody caps the response body kept in a StatusError.
const maxErrorBody = 4 << 10

// StatusError carries the status code and body of a rejected response.
// It unwraps to ErrAccessDenied or ErrServer.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func newStatusError(code int, body []byte, kind error) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{StatusCode: code, Body: string(body), Err: kind}
}

// Error returns "<kind> (HTTP <code>): <body>".
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%v (HTTP %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%v (HTTP %d): %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient failure worth another
// attempt. Only timeouts and network-level failures qualify.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRetriesExhausted) {
		return false
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetwork)
}

// Classify returns a short stable name for err, used as a metrics label and
// in logs: success, timeout, network, access_denied, invalid_response,
// server_error, retries_exhausted, canceled or other.
func Classify(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrRetriesExhausted):
		return "retries_exhausted"
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrInvalidResponseFormat):
		return "invalid_response"
	case errors.Is(err, ErrServer):
		return "server_error"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network"
	case isCanceled(err):
		return "canceled"
	default:
		return "other"
	}
}
