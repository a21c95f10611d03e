package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/fetch"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/metrics"
)

// BreakerSettings configures the per-endpoint circuit breakers.
//
// A breaker opens after Failures consecutive availability failures and
// lets one trial request through after Cooldown. Zero values select the defaults.
type BreakerSettings struct {
	Failures uint32
	Cooldown time.Duration
}

// Breaker defaults.
const (
	DefaultBreakerFailures = 3
	DefaultBreakerCooldown = 30 * time.Second
)

func (s *BreakerSettings) normalize() {
	if s.Failures == 0 {
		s.Failures = DefaultBreakerFailures
	}
	if s.Cooldown <= 0 {
		s.Cooldown = DefaultBreakerCooldown
	}
}

func newBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker[[]byte] {
	s.normalize()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		IsSuccessful: countsAsAvailable,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("endpoint", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// countsAsAvailable reports whether err leaves the endpoint's availability
// record intact. Credential, contract and cancellation failures say nothing
// about whether the server is up.
func countsAsAvailable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, fetch.ErrAccessDenied),
		errors.Is(err, fetch.ErrInvalidResponseFormat),
		errors.Is(err, context.Canceled):
		return true
	}
	return false
}

// guard runs fn through cb, translating breaker rejections to ErrCircuitOpen.
func guard(cb *gobreaker.CircuitBreaker[[]byte], fn func() ([]byte, error)) ([]byte, error) {
	data, err := cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s endpoint", ErrCircuitOpen, cb.Name())
	}
	return data, err
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
