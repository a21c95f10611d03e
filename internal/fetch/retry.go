package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/logging"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/metrics"
)

// Policy defaults.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
	DefaultTimeout    = 10 * time.Second
)

// maxBackoffShift bounds the exponent so BaseDelay<<n cannot overflow.
const maxBackoffShift = 30

// Policy holds the retry parameters of one fetch invocation.
//
// Invalid values are normalized:
//   - MaxRetries < 0 becomes 0 (single attempt)
//   - BaseDelay <= 0 becomes DefaultBaseDelay
//   - Timeout <= 0 becomes DefaultTimeout
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	Timeout    time.Duration
}

// DefaultPolicy returns 3 retries, a 1s base delay and a 10s attempt timeout.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Timeout:    DefaultTimeout,
	}
}

// normalize ensures all Policy fields have valid values.
func (p *Policy) normalize() {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.Timeout <= 0 {
		p.Timeout = DefaultTimeout
	}
}

// Delay returns the backoff before retry number retry (0-based):
// BaseDelay, 2×BaseDelay, 4×BaseDelay...
func (p Policy) Delay(retry int) time.Duration {
	retry = max(retry, 0)
	retry = min(retry, maxBackoffShift)
	return p.BaseDelay << retry
}

// Sleeper waits for d or until ctx is done, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleepTimer is the production Sleeper.
func sleepTimer(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunOption configures a Run invocation.
type RunOption func(*runner)

// WithSleep replaces the backoff sleeper. Tests use it to record delays
// without waiting.
func WithSleep(s Sleeper) RunOption {
	return func(r *runner) {
		if s != nil {
			r.sleep = s
		}
	}
}

// WithObserver registers a callback invoked after every finished attempt.
func WithObserver(fn func(Attempt)) RunOption {
	return func(r *runner) { r.observe = fn }
}

// WithTransition registers a callback invoked on every state change.
func WithTransition(fn func(from, to State)) RunOption {
	return func(r *runner) { r.transition = fn }
}

// WithNow replaces the clock used for attempt timestamps and durations.
func WithNow(now func() time.Time) RunOption {
	return func(r *runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger replaces the context logger.
func WithLogger(l zerolog.Logger) RunOption {
	return func(r *runner) { r.logger = &l }
}

type runner struct {
	sleep      Sleeper
	now        func() time.Time
	observe    func(Attempt)
	transition func(from, to State)
	logger     *zerolog.Logger
	state      State
}

func (r *runner) to(next State) {
	if !canTransition(r.state, next) {
		panic(fmt.Sprintf("fetch: invalid transition %s -> %s", r.state, next))
	}
	prev := r.state
	r.state = next
	if r.transition != nil {
		r.transition(prev, next)
	}
}

func (r *runner) finish(a Attempt) {
	metrics.FetchAttempts.WithLabelValues(a.Outcome.String()).Inc()
	r.logger.Debug().
		Int("attempt", a.Number).
		Str("outcome", a.Outcome.String()).
		Dur("delay", a.Delay).
		Err(a.Err).
		Msg("fetch attempt finished")
	if r.observe != nil {
		r.observe(a)
	}
}

// Run executes op under the retry policy and returns its result.
//
// Each attempt gets its own deadline of p.Timeout; an attempt that
// outlives it fails with ErrTimeout even if op ignores its context.
// Retryable failures (see IsRetryable) are retried after p.Delay(n) while
// the retry budget lasts, then ErrRetriesExhausted is returned wrapping the
// last failure. Any other failure is returned as is after one attempt.
// Cancelling ctx stops the invocation at once with ctx.Err().
func Run[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), opts ...RunOption) (T, error) {
	p.normalize()

	r := &runner{sleep: sleepTimer, now: time.Now, state: StateIdle}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Ctx(ctx)
	}

	start := r.now()
	result, err := run(ctx, p, op, r)

	metrics.FetchResults.WithLabelValues(Classify(err)).Inc()
	metrics.FetchDuration.Observe(r.now().Sub(start).Seconds())
	return result, err
}

func run[T any](ctx context.Context, p Policy, op func(context.Context) (T, error), r *runner) (T, error) {
	var zero T

	r.to(StateAttempting)
	for n := 1; ; n++ {
		started := r.now()
		result, err := attempt(ctx, p.Timeout, op)
		if err == nil {
			r.finish(Attempt{Number: n, StartedAt: started, Outcome: OutcomeSuccess})
			r.to(StateSucceeded)
			return result, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			r.finish(Attempt{Number: n, StartedAt: started, Outcome: OutcomeFatal, Err: ctxErr})
			r.to(StateFailed)
			return zero, ctxErr
		}

		if !IsRetryable(err) {
			r.finish(Attempt{Number: n, StartedAt: started, Outcome: OutcomeFatal, Err: err})
			r.to(StateFailed)
			return zero, err
		}

		retry := n - 1
		if retry >= p.MaxRetries {
			r.finish(Attempt{Number: n, StartedAt: started, Outcome: OutcomeRetryable, Err: err})
			r.to(StateFailed)
			r.logger.Warn().Int("attempts", n).Err(err).Msg("fetch retries exhausted")
			return zero, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, n, err)
		}

		delay := p.Delay(retry)
		r.finish(Attempt{Number: n, StartedAt: started, Outcome: OutcomeRetryable, Err: err, Delay: delay})
		r.to(StateRetryScheduled)

		if err := r.sleep(ctx, delay); err != nil {
			r.to(StateFailed)
			return zero, err
		}
		r.to(StateAttempting)
	}
}

// attempt runs op once under its own deadline. The result of an op that
// outlives the deadline is discarded.
func attempt[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := op(actx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil && ctx.Err() == nil && errors.Is(o.err, context.DeadlineExceeded) && !IsRetryable(o.err) {
			return zero, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, o.err)
		}
		return o.value, o.err
	case <-actx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
