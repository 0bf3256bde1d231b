// Package resilience guards calls to unreliable dependencies with a
// circuit breaker, retry with exponential backoff and a timeout wrapper.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 30 * time.Second
	defaultSuccessThreshold = 2
)

// ErrOpen is matched by every rejection from an open breaker.
var ErrOpen = errors.New("circuit breaker open")

// OpenError reports a fail-fast rejection and how long until the
// breaker will admit a trial call.
type OpenError struct {
	Name       string
	RetryAfter time.Duration
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is open, retry in %s", e.Name, e.RetryAfter.Round(time.Millisecond))
}

func (e *OpenError) Unwrap() error { return ErrOpen }

// StateObserver is notified after every state transition.
type StateObserver func(name string, from, to State)

type BreakerConfig struct {
	Name             string
	FailureThreshold int
	RecoveryTimeout  time.Duration
	SuccessThreshold int
	Clock            clockwork.Clock
	Logger           *slog.Logger
	OnStateChange    StateObserver
	OnReject         func(name string)
}

func (c *BreakerConfig) withDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = defaultRecoveryTimeout
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = defaultSuccessThreshold
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

type Breaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
	trial       bool // a half-open probe is in flight
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	cfg.withDefaults()
	return &Breaker{cfg: cfg, state: StateClosed}
}

func (b *Breaker) Name() string { return b.cfg.Name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Call runs fn unless the breaker is open. Errors from fn count as
// failures, except rejections from a nested breaker which pass through.
func (b *Breaker) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := Execute(ctx, b, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Execute is Call for functions returning a value.
func Execute[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	probe, err := b.admit()
	if err != nil {
		return zero, err
	}

	res, err := fn(ctx)

	var open *OpenError
	switch {
	case err == nil:
		b.onSuccess(probe)
	case errors.As(err, &open):
		b.release(probe)
	default:
		b.onFailure(probe, err)
	}
	return res, err
}

// admit decides whether a call may proceed. It reports whether the
// call is the single half-open probe.
func (b *Breaker) admit() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		elapsed := b.cfg.Clock.Since(b.lastFailure)
		if elapsed < b.cfg.RecoveryTimeout {
			return false, b.reject(b.cfg.RecoveryTimeout - elapsed)
		}
		b.transition(StateHalfOpen)
		b.successes = 0
		b.trial = true
		return true, nil
	case StateHalfOpen:
		if b.trial {
			return false, b.reject(0)
		}
		b.trial = true
		return true, nil
	default:
		return false, nil
	}
}

func (b *Breaker) reject(wait time.Duration) error {
	if b.cfg.OnReject != nil {
		b.cfg.OnReject(b.cfg.Name)
	}
	return &OpenError{Name: b.cfg.Name, RetryAfter: wait}
}

func (b *Breaker) onSuccess(probe bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		b.trial = false
	}
	switch b.state {
	case StateHalfOpen:
		// only trial calls count; a call admitted while closed proves nothing
		if !probe {
			return
		}
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.failures = 0
			b.successes = 0
			b.transition(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) onFailure(probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		b.trial = false
	}
	b.failures++
	b.lastFailure = b.cfg.Clock.Now()

	switch b.state {
	case StateHalfOpen:
		b.successes = 0
		b.transition(StateOpen)
	case StateClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
		}
	}
	b.cfg.Logger.Debug("circuit breaker recorded failure",
		"name", b.cfg.Name, "failures", b.failures, "state", b.state.String(), "error", err)
}

func (b *Breaker) release(probe bool) {
	if !probe {
		return
	}
	b.mu.Lock()
	b.trial = false
	b.mu.Unlock()
}

// transition must be called with mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.cfg.Logger.Info("circuit breaker state change",
		"name", b.cfg.Name, "from", from.String(), "to", to.String())
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// Reset forces the breaker back to closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.successes = 0
	b.trial = false
	b.lastFailure = time.Time{}
	b.transition(StateClosed)
}

type Snapshot struct {
	Name             string `json:"name"`
	State            string `json:"state"`
	Failures         int    `json:"failure_count"`
	Successes        int    `json:"success_count"`
	FailureThreshold int    `json:"failure_threshold"`
	RecoveryTimeout  string `json:"recovery_timeout"`
}

func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot{
		Name:             b.cfg.Name,
		State:            b.state.String(),
		Failures:         b.failures,
		Successes:        b.successes,
		FailureThreshold: b.cfg.FailureThreshold,
		RecoveryTimeout:  b.cfg.RecoveryTimeout.String(),
	}
}
