package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitOpenError is returned while the breaker rejects calls. RetryAfter is
// zero once the breaker is ready to let a trial call through.
type CircuitOpenError struct {
	Name       string
	RetryAfter time.Duration
}

func (e *CircuitOpenError) Error() string {
	retryAfter := e.RetryAfter
	if retryAfter < 0 {
		retryAfter = 0
	}
	if e.Name == "" {
		return fmt.Sprintf("%v: retry in %s", ErrCircuitOpen, retryAfter)
	}
	return fmt.Sprintf("%v for %s: retry in %s", ErrCircuitOpen, e.Name, retryAfter)
}

func (e *CircuitOpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}

type CircuitBreakerState string

const (
	CircuitClosed   CircuitBreakerState = "closed"
	CircuitOpen     CircuitBreakerState = "open"
	CircuitHalfOpen CircuitBreakerState = "half_open"
)

type CircuitBreakerConfig struct {
	Name              string
	FailureThreshold  int
	SuccessThreshold  int
	OpenTimeout       time.Duration
	HalfOpenMaxFlight int

	// IsFailure decides which errors count against the peer. Errors it rejects
	// are returned to the caller and reset the failure streak like a success.
	// Nil counts every error except context.Canceled.
	IsFailure func(error) bool
	// OnStateChange is called outside the breaker lock after every transition.
	OnStateChange func(name string, from, to CircuitBreakerState)
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Counts is a point-in-time snapshot of a breaker.
type Counts struct {
	State        CircuitBreakerState
	Failures     int
	Successes    int
	HalfInFlight int
	Trips        int
}

type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state        CircuitBreakerState
	failures     int
	successes    int
	halfInFlight int
	trips        int
	openUntil    time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 10 * time.Second
	}
	if cfg.HalfOpenMaxFlight <= 0 {
		cfg.HalfOpenMaxFlight = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return !errors.Is(err, context.Canceled) }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &CircuitBreaker{
		cfg:   cfg,
		state: CircuitClosed,
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	return cb.Counts().State
}

func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	from, to := cb.advanceLocked(cb.cfg.Now())
	c := Counts{
		State:        cb.state,
		Failures:     cb.failures,
		Successes:    cb.successes,
		HalfInFlight: cb.halfInFlight,
		Trips:        cb.trips,
	}
	cb.mu.Unlock()

	cb.notify(from, to)
	return c
}

// Execute runs fn unless the breaker is open. Caller cancellation never moves
// the breaker.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	halfOpen, err := cb.admit()
	if err != nil {
		return err
	}

	err = fn(ctx)

	switch {
	case err != nil && errors.Is(err, context.Canceled):
		cb.release(halfOpen)
	case err != nil && cb.cfg.IsFailure(err):
		cb.record(halfOpen, false)
	default:
		cb.record(halfOpen, true)
	}
	return err
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.setStateLocked(CircuitClosed)
	cb.mu.Unlock()
	cb.notify(from, CircuitClosed)
}

func (cb *CircuitBreaker) admit() (bool, error) {
	cb.mu.Lock()
	now := cb.cfg.Now()
	from, to := cb.advanceLocked(now)

	var err error
	halfOpen := false
	switch cb.state {
	case CircuitOpen:
		err = cb.openErrLocked(now)
	case CircuitHalfOpen:
		if cb.halfInFlight >= cb.cfg.HalfOpenMaxFlight {
			err = cb.openErrLocked(now)
		} else {
			cb.halfInFlight++
			halfOpen = true
		}
	}
	cb.mu.Unlock()

	cb.notify(from, to)
	return halfOpen, err
}

func (cb *CircuitBreaker) record(halfOpen, ok bool) {
	cb.mu.Lock()
	from := cb.state
	if halfOpen && cb.state == CircuitHalfOpen && cb.halfInFlight > 0 {
		cb.halfInFlight--
	}

	switch {
	case cb.state == CircuitHalfOpen && ok:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.setStateLocked(CircuitClosed)
		}
	case cb.state == CircuitHalfOpen:
		cb.trip()
	case ok:
		cb.failures = 0
	case cb.state == CircuitClosed:
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.trip()
		}
	}
	to := cb.state
	cb.mu.Unlock()

	cb.notify(from, to)
}

func (cb *CircuitBreaker) release(halfOpen bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if halfOpen && cb.state == CircuitHalfOpen && cb.halfInFlight > 0 {
		cb.halfInFlight--
	}
}

func (cb *CircuitBreaker) trip() {
	cb.setStateLocked(CircuitOpen)
	cb.trips++
	cb.openUntil = cb.cfg.Now().Add(cb.cfg.OpenTimeout)
}

// advanceLocked moves an expired open breaker to half-open.
func (cb *CircuitBreaker) advanceLocked(now time.Time) (CircuitBreakerState, CircuitBreakerState) {
	from := cb.state
	if cb.state == CircuitOpen && !now.Before(cb.openUntil) {
		cb.setStateLocked(CircuitHalfOpen)
	}
	return from, cb.state
}

func (cb *CircuitBreaker) setStateLocked(state CircuitBreakerState) {
	cb.state = state
	cb.failures = 0
	cb.successes = 0
	cb.halfInFlight = 0
}

func (cb *CircuitBreaker) notify(from, to CircuitBreakerState) {
	if from != to && cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(cb.cfg.Name, from, to)
	}
}

func (cb *CircuitBreaker) openErrLocked(now time.Time) error {
	remaining := cb.openUntil.Sub(now)
	if remaining < 0 || cb.state == CircuitHalfOpen {
		remaining = 0
	}
	return &CircuitOpenError{
		Name:       cb.cfg.Name,
		RetryAfter: remaining,
	}
}
