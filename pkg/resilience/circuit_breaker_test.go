package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 2,
		OpenTimeout:      200 * time.Millisecond,
	})

	if err := cb.Execute(context.Background(), fail); err == nil {
		t.Fatalf("expected first failure")
	}
	if err := cb.Execute(context.Background(), fail); err == nil {
		t.Fatalf("expected second failure")
	}
	if cb.State() != CircuitOpen {
		t.Fatalf("expected circuit open, got %s", cb.State())
	}
	if err := cb.Execute(context.Background(), fail); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open error, got %v", err)
	}
	if got := cb.Counts().Trips; got != 1 {
		t.Fatalf("expected 1 trip, got %d", got)
	}
}

func TestCircuitBreakerHalfOpenClosesOnSuccess(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 2,
		OpenTimeout:      time.Second,
		Now:              clock.Now,
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(time.Second)

	if cb.State() != CircuitHalfOpen {
		t.Fatalf("expected half-open, got %s", cb.State())
	}
	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), succeed); err != nil {
			t.Fatalf("trial call %d: %v", i, err)
		}
	}
	if cb.State() != CircuitClosed {
		t.Fatalf("expected circuit closed, got %s", cb.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		Now:              clock.Now,
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(time.Second)
	_ = cb.Execute(context.Background(), fail)

	if cb.State() != CircuitOpen {
		t.Fatalf("expected reopened circuit, got %s", cb.State())
	}
	if got := cb.Counts().Trips; got != 2 {
		t.Fatalf("expected 2 trips, got %d", got)
	}
}

func TestCircuitBreakerOpenErrorCarriesRetryAfter(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "shard-1:7101",
		FailureThreshold: 1,
		OpenTimeout:      200 * time.Millisecond,
	})

	_ = cb.Execute(context.Background(), fail)

	err := cb.Execute(context.Background(), succeed)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	var openErr *CircuitOpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected CircuitOpenError, got %T", err)
	}
	if openErr.RetryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %s", openErr.RetryAfter)
	}
	if openErr.Name != "shard-1:7101" {
		t.Fatalf("expected name shard-1:7101, got %s", openErr.Name)
	}
}

func TestCircuitBreakerIgnoresNonFailures(t *testing.T) {
	errNotFound := errors.New("not found")
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return !errors.Is(err, errNotFound) },
	})

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return errNotFound })
		if !errors.Is(err, errNotFound) {
			t.Fatalf("expected caller to see errNotFound, got %v", err)
		}
	}
	if cb.State() != CircuitClosed {
		t.Fatalf("expected circuit closed, got %s", cb.State())
	}

	_ = cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	if cb.State() != CircuitClosed {
		t.Fatalf("cancellation must not trip, got %s", cb.State())
	}
}

func TestCircuitBreakerReportsTransitions(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var got []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "peer",
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		Now:              clock.Now,
		OnStateChange: func(name string, from, to CircuitBreakerState) {
			got = append(got, name+":"+string(from)+"->"+string(to))
		},
	})

	_ = cb.Execute(context.Background(), fail)
	clock.Advance(time.Second)
	_ = cb.Execute(context.Background(), succeed)
	cb.Reset()

	want := []string{
		"peer:closed->open",
		"peer:open->half_open",
		"peer:half_open->closed",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transition %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
