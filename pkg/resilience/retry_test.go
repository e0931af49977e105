package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 5, Delay: time.Millisecond}, nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 2, Delay: time.Millisecond}, nil, func(context.Context) error {
		calls++
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected first attempt plus 2 retries, got %d", calls)
	}
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	errFatal := errors.New("fatal")
	calls := 0
	err := Retry(context.Background(), RetryPolicy{MaxRetries: 5, Delay: time.Millisecond},
		func(err error) bool { return !errors.Is(err, errFatal) },
		func(context.Context) error {
			calls++
			return errFatal
		})
	if !errors.Is(err, errFatal) {
		t.Fatalf("expected errFatal, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestRetryHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, RetryPolicy{MaxRetries: 5, Delay: time.Millisecond}, nil, func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}
