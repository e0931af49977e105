package resilience

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolExecutesJobs(t *testing.T) {
	pool := NewWorkerPool(3, 6)
	defer pool.Close()

	var count int32
	for i := 0; i < 10; i++ {
		if err := pool.Submit(context.Background(), func() {
			atomic.AddInt32(&count, 1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	pool.Close()
	pool.Wait()

	if got := atomic.LoadInt32(&count); got != 10 {
		t.Fatalf("expected 10 jobs executed, got %d", got)
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Close()
	if err := pool.Submit(context.Background(), func() {}); err != ErrWorkerPoolClosed {
		t.Fatalf("expected ErrWorkerPoolClosed, got %v", err)
	}
}

func TestWorkerPoolForEachWaitsForBatch(t *testing.T) {
	pool := NewWorkerPool(2, 2)
	defer pool.Close()

	results := make([]int, 5)
	if err := pool.ForEach(context.Background(), len(results), func(_ context.Context, i int) {
		results[i] = i * i
	}); err != nil {
		t.Fatalf("for each failed: %v", err)
	}
	for i, v := range results {
		if v != i*i {
			t.Fatalf("index %d: expected %d, got %d", i, i*i, v)
		}
	}
	if pool.Size() != 2 {
		t.Fatalf("expected 2 workers, got %d", pool.Size())
	}
}

func TestWorkerPoolForEachAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Close()

	var calls int32
	err := pool.ForEach(context.Background(), 3, func(context.Context, int) {
		atomic.AddInt32(&calls, 1)
	})
	if err != ErrWorkerPoolClosed {
		t.Fatalf("expected ErrWorkerPoolClosed, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}
