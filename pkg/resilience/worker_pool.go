package resilience

import (
	"context"
	"errors"
	"sync"
)

var ErrWorkerPoolClosed = errors.New("worker pool is closed")

// WorkerPool runs jobs on a fixed set of goroutines. The runner uses one pool
// to fan tick phases out to shards without a goroutine per shard per phase.
type WorkerPool struct {
	jobs   chan func()
	closed bool
	mu     sync.RWMutex
	once   sync.Once
	wg     sync.WaitGroup
	size   int
}

func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	p := &WorkerPool{
		jobs: make(chan func(), queueSize),
		size: workers,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					job()
				}
			}
		}()
	}

	return p
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.size
}

// Submit queues job, blocking while the queue is full.
func (p *WorkerPool) Submit(ctx context.Context, job func()) error {
	if job == nil {
		return nil
	}

	// Hold the read lock across the send so Close cannot close the channel under us.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// ForEach runs fn for every index in [0, n) on the pool and waits for the
// submitted calls to return. If a submit fails the remaining indexes are skipped
// and the submit error is returned once the in-flight calls finish.
func (p *WorkerPool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var batch sync.WaitGroup
	var submitErr error
	for i := 0; i < n; i++ {
		idx := i
		batch.Add(1)
		if err := p.Submit(ctx, func() {
			defer batch.Done()
			fn(ctx, idx)
		}); err != nil {
			batch.Done()
			submitErr = err
			break
		}
	}
	batch.Wait()
	return submitErr
}

func (p *WorkerPool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
}

func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
