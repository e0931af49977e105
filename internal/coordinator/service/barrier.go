package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

const DefaultPhaseTimeout = 30 * time.Second

// TickBarrier counts phase completions for the current tick. A phase releases
// once every participant of the tick has reported it.
type TickBarrier struct {
	mu           sync.Mutex
	tick         uint64
	participants map[shard.ID]struct{}
	done         map[domain.TickPhase]map[shard.ID]struct{}
	changed      chan struct{}
	timeout      time.Duration
}

func NewTickBarrier(timeout time.Duration) *TickBarrier {
	if timeout <= 0 {
		timeout = DefaultPhaseTimeout
	}
	return &TickBarrier{
		participants: make(map[shard.ID]struct{}),
		done:         make(map[domain.TickPhase]map[shard.ID]struct{}),
		changed:      make(chan struct{}),
		timeout:      timeout,
	}
}

// ResetForTick starts tracking tick. Only completions from participants count
// towards a release.
func (b *TickBarrier) ResetForTick(tick uint64, participants []shard.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tick = tick
	b.participants = make(map[shard.ID]struct{}, len(participants))
	for _, id := range participants {
		b.participants[id] = struct{}{}
	}
	b.done = make(map[domain.TickPhase]map[shard.ID]struct{})
	b.broadcastLocked()
}

// Complete records that id finished phase for tick. Reports for an older tick
// are ignored. Reports for a newer tick or from a shard outside the tick's
// participant set are rejected.
func (b *TickBarrier) Complete(id shard.ID, phase domain.TickPhase, tick uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case tick < b.tick:
		return nil
	case tick > b.tick:
		return fmt.Errorf("%w: completion for tick %d while barrier is at tick %d", domain.ErrBarrierFailed, tick, b.tick)
	}
	if _, ok := b.participants[id]; !ok {
		return fmt.Errorf("%w: shard %s is not a participant of tick %d", domain.ErrBarrierFailed, id, tick)
	}

	set, ok := b.done[phase]
	if !ok {
		set = make(map[shard.ID]struct{})
		b.done[phase] = set
	}
	if _, dup := set[id]; dup {
		return nil
	}
	set[id] = struct{}{}
	if b.releasedLocked(phase) {
		b.broadcastLocked()
	}
	return nil
}

// Ready reports without blocking whether phase has released for tick.
func (b *TickBarrier) Ready(phase domain.TickPhase, tick uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tick < b.tick {
		return true
	}
	return tick == b.tick && b.releasedLocked(phase)
}

// Wait blocks until phase releases for tick, the barrier timeout elapses or
// ctx is done.
func (b *TickBarrier) Wait(ctx context.Context, phase domain.TickPhase, tick uint64) error {
	timer := time.NewTimer(b.timeout)
	defer timer.Stop()

	for {
		b.mu.Lock()
		if tick < b.tick || (tick == b.tick && b.releasedLocked(phase)) {
			b.mu.Unlock()
			return nil
		}
		if tick > b.tick {
			current := b.tick
			b.mu.Unlock()
			return fmt.Errorf("%w: wait for tick %d while barrier is at tick %d", domain.ErrBarrierFailed, tick, current)
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-changed:
		case <-timer.C:
			return &domain.PhaseTimeoutError{Phase: phase, Tick: tick}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Status lists which participants have and have not finished phase. pending
// is only known relative to participants.
func (b *TickBarrier) Status(phase domain.TickPhase, participants []shard.ID) (completed, pending []shard.ID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.done[phase]
	for id := range set {
		completed = append(completed, id)
	}
	for _, id := range participants {
		if _, ok := set[id]; !ok {
			pending = append(pending, id)
		}
	}
	sortIDs(completed)
	return completed, pending
}

func (b *TickBarrier) Tick() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tick
}

// Participants returns the shards the current tick waits for, sorted.
func (b *TickBarrier) Participants() []shard.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]shard.ID, 0, len(b.participants))
	for id := range b.participants {
		out = append(out, id)
	}
	sortIDs(out)
	return out
}

func (b *TickBarrier) Expected() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.participants)
}

func (b *TickBarrier) Timeout() time.Duration {
	return b.timeout
}

func (b *TickBarrier) releasedLocked(phase domain.TickPhase) bool {
	if len(b.participants) == 0 {
		return false
	}
	set := b.done[phase]
	for id := range b.participants {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

func (b *TickBarrier) broadcastLocked() {
	close(b.changed)
	b.changed = make(chan struct{})
}
