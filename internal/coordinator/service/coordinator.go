package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type CoordinatorOptions struct {
	VirtualNodesPerShard int
	ReplicationFactor    int
	HeartbeatTimeout     time.Duration
	PhaseTimeout         time.Duration
}

// Coordinator owns the registry, the ring and the tick barrier. Registry and
// ring change together under one lock so a shard is never routable unless it
// is registered and online.
type Coordinator struct {
	mu       sync.RWMutex
	registry *ShardRegistry
	ring     *shard.Ring // nil until the first shard comes online
	barrier  *TickBarrier
	tick     atomic.Uint64

	opts CoordinatorOptions

	// Runner progress, reported by TickStatus.
	phase      domain.TickPhase
	inProgress bool
}

func NewCoordinator(opts CoordinatorOptions) *Coordinator {
	if opts.VirtualNodesPerShard <= 0 {
		opts.VirtualNodesPerShard = shard.DefaultVNodesPerShard
	}
	if opts.ReplicationFactor <= 0 {
		opts.ReplicationFactor = 1
	}
	return &Coordinator{
		registry: NewShardRegistry(opts.HeartbeatTimeout),
		barrier:  NewTickBarrier(opts.PhaseTimeout),
		opts:     opts,
	}
}

func (c *Coordinator) RegisterShard(info domain.ShardInfo) shard.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.registry.Register(info)
	c.syncRingLocked(id)
	c.observeLocked()
	logger.Infow("Shard registered", "shard_id", id, "addr", info.Address)
	return id
}

// RegisterShardWithID registers under a known ID, used by shards that restart
// with a persisted identity and by tests.
func (c *Coordinator) RegisterShardWithID(id shard.ID, info domain.ShardInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry.RegisterWithID(id, info)
	c.syncRingLocked(id)
	c.observeLocked()
	logger.Infow("Shard registered", "shard_id", id, "addr", info.Address, "reused_id", true)
}

// RegisterOrRestore reuses preferred when the registry does not know it yet.
// A preferred ID that is already taken gets a fresh ID instead.
func (c *Coordinator) RegisterOrRestore(info domain.ShardInfo, preferred *shard.ID) shard.ID {
	if preferred == nil {
		return c.RegisterShard(info)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var id shard.ID
	if existing, ok := c.registry.Get(*preferred); ok && existing.Address != info.Address {
		id = c.registry.Register(info)
	} else {
		id = *preferred
		c.registry.RegisterWithID(id, info)
	}
	c.syncRingLocked(id)
	c.observeLocked()
	logger.Infow("Shard registered", "shard_id", id, "addr", info.Address, "preferred_id", *preferred)
	return id
}

func (c *Coordinator) DeregisterShard(id shard.ID) (domain.ShardInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := c.registry.Deregister(id)
	if err != nil {
		return domain.ShardInfo{}, err
	}
	if c.ring != nil {
		c.ring.RemoveShard(id)
	}
	c.observeLocked()
	logger.Infow("Shard deregistered", "shard_id", id, "addr", info.Address)
	return info, nil
}

// Heartbeat refreshes a shard and returns the tick the coordinator is on.
func (c *Coordinator) Heartbeat(msg domain.HeartbeatMessage) (domain.HeartbeatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, err := c.registry.Heartbeat(msg.ShardID)
	if err != nil {
		return domain.HeartbeatResponse{}, err
	}
	if msg.Metrics != (domain.ShardMetrics{}) {
		_ = c.registry.UpdateMetrics(msg.ShardID, msg.Metrics)
	}
	if prev == domain.ShardOffline || prev == domain.ShardRecovering {
		c.syncRingLocked(msg.ShardID)
		c.observeLocked()
		logger.Infow("Shard back online", "shard_id", msg.ShardID, "previous_status", prev)
	}
	return domain.HeartbeatResponse{Acknowledged: true, ExpectedTick: c.tick.Load()}, nil
}

func (c *Coordinator) UpdateMetrics(id shard.ID, m domain.ShardMetrics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.UpdateMetrics(id, m)
}

// SetShardStatus is the operator path for draining and recovery.
func (c *Coordinator) SetShardStatus(id shard.ID, status domain.ShardStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid shard status %q", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.registry.SetStatus(id, status); err != nil {
		return err
	}
	c.syncRingLocked(id)
	c.observeLocked()
	logger.Infow("Shard status changed", "shard_id", id, "status", status)
	return nil
}

// CheckShardHealth marks shards with stale heartbeats offline and takes them
// off the ring.
func (c *Coordinator) CheckShardHealth(now time.Time) []shard.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	dead := c.registry.CheckDeadShards(now)
	for _, id := range dead {
		c.syncRingLocked(id)
		logger.Warnw("Shard missed heartbeats, marked offline", "shard_id", id)
	}
	if len(dead) > 0 {
		c.observeLocked()
	}
	return dead
}

func (c *Coordinator) RouteDocument(id domain.DocumentID) (shard.ID, error) {
	return c.route(string(id), func(owner shard.ID, ok bool) error {
		return &domain.RoutingFailedError{DocumentID: id, Owner: owner, HasOwner: ok}
	})
}

func (c *Coordinator) RouteNode(id domain.NodeID) (shard.ID, error) {
	return c.route(id.String(), func(shard.ID, bool) error {
		return fmt.Errorf("%w: no shard available for node %s", domain.ErrRoutingFailed, id)
	})
}

func (c *Coordinator) route(key string, fail func(shard.ID, bool) error) (shard.ID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ring == nil {
		return 0, fail(0, false)
	}
	owner, ok := c.ring.GetShard(key)
	if !ok {
		return 0, fail(0, false)
	}
	return owner, nil
}

// ReplicaShards returns the primary owner of a document followed by up to
// replication_factor-1 further shards.
func (c *Coordinator) ReplicaShards(id domain.DocumentID) ([]shard.ID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.ring == nil || c.ring.ShardCount() == 0 {
		return nil, &domain.RoutingFailedError{DocumentID: id}
	}
	return c.ring.GetReplicaShards(string(id), c.opts.ReplicationFactor-1), nil
}

// PhaseComplete records a shard's completion with the barrier.
func (c *Coordinator) PhaseComplete(id shard.ID, phase domain.TickPhase, tick uint64) error {
	c.mu.RLock()
	known := c.registry.Contains(id)
	c.mu.RUnlock()
	if !known {
		return &domain.ShardNotFoundError{ID: id}
	}
	return c.barrier.Complete(id, phase, tick)
}

func (c *Coordinator) WaitForPhase(ctx context.Context, phase domain.TickPhase, tick uint64) error {
	return c.barrier.Wait(ctx, phase, tick)
}

// BarrierReady records the completion and reports, without blocking, whether
// every participant has finished the phase.
func (c *Coordinator) BarrierReady(id shard.ID, phase domain.TickPhase, tick uint64) (bool, error) {
	if err := c.PhaseComplete(id, phase, tick); err != nil {
		return false, err
	}
	return c.barrier.Ready(phase, tick), nil
}

func (c *Coordinator) CurrentTick() uint64 {
	return c.tick.Load()
}

// BeginTick re-derives the barrier's expected count for the current tick so a
// tick aborted earlier can be re-run cleanly. It returns the shards the
// barrier now waits for.
func (c *Coordinator) BeginTick() (uint64, []domain.ShardInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tick := c.tick.Load()
	ids := c.registry.ParticipatingShards()
	participants := make([]domain.ShardInfo, 0, len(ids))
	for _, id := range ids {
		info, _ := c.registry.Get(id)
		participants = append(participants, info)
	}
	c.barrier.ResetForTick(tick, ids)
	c.inProgress = true
	c.phase = ""
	return tick, participants
}

// AdvanceTick is the only writer of the tick counter.
func (c *Coordinator) AdvanceTick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.tick.Add(1)
	c.barrier.ResetForTick(next, c.registry.ParticipatingShards())
	c.inProgress = false
	c.phase = domain.PhaseAdvance
	metricsCurrentTick.Set(float64(next))
	return next
}

func (c *Coordinator) setPhase(phase domain.TickPhase) {
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
}

func (c *Coordinator) abortTick() {
	c.mu.Lock()
	c.inProgress = false
	c.mu.Unlock()
}

func (c *Coordinator) TickStatus() domain.TickStatus {
	c.mu.RLock()
	phase, inProgress := c.phase, c.inProgress
	c.mu.RUnlock()
	participants := c.barrier.Participants()

	status := domain.TickStatus{
		Tick:            c.tick.Load(),
		Phase:           phase,
		TickComplete:    !inProgress,
		CompletedShards: []shard.ID{},
		PendingShards:   []shard.ID{},
	}
	switch {
	case !inProgress:
	case phase == "":
		status.PendingShards = append(status.PendingShards, participants...)
	default:
		completed, pending := c.barrier.Status(phase, participants)
		status.CompletedShards = append(status.CompletedShards, completed...)
		status.PendingShards = append(status.PendingShards, pending...)
	}
	return status
}

// AggregateGlobalDF sums per-term counts.
func AggregateGlobalDF(maps ...map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64)
	for _, m := range maps {
		for term, n := range m {
			out[term] += n
		}
	}
	return out
}

func (c *Coordinator) AggregateGlobalDF(maps ...map[string]uint64) map[string]uint64 {
	return AggregateGlobalDF(maps...)
}

func (c *Coordinator) GetShard(id shard.ID) (domain.ShardInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.registry.Get(id)
	if !ok {
		return domain.ShardInfo{}, &domain.ShardNotFoundError{ID: id}
	}
	return info, nil
}

func (c *Coordinator) AllShards() []domain.ShardInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.All()
}

func (c *Coordinator) OnlineShards() []domain.ShardInfo {
	return c.shardsWith(c.registry.OnlineShards)
}

// ParticipatingShards are the shards a tick fans out to.
func (c *Coordinator) ParticipatingShards() []domain.ShardInfo {
	return c.shardsWith(c.registry.ParticipatingShards)
}

func (c *Coordinator) shardsWith(ids func() []shard.ID) []domain.ShardInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	list := ids()
	out := make([]domain.ShardInfo, 0, len(list))
	for _, id := range list {
		info, _ := c.registry.Get(id)
		out = append(out, info)
	}
	return out
}

func (c *Coordinator) ClusterStats() domain.ClusterStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := domain.ClusterStats{
		TotalShards:      c.registry.Count(),
		OnlineShards:     len(c.registry.OnlineShards()),
		TotalDocuments:   c.registry.TotalDocuments(),
		TotalMemoryBytes: c.registry.TotalMemory(),
		CurrentTick:      c.tick.Load(),
	}
	if id, ok := c.registry.LeastLoadedShard(); ok {
		stats.LeastLoadedShard = &id
	}
	return stats
}

// syncRingLocked puts a shard on the ring when it is online and takes it off
// otherwise.
func (c *Coordinator) syncRingLocked(id shard.ID) {
	info, registered := c.registry.Get(id)
	online := registered && info.Status == domain.ShardOnline

	switch {
	case online && c.ring == nil:
		c.ring = shard.NewRing(c.opts.VirtualNodesPerShard, id)
	case online:
		c.ring.AddShard(id)
	case c.ring != nil:
		c.ring.RemoveShard(id)
	}
}

func (c *Coordinator) observeLocked() {
	counts := c.registry.CountByStatus()
	for _, s := range []domain.ShardStatus{domain.ShardOnline, domain.ShardOffline, domain.ShardRecovering, domain.ShardDraining} {
		metricsShards.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}
