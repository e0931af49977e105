package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type RunnerOptions struct {
	ResolveGhosts bool
	Workers       int
}

// pendingEdge is a cross-shard edge together with the shard that reported it,
// which is where the ghost has to be inserted.
type pendingEdge struct {
	reporter domain.ShardInfo
	edge     domain.CrossShardEdge
}

// DistributedRunner drives ticks across every participating shard.
type DistributedRunner struct {
	coord  *Coordinator
	shards port.ShardClient
	pool   *resilience.WorkerPool
	opts   RunnerOptions

	mu      sync.Mutex // held for the whole tick
	waiting atomic.Int64
}

func NewDistributedRunner(coord *Coordinator, shards port.ShardClient, opts RunnerOptions) *DistributedRunner {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &DistributedRunner{
		coord:  coord,
		shards: shards,
		pool:   resilience.NewWorkerPool(opts.Workers, opts.Workers*2),
		opts:   opts,
	}
}

// RunTick runs Sense, Act and Decay on every participating shard, resolves
// the cross-shard edges they reported and advances the tick. A failed phase
// aborts the tick without advancing the counter.
func (r *DistributedRunner) RunTick(ctx context.Context) (domain.TickReport, error) {
	if !r.mu.TryLock() {
		return domain.TickReport{}, domain.ErrTickInProgress
	}
	defer r.mu.Unlock()
	return r.runTickLocked(ctx)
}

// Run executes n ticks one after another and stops at the first failure.
func (r *DistributedRunner) Run(ctx context.Context, n int) ([]domain.TickReport, error) {
	if !r.mu.TryLock() {
		return nil, domain.ErrTickInProgress
	}
	defer r.mu.Unlock()

	reports := make([]domain.TickReport, 0, n)
	for i := 0; i < n; i++ {
		report, err := r.runTickLocked(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// PendingEdges returns how many cross-shard edges wait for resolution.
func (r *DistributedRunner) PendingEdges() int {
	return int(r.waiting.Load())
}

func (r *DistributedRunner) Close() {
	r.pool.Close()
	r.pool.Wait()
}

func (r *DistributedRunner) runTickLocked(ctx context.Context) (domain.TickReport, error) {
	start := time.Now()
	tick, targets := r.coord.BeginTick()
	report := domain.TickReport{Tick: tick, Shards: len(targets)}

	if len(targets) > 0 {
		for _, phase := range domain.TickPhases {
			pr, err := r.runPhase(ctx, phase, tick, targets)
			if err != nil {
				metricsTickFailures.WithLabelValues(string(phase)).Inc()
				r.coord.abortTick()
				logger.Errorw("Tick aborted", "tick", tick, "phase", phase, "error", err)
				return report, err
			}
			report.Phases = append(report.Phases, pr)
		}
	}

	if r.opts.ResolveGhosts {
		report.EdgesResolved, report.EdgesPending, report.EdgesDropped = r.resolveGhosts(ctx, targets)
	}
	r.waiting.Store(int64(report.EdgesPending))
	metricsEdgesPending.Set(float64(report.EdgesPending))

	report.NextTick = r.coord.AdvanceTick()
	report.Duration = time.Since(start)
	metricsTicksTotal.Inc()

	logger.Debugw("Tick complete",
		"tick", tick,
		"shards", report.Shards,
		"edges_resolved", report.EdgesResolved,
		"edges_pending", report.EdgesPending,
		"duration", report.Duration)
	return report, nil
}

// runPhase fans phase out to targets, reports each completion to the barrier
// and waits for it to release.
func (r *DistributedRunner) runPhase(ctx context.Context, phase domain.TickPhase, tick uint64, targets []domain.ShardInfo) (domain.PhaseReport, error) {
	start := time.Now()
	r.coord.setPhase(phase)

	results := make([]domain.PhaseResult, len(targets))
	errs := make([]error, len(targets))
	if err := r.pool.ForEach(ctx, len(targets), func(ctx context.Context, i int) {
		t := port.TargetOf(targets[i])
		res, err := r.shards.TickPhase(ctx, t, phase, tick)
		if err != nil {
			errs[i] = fmt.Errorf("shard %s: %w", t.ID, err)
			return
		}
		results[i] = res
		errs[i] = r.coord.PhaseComplete(t.ID, phase, tick)
	}); err != nil {
		return domain.PhaseReport{}, fmt.Errorf("%w: dispatch %s at tick %d: %w", domain.ErrBarrierFailed, phase, tick, err)
	}
	if err := errors.Join(errs...); err != nil {
		return domain.PhaseReport{}, fmt.Errorf("%w: %s at tick %d: %w", domain.ErrBarrierFailed, phase, tick, err)
	}

	if err := r.coord.WaitForPhase(ctx, phase, tick); err != nil {
		return domain.PhaseReport{}, err
	}

	pr := domain.PhaseReport{Phase: phase}
	for _, res := range results {
		pr.NodeCount += res.NodeCount
		pr.EdgeCount += res.EdgeCount
		pr.NewEdges += len(res.CrossShardEdges)
	}
	pr.Duration = time.Since(start)
	metricsPhaseDuration.WithLabelValues(string(phase)).Observe(pr.Duration.Seconds())
	return pr, nil
}

// ownerBatch is the resolution work for one owning shard.
type ownerBatch struct {
	owner domain.ShardInfo
	edges []pendingEdge
}

// resolveGhosts drains the pending edge queue of every participant, fetches
// each target node from its owner and inserts the ghost into the reporting
// shard. Edges that could not be delivered go back to the reporter's queue,
// which gives up on an edge after a bounded number of attempts.
func (r *DistributedRunner) resolveGhosts(ctx context.Context, targets []domain.ShardInfo) (resolved, pending, dropped int) {
	taken := make([][]domain.CrossShardEdge, len(targets))
	_ = r.pool.ForEach(ctx, len(targets), func(ctx context.Context, i int) {
		edges, err := r.shards.TakePendingEdges(ctx, port.TargetOf(targets[i]))
		if err != nil {
			logger.Warnw("Taking pending edges failed",
				"shard_id", targets[i].ID,
				"error", fmt.Errorf("%w: %w", domain.ErrEdgeResolutionFailed, err))
			return
		}
		taken[i] = edges
	})

	batches := make(map[shard.ID]*ownerBatch)
	unavailable := 0
	for i, edges := range taken {
		for _, e := range edges {
			owner, err := r.coord.GetShard(e.ToShard)
			if err != nil || owner.Status == domain.ShardOffline {
				unavailable++
				continue
			}
			b, ok := batches[owner.ID]
			if !ok {
				b = &ownerBatch{owner: owner}
				batches[owner.ID] = b
			}
			b.edges = append(b.edges, pendingEdge{reporter: targets[i], edge: e})
		}
	}
	if unavailable > 0 {
		logger.Infow("Dropped cross-shard edges to unavailable shards", "count", unavailable)
	}
	dropped = unavailable
	if len(batches) == 0 {
		return 0, 0, dropped
	}

	list := make([]*ownerBatch, 0, len(batches))
	for _, b := range batches {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].owner.ID < list[j].owner.ID })

	delivered := make([]int, len(list))
	failed := make([][]pendingEdge, len(list))
	_ = r.pool.ForEach(ctx, len(list), func(ctx context.Context, i int) {
		delivered[i], failed[i] = r.resolveOwner(ctx, list[i])
	})

	retry := make(map[shard.ID][]domain.CrossShardEdge)
	reporters := make(map[shard.ID]domain.ShardInfo)
	for i := range list {
		resolved += delivered[i]
		for _, p := range failed[i] {
			retry[p.reporter.ID] = append(retry[p.reporter.ID], p.edge)
			reporters[p.reporter.ID] = p.reporter
		}
	}
	for id, edges := range retry {
		res, err := r.shards.RequeuePendingEdges(ctx, port.TargetOf(reporters[id]), edges)
		if err != nil {
			logger.Warnw("Requeue of unresolved edges failed",
				"shard_id", id,
				"edges", len(edges),
				"error", fmt.Errorf("%w: %w", domain.ErrEdgeResolutionFailed, err))
			dropped += len(edges)
			continue
		}
		pending += res.Requeued
		dropped += res.Abandoned
	}
	metricsEdgesResolved.Add(float64(resolved))
	return resolved, pending, dropped
}

// resolveOwner handles every edge pointing into one shard. It returns how
// many edges were delivered and the ones that have to be retried.
func (r *DistributedRunner) resolveOwner(ctx context.Context, b *ownerBatch) (int, []pendingEdge) {
	target := port.TargetOf(b.owner)

	ids := make([]domain.NodeID, 0, len(b.edges))
	seen := make(map[domain.NodeID]struct{}, len(b.edges))
	for _, p := range b.edges {
		if _, ok := seen[p.edge.ToNode]; ok {
			continue
		}
		seen[p.edge.ToNode] = struct{}{}
		ids = append(ids, p.edge.ToNode)
	}

	ghosts, err := r.shards.ResolveGhostNodes(ctx, target, ids)
	if err != nil {
		logger.Warnw("Ghost fetch failed, edges requeued",
			"owner", b.owner.ID,
			"edges", len(b.edges),
			"error", fmt.Errorf("%w: %w", domain.ErrEdgeResolutionFailed, err))
		return 0, b.edges
	}
	found := make(map[domain.NodeID]domain.GhostNode, len(ghosts))
	for _, g := range ghosts {
		found[g.NodeID] = g
	}

	var failed []pendingEdge
	byReporter := make(map[shard.ID][]pendingEdge)
	for _, p := range b.edges {
		if _, ok := found[p.edge.ToNode]; !ok {
			failed = append(failed, p)
			continue
		}
		byReporter[p.reporter.ID] = append(byReporter[p.reporter.ID], p)
	}
	if len(failed) > 0 {
		logger.Debugw("Ghost nodes not found on owner, edges requeued",
			"owner", b.owner.ID,
			"missing", len(failed),
			"error", domain.ErrGhostNodeNotFound)
	}

	delivered := 0
	var incoming []domain.CrossShardEdge
	for reporter, list := range byReporter {
		var (
			reporterGhosts []domain.GhostNode
			edges          []domain.CrossShardEdge
		)
		added := make(map[domain.NodeID]struct{})
		for _, p := range list {
			edges = append(edges, p.edge)
			if _, ok := added[p.edge.ToNode]; !ok {
				added[p.edge.ToNode] = struct{}{}
				reporterGhosts = append(reporterGhosts, found[p.edge.ToNode])
			}
		}
		if _, err := r.shards.InsertGhostNodes(ctx, port.TargetOf(list[0].reporter), reporterGhosts, edges); err != nil {
			logger.Warnw("Ghost insert failed, edges requeued",
				"shard_id", reporter,
				"edges", len(edges),
				"error", fmt.Errorf("%w: %w", domain.ErrEdgeResolutionFailed, err))
			failed = append(failed, list...)
			continue
		}
		delivered += len(list)
		incoming = append(incoming, edges...)
	}

	// Mirror delivered edges on the owner as incoming. Best effort.
	if len(incoming) > 0 {
		if _, err := r.shards.InsertGhostNodes(ctx, target, nil, incoming); err != nil {
			logger.Debugw("Incoming edge mirror failed", "owner", b.owner.ID, "error", err)
		}
	}
	return delivered, failed
}
