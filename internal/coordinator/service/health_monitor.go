package service

import (
	"context"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
)

// healthMonitor expires shards with stale heartbeats and health-checks the rest.
// A successful health check counts as a heartbeat, so shards that are reachable but
// never heartbeat on their own (embedded shards) stay online.
type healthMonitor struct {
	coord  *Coordinator
	shards port.ShardClient
	pool   *resilience.WorkerPool
	now    func() time.Time
}

func newHealthMonitor(coord *Coordinator, shards port.ShardClient, runner *DistributedRunner) *healthMonitor {
	return &healthMonitor{coord: coord, shards: shards, pool: runner.pool, now: time.Now}
}

func (m *healthMonitor) start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check returns the shards marked offline by this pass.
func (m *healthMonitor) check(ctx context.Context) []domain.ShardInfo {
	m.checkAll(ctx)

	dead := m.coord.CheckShardHealth(m.now())
	out := make([]domain.ShardInfo, 0, len(dead))
	for _, id := range dead {
		if info, err := m.coord.GetShard(id); err == nil {
			out = append(out, info)
		}
	}
	return out
}

func (m *healthMonitor) checkAll(ctx context.Context) {
	shards := m.coord.AllShards()
	_ = m.pool.ForEach(ctx, len(shards), func(ctx context.Context, i int) {
		info := shards[i]
		health, err := m.shards.HealthCheck(ctx, port.TargetOf(info))
		if err != nil {
			logger.Debugw("Health check failed", "shard_id", info.ID, "addr", info.Address, "error", err)
			return
		}
		if !health.Healthy {
			logger.Warnw("Shard reports unhealthy", "shard_id", info.ID, "load", health.Load)
			return
		}
		if _, err := m.coord.Heartbeat(domain.HeartbeatMessage{
			ShardID:   info.ID,
			Metrics:   health.Metrics,
			Timestamp: m.now(),
		}); err != nil {
			logger.Debugw("Health check heartbeat rejected", "shard_id", info.ID, "error", err)
		}
	})
}
