package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(CoordinatorOptions{
		VirtualNodesPerShard: 64,
		ReplicationFactor:    2,
		HeartbeatTimeout:     time.Second,
		PhaseTimeout:         time.Second,
	})
}

func TestCoordinator_RoutingRequiresOnlineShard(t *testing.T) {
	c := newTestCoordinator()

	_, err := c.RouteDocument("doc-1")
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)
	_, err = c.RouteNode(domain.NodeIDFromSeed(1))
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)
	_, err = c.ReplicaShards("doc-1")
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)

	id := c.RegisterShard(domain.ShardInfo{Address: "a"})
	owner, err := c.RouteDocument("doc-1")
	require.NoError(t, err)
	assert.Equal(t, id, owner)

	require.NoError(t, c.SetShardStatus(id, domain.ShardOffline))
	_, err = c.RouteDocument("doc-1")
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)
}

func TestCoordinator_RoutingIsDeterministic(t *testing.T) {
	c := newTestCoordinator()
	for i := 0; i < 3; i++ {
		c.RegisterShard(domain.ShardInfo{Address: fmt.Sprintf("s%d", i)})
	}

	for i := 0; i < 50; i++ {
		id := domain.DocumentID(fmt.Sprintf("doc-%d", i))
		first, err := c.RouteDocument(id)
		require.NoError(t, err)
		again, err := c.RouteDocument(id)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		replicas, err := c.ReplicaShards(id)
		require.NoError(t, err)
		require.Len(t, replicas, 2)
		assert.Equal(t, first, replicas[0])
		assert.NotEqual(t, replicas[0], replicas[1])
	}
}

func TestCoordinator_DeregisterUnknown(t *testing.T) {
	c := newTestCoordinator()
	_, err := c.DeregisterShard(7)
	assert.ErrorIs(t, err, domain.ErrShardNotFound)

	err = c.PhaseComplete(7, domain.PhaseSense, 0)
	assert.ErrorIs(t, err, domain.ErrShardNotFound)
}

func TestCoordinator_DrainingShardLeavesRingButStillParticipates(t *testing.T) {
	c := newTestCoordinator()
	a := c.RegisterShard(domain.ShardInfo{Address: "a"})
	b := c.RegisterShard(domain.ShardInfo{Address: "b"})

	require.NoError(t, c.SetShardStatus(b, domain.ShardDraining))

	for i := 0; i < 50; i++ {
		owner, err := c.RouteDocument(domain.DocumentID(fmt.Sprintf("doc-%d", i)))
		require.NoError(t, err)
		assert.Equal(t, a, owner)
	}

	_, participants := c.BeginTick()
	require.Len(t, participants, 2)
	assert.Equal(t, b, participants[1].ID)
	assert.Len(t, c.OnlineShards(), 1)

	assert.Error(t, c.SetShardStatus(a, domain.ShardStatus("sleeping")))
}

func TestCoordinator_HeartbeatRestoresRing(t *testing.T) {
	c := newTestCoordinator()
	id := c.RegisterShard(domain.ShardInfo{Address: "a"})

	dead := c.CheckShardHealth(time.Now().Add(time.Minute))
	assert.Equal(t, []shard.ID{id}, dead)
	_, err := c.RouteDocument("doc")
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)

	resp, err := c.Heartbeat(domain.HeartbeatMessage{ShardID: id, Metrics: domain.ShardMetrics{DocumentCount: 3}})
	require.NoError(t, err)
	assert.True(t, resp.Acknowledged)
	assert.Equal(t, uint64(0), resp.ExpectedTick)

	owner, err := c.RouteDocument("doc")
	require.NoError(t, err)
	assert.Equal(t, id, owner)
	assert.Equal(t, uint64(3), c.ClusterStats().TotalDocuments)
}

func TestCoordinator_RegisterOrRestore(t *testing.T) {
	c := newTestCoordinator()
	preferred := shard.ID(4)

	id := c.RegisterOrRestore(domain.ShardInfo{Address: "a"}, &preferred)
	assert.Equal(t, preferred, id)

	// Same address re-registers under its old ID.
	id = c.RegisterOrRestore(domain.ShardInfo{Address: "a"}, &preferred)
	assert.Equal(t, preferred, id)

	// A different shard asking for a taken ID gets a fresh one.
	id = c.RegisterOrRestore(domain.ShardInfo{Address: "b"}, &preferred)
	assert.Equal(t, shard.ID(5), id)

	assert.Equal(t, shard.ID(6), c.RegisterOrRestore(domain.ShardInfo{Address: "c"}, nil))
}

func TestCoordinator_AggregateGlobalDF(t *testing.T) {
	a := map[string]uint64{"cell": 2, "membrane": 1}
	b := map[string]uint64{"cell": 3}
	d := map[string]uint64{"protein": 4, "membrane": 2}

	left := AggregateGlobalDF(AggregateGlobalDF(a, b), d)
	right := AggregateGlobalDF(a, AggregateGlobalDF(b, d))
	flat := AggregateGlobalDF(d, a, b)

	want := map[string]uint64{"cell": 5, "membrane": 3, "protein": 4}
	assert.Equal(t, want, left)
	assert.Equal(t, want, right)
	assert.Equal(t, want, flat)
	assert.Empty(t, AggregateGlobalDF())
}

func TestCoordinator_TickLifecycle(t *testing.T) {
	c := newTestCoordinator()
	a := c.RegisterShard(domain.ShardInfo{Address: "a"})
	b := c.RegisterShard(domain.ShardInfo{Address: "b"})

	status := c.TickStatus()
	assert.True(t, status.TickComplete)
	assert.Empty(t, status.PendingShards)

	tick, participants := c.BeginTick()
	assert.Equal(t, uint64(0), tick)
	assert.Len(t, participants, 2)

	status = c.TickStatus()
	assert.False(t, status.TickComplete)
	assert.Equal(t, []shard.ID{a, b}, status.PendingShards)

	c.setPhase(domain.PhaseSense)
	ready, err := c.BarrierReady(a, domain.PhaseSense, tick)
	require.NoError(t, err)
	assert.False(t, ready)

	status = c.TickStatus()
	assert.Equal(t, domain.PhaseSense, status.Phase)
	assert.Equal(t, []shard.ID{a}, status.CompletedShards)
	assert.Equal(t, []shard.ID{b}, status.PendingShards)

	ready, err = c.BarrierReady(b, domain.PhaseSense, tick)
	require.NoError(t, err)
	assert.True(t, ready)
	require.NoError(t, c.WaitForPhase(context.Background(), domain.PhaseSense, tick))

	assert.Equal(t, uint64(1), c.AdvanceTick())
	assert.Equal(t, uint64(1), c.CurrentTick())
	assert.True(t, c.TickStatus().TickComplete)
}

func TestCoordinator_BarrierOnlyCountsTickParticipants(t *testing.T) {
	c := newTestCoordinator()
	a := c.RegisterShard(domain.ShardInfo{Address: "a"})
	b := c.RegisterShard(domain.ShardInfo{Address: "b"})
	off := c.RegisterShard(domain.ShardInfo{Address: "c"})
	require.NoError(t, c.SetShardStatus(off, domain.ShardOffline))

	tick, participants := c.BeginTick()
	require.Len(t, participants, 2)
	late := c.RegisterShard(domain.ShardInfo{Address: "d"})

	ready, err := c.BarrierReady(a, domain.PhaseSense, tick)
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = c.BarrierReady(off, domain.PhaseSense, tick)
	assert.ErrorIs(t, err, domain.ErrBarrierFailed)
	_, err = c.BarrierReady(late, domain.PhaseSense, tick)
	assert.ErrorIs(t, err, domain.ErrBarrierFailed, "shards registered mid-tick join at the next tick")

	status := c.TickStatus()
	assert.Equal(t, []shard.ID{a}, status.CompletedShards)
	assert.Contains(t, status.PendingShards, b)

	ready, err = c.BarrierReady(b, domain.PhaseSense, tick)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestCoordinator_ClusterStatsNamesLeastLoadedShard(t *testing.T) {
	c := newTestCoordinator()
	assert.Nil(t, c.ClusterStats().LeastLoadedShard)

	busy := c.RegisterShard(domain.ShardInfo{Address: "a"})
	idle := c.RegisterShard(domain.ShardInfo{Address: "b"})
	_, err := c.Heartbeat(domain.HeartbeatMessage{ShardID: busy, Metrics: domain.ShardMetrics{DocumentCount: 40}})
	require.NoError(t, err)
	_, err = c.Heartbeat(domain.HeartbeatMessage{ShardID: idle, Metrics: domain.ShardMetrics{DocumentCount: 5}})
	require.NoError(t, err)

	stats := c.ClusterStats()
	require.NotNil(t, stats.LeastLoadedShard)
	assert.Equal(t, idle, *stats.LeastLoadedShard)
	assert.Equal(t, uint64(45), stats.TotalDocuments)

	// Offline shards are never suggested.
	require.NoError(t, c.SetShardStatus(idle, domain.ShardOffline))
	stats = c.ClusterStats()
	require.NotNil(t, stats.LeastLoadedShard)
	assert.Equal(t, busy, *stats.LeastLoadedShard)
}
