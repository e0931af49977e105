package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func edge(from, to uint64, owner shard.ID, weight float64) domain.CrossShardEdge {
	return domain.CrossShardEdge{
		FromNode: domain.NodeIDFromSeed(from),
		ToNode:   domain.NodeIDFromSeed(to),
		ToShard:  owner,
		Weight:   weight,
	}
}

func TestEdgeManager_DecayEdges(t *testing.T) {
	tests := []struct {
		name       string
		weight     float64
		wantPruned bool
		wantWeight float64
	}{
		{name: "below threshold after decay is pruned", weight: 0.1, wantPruned: true},
		{name: "above threshold is kept", weight: 0.5, wantWeight: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCrossShardEdgeManager()
			e := edge(1, 2, 1, tt.weight)
			m.AddOutgoingEdge(e)

			pruned := m.DecayEdges(0.5, 0.1)
			out := m.OutgoingFor(e.FromNode)
			if tt.wantPruned {
				require.Len(t, pruned, 1)
				assert.Empty(t, out)
				assert.Equal(t, 0, m.PendingCount(), "pruned edge must leave the pending queue")
				return
			}
			assert.Empty(t, pruned)
			require.Len(t, out, 1)
			assert.InDelta(t, tt.wantWeight, out[0].Weight, 1e-9)
		})
	}
}

func TestEdgeManager_DecayAppliesToIncoming(t *testing.T) {
	m := NewCrossShardEdgeManager()
	in := edge(7, 8, 2, 0.15)
	m.AddIncomingEdge(in)

	m.DecayEdges(0.5, 0.1)
	assert.Empty(t, m.IncomingFor(in.ToNode))
}

func TestEdgeManager_ReAddKeepsMaxWeight(t *testing.T) {
	m := NewCrossShardEdgeManager()
	m.AddOutgoingEdge(edge(1, 2, 1, 0.3))
	m.AddOutgoingEdge(edge(1, 2, 1, 0.7))
	m.AddOutgoingEdge(edge(1, 2, 1, 0.4))

	out := m.OutgoingFor(domain.NodeIDFromSeed(1))
	require.Len(t, out, 1)
	assert.Equal(t, 0.7, out[0].Weight)
	assert.Equal(t, 1, m.PendingCount())
}

func TestEdgeManager_RemoveShardEdges(t *testing.T) {
	m := NewCrossShardEdgeManager()
	m.AddOutgoingEdge(edge(1, 2, 1, 0.5))
	m.AddOutgoingEdge(edge(1, 3, 1, 0.5))
	m.AddOutgoingEdge(edge(1, 4, 2, 0.5))
	m.AddIncomingEdge(edge(9, 5, 1, 0.5))

	removed := m.RemoveShardEdges(1)
	assert.Equal(t, 3, removed)
	assert.Equal(t, []shard.ID{2}, m.ConnectedShards())
	assert.Equal(t, 1, m.PendingCount())

	pending := m.PendingByShard()
	assert.NotContains(t, pending, shard.ID(1))
	assert.Len(t, pending[2], 1)
}

func TestEdgeManager_StrengthenEdgeClamps(t *testing.T) {
	m := NewCrossShardEdgeManager()
	e := edge(1, 2, 1, 0.9)
	m.AddOutgoingEdge(e)

	w, ok := m.StrengthenEdge(e.FromNode, e.ToNode, 0.5)
	assert.True(t, ok)
	assert.Equal(t, 1.0, w)

	_, ok = m.StrengthenEdge(e.FromNode, domain.NodeIDFromSeed(99), 0.1)
	assert.False(t, ok)
}

func TestEdgeManager_TakeAndRequeuePending(t *testing.T) {
	m := NewCrossShardEdgeManager()
	a := edge(1, 2, 1, 0.5)
	b := edge(3, 4, 2, 0.5)
	m.AddOutgoingEdge(a)
	m.AddOutgoingEdge(b)

	taken := m.TakePending()
	assert.Len(t, taken, 2)
	assert.Equal(t, 0, m.PendingCount())

	// b no longer exists locally, so only a comes back.
	m.RemoveNodeEdges(b.FromNode)
	requeued, abandoned := m.RequeuePending(taken)
	assert.Equal(t, 1, requeued)
	assert.Zero(t, abandoned)
	requeued, _ = m.RequeuePending(taken)
	assert.Zero(t, requeued, "already queued")
	assert.Equal(t, 1, m.PendingCount())
	assert.Equal(t, []domain.CrossShardEdge{a}, m.TakePending())
}

func TestEdgeManager_RequeueAbandonsAfterMaxAttempts(t *testing.T) {
	m := NewCrossShardEdgeManager()
	m.SetMaxResolveAttempts(3)
	e := edge(1, 2, 1, 0.5)
	m.AddOutgoingEdge(e)

	for i := 0; i < 2; i++ {
		requeued, abandoned := m.RequeuePending(m.TakePending())
		require.Equal(t, 1, requeued, "attempt %d", i+1)
		require.Zero(t, abandoned)
	}
	requeued, abandoned := m.RequeuePending(m.TakePending())
	assert.Zero(t, requeued)
	assert.Equal(t, 1, abandoned)
	assert.Zero(t, m.PendingCount())
	assert.True(t, m.HasOutgoing(e.FromNode, e.ToNode), "abandoned edge stays stored")

	// Seeing the link again does not revive it.
	assert.False(t, m.AddOutgoingEdge(e))
	assert.Zero(t, m.PendingCount())
}

func TestEdgeManager_RequeueSkipsPrunedEdges(t *testing.T) {
	m := NewCrossShardEdgeManager()
	weak := edge(1, 2, 1, 0.1)
	gone := edge(3, 4, 2, 0.5)
	m.AddOutgoingEdge(weak)
	m.AddOutgoingEdge(gone)
	taken := m.TakePending()

	m.DecayEdges(0.5, 0.1)
	m.RemoveShardEdges(2)

	requeued, abandoned := m.RequeuePending(taken)
	assert.Zero(t, requeued)
	assert.Zero(t, abandoned)
	assert.Zero(t, m.PendingCount())
}

func TestEdgeManager_Stats(t *testing.T) {
	m := NewCrossShardEdgeManager()
	m.AddOutgoingEdge(edge(1, 2, 3, 0.2))
	m.AddOutgoingEdge(edge(1, 4, 1, 0.6))
	m.AddIncomingEdge(edge(5, 6, 1, 0.5))

	stats := m.Stats()
	assert.Equal(t, 2, stats.OutgoingEdges)
	assert.Equal(t, 1, stats.IncomingEdges)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.ConnectedShards)
	assert.Equal(t, map[shard.ID]int{1: 1, 3: 1}, stats.EdgesByShard)
	assert.InDelta(t, 0.4, stats.AverageWeight, 1e-9)
	assert.Equal(t, []shard.ID{1, 3}, m.ConnectedShards())
	assert.Equal(t, 3, m.EdgeCount())

	m.Clear()
	assert.Equal(t, 0, m.EdgeCount())
}

func TestEdgeManager_Acknowledge(t *testing.T) {
	m := NewCrossShardEdgeManager()
	a := edge(1, 2, 1, 0.5)
	assert.True(t, m.AddOutgoingEdge(a))
	assert.False(t, m.AddOutgoingEdge(a))

	assert.Equal(t, 1, m.Acknowledge([]domain.CrossShardEdge{a}))
	assert.Equal(t, 0, m.PendingCount())
	assert.True(t, m.HasOutgoing(a.FromNode, a.ToNode), "acknowledged edges stay stored")
}
