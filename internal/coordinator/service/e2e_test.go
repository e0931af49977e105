package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/outbound/inproc"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/engine"
	shardsvc "github.com/anthanhphan/phago-distributed/internal/shard/service"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type cluster struct {
	svc      *CoordinatorServiceImpl
	colonies []*shardsvc.Colony
}

// newCluster runs n embedded shards behind a real coordinator.
func newCluster(t *testing.T, n int) *cluster {
	t.Helper()

	coord := NewCoordinator(CoordinatorOptions{
		VirtualNodesPerShard: shard.DefaultVNodesPerShard,
		HeartbeatTimeout:     time.Minute,
		PhaseTimeout:         5 * time.Second,
	})
	ids := make([]shard.ID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, coord.RegisterShard(domain.ShardInfo{Address: fmt.Sprintf("embedded-%d", i)}))
	}

	adapter := inproc.NewAdapter(nil)
	c := &cluster{}
	for _, id := range ids {
		colony := shardsvc.NewColony(id, engine.NewMemoryGraph(engine.DefaultConfig()),
			shard.NewRing(shard.DefaultVNodesPerShard, ids...), shardsvc.DefaultColonyConfig())
		shardsvc.ApplyTopology(colony, coord.AllShards())
		adapter.Add(shardsvc.NewShardService(colony, nil, nil, fmt.Sprintf("embedded-%d", id)))
		c.colonies = append(c.colonies, colony)
	}

	c.svc = NewCoordinatorService(coord, adapter, nil, ServiceOptions{
		Runner: RunnerOptions{ResolveGhosts: true, Workers: 4},
		Query:  QueryOptions{MaxResults: 10},
	})
	t.Cleanup(func() { _ = c.svc.Close() })
	return c
}

func TestCluster_DocumentsLandOnExactlyOneShard(t *testing.T) {
	c := newCluster(t, 3)
	ctx := context.Background()

	for i := uint64(0); i < 100; i++ {
		doc := domain.Document{ID: domain.DocumentIDFromSeed(i), Title: fmt.Sprintf("Document %d", i)}
		id, owner, err := c.svc.IngestDocument(ctx, doc)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, id)
		assert.True(t, c.colonies[owner].OwnsDocument(id))
	}

	total := 0
	for _, colony := range c.colonies {
		total += colony.Metrics().DocumentCount
	}
	assert.Equal(t, 100, total)

	for i := uint64(0); i < 100; i++ {
		owners := 0
		for _, colony := range c.colonies {
			if colony.OwnsDocument(domain.DocumentIDFromSeed(i)) {
				owners++
			}
		}
		assert.Equal(t, 1, owners, "document %d", i)
	}
}

func TestCluster_QueryNormalizesAcrossShards(t *testing.T) {
	c := newCluster(t, 2)
	ctx := context.Background()

	for i := uint64(0); i < 100; i++ {
		title := fmt.Sprintf("Protein folding study %d", i)
		if i%25 == 0 {
			title = fmt.Sprintf("Cell membrane transport %d", i)
		}
		_, _, err := c.svc.IngestDocument(ctx, domain.Document{ID: domain.DocumentIDFromSeed(i), Title: title})
		require.NoError(t, err)
	}

	df, err := c.svc.GlobalDF(ctx, []string{"cell", "membrane", "absent"})
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"cell": 4, "membrane": 4}, df)

	results, err := c.svc.Query(ctx, "the cell membrane")
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		assert.Contains(t, results[i].Label, "Cell membrane")
	}

	empty, err := c.svc.Query(ctx, "the of and")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCluster_TicksAdvanceAndNodesAreReachable(t *testing.T) {
	c := newCluster(t, 3)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "d-1", Title: "Cell Biology", Content: "cell membrane protein transport"},
		{ID: "d-2", Title: "Genetics", Content: "gene expression protein synthesis"},
		{ID: "d-3", Title: "Ecology", Content: "ecosystem energy cell respiration"},
	}
	for _, doc := range docs {
		_, _, err := c.svc.IngestDocument(ctx, doc)
		require.NoError(t, err)
	}

	reports, err := c.svc.RunTicks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, 3, reports[0].Shards)
	assert.Len(t, reports[0].Phases, len(domain.TickPhases))
	assert.Equal(t, uint64(2), c.svc.CurrentTick(ctx))
	assert.True(t, c.svc.TickStatus(ctx).TickComplete)

	next, err := c.svc.StartTick(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)

	node, found, err := c.svc.GetNode(ctx, domain.NodeIDForDocument("d-1"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Cell Biology", node.Label)

	neighbors, err := c.svc.GetNeighbors(ctx, domain.NodeIDForDocument("d-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, neighbors)

	// Colonies report the last tick they ran.
	for _, colony := range c.colonies {
		assert.Equal(t, uint64(2), colony.CurrentTick())
	}
}

func TestCluster_PendingEdgesStayBounded(t *testing.T) {
	c := newCluster(t, 3)
	ctx := context.Background()

	topics := []string{"cell membrane protein", "gene expression synthesis", "neuron synapse signal"}
	for i := uint64(0); i < 60; i++ {
		doc := domain.Document{
			ID:      domain.DocumentIDFromSeed(i),
			Title:   fmt.Sprintf("Study %d", i),
			Content: topics[i%uint64(len(topics))] + " transport energy",
		}
		_, _, err := c.svc.IngestDocument(ctx, doc)
		require.NoError(t, err)
	}

	reports, err := c.svc.RunTicks(ctx, 3*shardsvc.DefaultMaxResolveAttempts)
	require.NoError(t, err)

	// An edge is retried at most DefaultMaxResolveAttempts times, so whatever
	// is still queued must have been reported within that window.
	last := reports[len(reports)-1]
	recent := 0
	for _, r := range reports[len(reports)-shardsvc.DefaultMaxResolveAttempts:] {
		for _, p := range r.Phases {
			recent += p.NewEdges
		}
	}
	assert.LessOrEqual(t, last.EdgesPending, recent)

	queued := 0
	for _, colony := range c.colonies {
		queued += colony.Edges().PendingCount()
	}
	assert.Equal(t, last.EdgesPending, queued)
}
