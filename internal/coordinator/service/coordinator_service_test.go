package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/coordinator/port/mocks"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func newTestService(t *testing.T, heartbeat time.Duration, addrs ...string) (*CoordinatorServiceImpl, *mocks.MockShardClient, *mocks.MockIDGenerator) {
	t.Helper()
	ctrl := gomock.NewController(t)
	shards := mocks.NewMockShardClient(ctrl)
	ids := mocks.NewMockIDGenerator(ctrl)

	coord := NewCoordinator(CoordinatorOptions{HeartbeatTimeout: heartbeat, PhaseTimeout: time.Second})
	for _, addr := range addrs {
		coord.RegisterShard(domain.ShardInfo{Address: addr})
	}
	svc := NewCoordinatorService(coord, shards, ids, ServiceOptions{Runner: RunnerOptions{Workers: 2}})
	t.Cleanup(svc.runner.Close)
	return svc, shards, ids
}

func TestCoordinatorService_IngestDocument(t *testing.T) {
	type mockSetup func(shards *mocks.MockShardClient, ids *mocks.MockIDGenerator)

	tests := []struct {
		name    string
		doc     domain.Document
		setup   mockSetup
		wantID  domain.DocumentID
		wantErr string
	}{
		{
			name: "assigns generated id",
			doc:  domain.Document{Title: "Cell Biology", Content: "the cell membrane"},
			setup: func(shards *mocks.MockShardClient, ids *mocks.MockIDGenerator) {
				ids.EXPECT().NextString().Return("7311", nil)
				shards.EXPECT().
					IngestDocument(gomock.Any(), targetA, gomock.Any(), true).
					DoAndReturn(func(_ context.Context, _ port.Target, doc domain.Document, _ bool) (domain.DocumentID, error) {
						return doc.ID, nil
					})
			},
			wantID: "7311",
		},
		{
			name: "keeps caller id",
			doc:  domain.Document{ID: "doc-1", Title: "Mitochondria"},
			setup: func(shards *mocks.MockShardClient, ids *mocks.MockIDGenerator) {
				shards.EXPECT().
					IngestDocument(gomock.Any(), targetA, domain.Document{ID: "doc-1", Title: "Mitochondria"}, true).
					Return(domain.DocumentID("doc-1"), nil)
			},
			wantID: "doc-1",
		},
		{
			name: "id generator failure",
			doc:  domain.Document{Title: "Ribosome"},
			setup: func(_ *mocks.MockShardClient, ids *mocks.MockIDGenerator) {
				ids.EXPECT().NextString().Return("", errors.New("clock moved backwards"))
			},
			wantErr: "generate document id",
		},
		{
			name: "shard rejects document",
			doc:  domain.Document{ID: "doc-2"},
			setup: func(shards *mocks.MockShardClient, _ *mocks.MockIDGenerator) {
				shards.EXPECT().
					IngestDocument(gomock.Any(), targetA, gomock.Any(), true).
					Return(domain.DocumentID(""), &domain.RPCError{Op: "IngestDocument", Addr: "shard-a", Err: errors.New("refused")})
			},
			wantErr: "refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, shards, ids := newTestService(t, time.Minute, "shard-a")
			tt.setup(shards, ids)

			id, owner, err := svc.IngestDocument(context.Background(), tt.doc)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, shard.ID(0), owner)
		})
	}
}

func TestCoordinatorService_IngestWithoutShards(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute)

	_, _, err := svc.IngestDocument(context.Background(), domain.Document{ID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrRoutingFailed)
}

func TestCoordinatorService_RegisterShard(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.RegisterShard(ctx, domain.ShardInfo{}, nil)
	assert.Error(t, err)

	id, err := svc.RegisterShard(ctx, domain.ShardInfo{Address: "10.0.0.1:9100"}, nil)
	require.NoError(t, err)
	assert.Equal(t, shard.ID(0), id)

	list := svc.ListShards(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ShardOnline, list[0].Status)

	info, err := svc.RouteDocument(ctx, "any-doc")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:9100", info.Address)

	require.NoError(t, svc.UnregisterShard(ctx, id))
	assert.ErrorIs(t, svc.UnregisterShard(ctx, id), domain.ErrShardNotFound)
}

func TestCoordinatorService_GossipMembership(t *testing.T) {
	svc, _, _ := newTestService(t, time.Minute, "shard-a", "shard-b")
	ctx := context.Background()

	// Coordinators and unknown shards are ignored.
	svc.MemberLeft(gossip.Member{Name: "coord-2", Role: gossip.RoleCoordinator, ShardID: 0})
	svc.MemberLeft(gossip.Member{Name: "ghost", Role: gossip.RoleShard, ShardID: 42})
	assert.Equal(t, 2, svc.ClusterStats(ctx).OnlineShards)

	svc.MemberLeft(gossip.Member{Name: "shard-b", Role: gossip.RoleShard, ShardID: 1})
	info, err := svc.Coordinator().GetShard(1)
	require.NoError(t, err)
	assert.Equal(t, domain.ShardOffline, info.Status)

	svc.MemberJoined(gossip.Member{Name: "shard-b", Role: gossip.RoleShard, ShardID: 1})
	info, err = svc.Coordinator().GetShard(1)
	require.NoError(t, err)
	assert.Equal(t, domain.ShardOnline, info.Status)

	svc.MemberJoined(gossip.Member{Name: "new", Role: gossip.RoleShard, ShardID: 9})
	assert.Len(t, svc.ListShards(ctx), 2)
}

func TestCoordinatorService_BroadcastSignals(t *testing.T) {
	svc, shards, _ := newTestService(t, time.Minute, "shard-a", "shard-b")

	fromA := domain.CrossShardSignal{Type: domain.SignalDigest, Intensity: 0.8, Label: "cell", SourceShard: 0}
	fromB := domain.CrossShardSignal{Type: domain.SignalDigest, Intensity: 0.3, Label: "wall", SourceShard: 1}

	shards.EXPECT().ReceiveSignals(gomock.Any(), targetA, []domain.CrossShardSignal{fromB}).Return(1, nil)
	shards.EXPECT().ReceiveSignals(gomock.Any(), targetB, []domain.CrossShardSignal{fromA}).
		Return(0, &domain.RPCError{Op: "ReceiveSignals", Addr: "shard-b", Err: errors.New("unreachable")})

	n, err := svc.BroadcastSignals(context.Background(), []domain.CrossShardSignal{fromA, fromB})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.BroadcastSignals(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCoordinatorService_GetNodeFallsBackAcrossShards(t *testing.T) {
	svc, shards, _ := newTestService(t, time.Minute, "shard-a", "shard-b")
	id := domain.NodeIDFromSeed(77)
	node := domain.NodeData{ID: id, Label: "Cell Biology"}
	neighbors := []domain.NodeID{domain.NodeIDFromSeed(78)}

	shards.EXPECT().GetNode(gomock.Any(), targetA, id).Return(domain.NodeData{}, false, nil).AnyTimes()
	shards.EXPECT().GetNode(gomock.Any(), targetB, id).Return(node, true, nil).Times(2)
	shards.EXPECT().GetNeighbors(gomock.Any(), targetB, id).Return(neighbors, nil)

	got, found, err := svc.GetNode(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, node, got)

	ns, err := svc.GetNeighbors(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, neighbors, ns)
}

func TestCoordinatorService_GetNodeMissing(t *testing.T) {
	svc, shards, _ := newTestService(t, time.Minute, "shard-a", "shard-b")
	id := domain.NodeIDFromSeed(5)

	shards.EXPECT().GetNode(gomock.Any(), gomock.Any(), id).Return(domain.NodeData{}, false, nil).Times(4)

	_, found, err := svc.GetNode(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, found)

	ns, err := svc.GetNeighbors(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, ns)
}

func TestCoordinatorService_HealthCheckMarksUnreachableOffline(t *testing.T) {
	svc, shards, _ := newTestService(t, 20*time.Millisecond, "shard-a", "shard-b")

	shards.EXPECT().HealthCheck(gomock.Any(), targetA).
		Return(domain.ShardHealth{}, &domain.RPCError{Op: "HealthCheck", Addr: "shard-a", Err: errors.New("refused")})
	shards.EXPECT().HealthCheck(gomock.Any(), targetB).
		Return(domain.ShardHealth{ShardID: 1, Healthy: true, Metrics: domain.ShardMetrics{DocumentCount: 4}}, nil)

	time.Sleep(40 * time.Millisecond)
	dead := svc.CheckHealth(context.Background())
	require.Len(t, dead, 1)
	assert.Equal(t, shard.ID(0), dead[0].ID)
	assert.Equal(t, domain.ShardOffline, dead[0].Status)

	stats := svc.ClusterStats(context.Background())
	assert.Equal(t, 1, stats.OnlineShards)
	assert.Equal(t, uint64(4), stats.TotalDocuments)
}
