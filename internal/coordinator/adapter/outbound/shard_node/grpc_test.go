package shard_node

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
)

type fakeShard struct {
	rpc.ShardServiceServer

	tickCalls atomic.Int32
	tfCalls   atomic.Int32
	nodeCalls atomic.Int32
	takeCalls atomic.Int32
}

func (f *fakeShard) TickPhase(_ context.Context, in *rpc.TickPhaseRequest) (*rpc.TickPhaseResponse, error) {
	if f.tickCalls.Add(1) > 1 {
		return nil, status.Error(codes.Unavailable, "shard is restarting")
	}
	return &rpc.TickPhaseResponse{Result: domain.PhaseResult{
		ShardID:   2,
		Phase:     in.Phase,
		Tick:      in.Tick,
		NodeCount: 4,
		CrossShardEdges: []domain.CrossShardEdge{
			{FromNode: domain.NodeIDFromSeed(1), ToNode: domain.NodeIDFromSeed(2), ToShard: 1, Weight: 0.5},
		},
	}}, nil
}

func (f *fakeShard) GetTermFrequencies(context.Context, *rpc.TermFrequenciesRequest) (*rpc.TermFrequenciesResponse, error) {
	f.tfCalls.Add(1)
	return nil, status.Error(codes.Unavailable, "connection reset")
}

func (f *fakeShard) GetNode(_ context.Context, in *rpc.GetNodeRequest) (*rpc.GetNodeResponse, error) {
	f.nodeCalls.Add(1)
	return nil, rpc.ToStatus(&domain.ShardNotFoundError{ID: 9})
}

func (f *fakeShard) ResolveGhostNodes(_ context.Context, in *rpc.ResolveGhostNodesRequest) (*rpc.ResolveGhostNodesResponse, error) {
	out := make([]domain.GhostNode, 0, len(in.NodeIDs))
	for _, id := range in.NodeIDs {
		out = append(out, domain.GhostNode{NodeID: id, ShardID: 2, Label: "membrane", FullData: &domain.NodeData{ID: id, Label: "membrane"}})
	}
	return &rpc.ResolveGhostNodesResponse{Ghosts: out}, nil
}

func (f *fakeShard) TakePendingEdges(context.Context, *rpc.TakePendingEdgesRequest) (*rpc.TakePendingEdgesResponse, error) {
	f.takeCalls.Add(1)
	return nil, status.Error(codes.Unavailable, "connection reset")
}

func (f *fakeShard) RequeuePendingEdges(_ context.Context, in *rpc.RequeuePendingEdgesRequest) (*rpc.RequeuePendingEdgesResponse, error) {
	return &rpc.RequeuePendingEdgesResponse{Result: domain.RequeueResult{Requeued: len(in.Edges)}}, nil
}

func newTestAdapter(t *testing.T, fake *fakeShard) *GrpcAdapter {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	rpc.RegisterShardServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.CallOptions(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewGrpcAdapterWithDialer(Options{
		Timeout:    time.Second,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	}, func(string) (grpc.ClientConnInterface, error) { return conn, nil })
}

func TestTickPhaseRoundTrip(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)
	target := port.Target{ID: 2, Addr: "shard-2"}

	res, err := adapter.TickPhase(context.Background(), target, domain.PhaseAct, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAct, res.Phase)
	assert.Equal(t, uint64(7), res.Tick)
	assert.Equal(t, 4, res.NodeCount)
	require.Len(t, res.CrossShardEdges, 1)
	assert.Equal(t, domain.NodeIDFromSeed(2), res.CrossShardEdges[0].ToNode)
}

func TestTickPhaseIsNotRetried(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)
	target := port.Target{ID: 2, Addr: "shard-2"}

	_, err := adapter.TickPhase(context.Background(), target, domain.PhaseSense, 1)
	require.NoError(t, err)

	_, err = adapter.TickPhase(context.Background(), target, domain.PhaseAct, 1)
	assert.ErrorIs(t, err, domain.ErrRPC)
	assert.Equal(t, int32(2), fake.tickCalls.Load())
}

func TestNotFoundIsNotRetried(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)

	_, _, err := adapter.GetNode(context.Background(), port.Target{ID: 9, Addr: "shard-9"}, domain.NodeIDFromSeed(1))
	assert.ErrorIs(t, err, domain.ErrShardNotFound)
	assert.Equal(t, int32(1), fake.nodeCalls.Load())
	assert.Equal(t, resilience.CircuitClosed, adapter.BreakerState("shard-9"))
}

func TestTransportFailureTripsBreaker(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)
	target := port.Target{ID: 3, Addr: "shard-3"}

	_, err := adapter.GetTermFrequencies(context.Background(), target, []string{"cell"})
	assert.ErrorIs(t, err, domain.ErrRPC)
	assert.Equal(t, int32(3), fake.tfCalls.Load())
	assert.Equal(t, resilience.CircuitOpen, adapter.BreakerState("shard-3"))

	// Open breaker short-circuits without reaching the server.
	_, err = adapter.GetTermFrequencies(context.Background(), target, []string{"cell"})
	assert.ErrorIs(t, err, domain.ErrRPC)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, int32(3), fake.tfCalls.Load())
}

func TestResolveGhostNodes(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)

	ids := []domain.NodeID{domain.NodeIDFromSeed(1), domain.NodeIDFromSeed(2)}
	ghosts, err := adapter.ResolveGhostNodes(context.Background(), port.Target{ID: 2, Addr: "shard-2"}, ids)
	require.NoError(t, err)
	require.Len(t, ghosts, 2)
	assert.True(t, ghosts[0].IsResolved())
	assert.Equal(t, ids[1], ghosts[1].NodeID)
}

func TestTakePendingEdgesIsNotRetried(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)

	_, err := adapter.TakePendingEdges(context.Background(), port.Target{ID: 2, Addr: "shard-2"})
	assert.ErrorIs(t, err, domain.ErrRPC)
	assert.Equal(t, int32(1), fake.takeCalls.Load())
}

func TestRequeuePendingEdges(t *testing.T) {
	fake := &fakeShard{}
	adapter := newTestAdapter(t, fake)

	edges := []domain.CrossShardEdge{{FromNode: domain.NodeIDFromSeed(1), ToNode: domain.NodeIDFromSeed(2), ToShard: 1, Weight: 0.5}}
	res, err := adapter.RequeuePendingEdges(context.Background(), port.Target{ID: 2, Addr: "shard-2"}, edges)
	require.NoError(t, err)
	assert.Equal(t, domain.RequeueResult{Requeued: 1}, res)
}
