package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     codes.Code
		sentinel error
	}{
		{name: "shard not found", err: &domain.ShardNotFoundError{ID: 7}, code: codes.NotFound, sentinel: domain.ErrShardNotFound},
		{name: "ghost not found", err: domain.ErrGhostNodeNotFound, code: codes.NotFound, sentinel: domain.ErrGhostNodeNotFound},
		{name: "routing failed", err: &domain.RoutingFailedError{DocumentID: "d", Owner: 2, HasOwner: true}, code: codes.FailedPrecondition, sentinel: domain.ErrRoutingFailed},
		{name: "phase timeout", err: &domain.PhaseTimeoutError{Phase: domain.PhaseAct, Tick: 3}, code: codes.DeadlineExceeded, sentinel: domain.ErrPhaseTimeout},
		{name: "barrier failed", err: domain.ErrBarrierFailed, code: codes.Aborted, sentinel: domain.ErrBarrierFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := ToStatus(tt.err)
			assert.Equal(t, tt.code, status.Code(wire))

			back := FromStatus("Op", "addr", wire)
			assert.ErrorIs(t, back, tt.sentinel)
			assert.Equal(t, tt.err.Error(), back.Error())
		})
	}
}

func TestFromStatusTransport(t *testing.T) {
	err := FromStatus("TickPhase", "10.0.0.1:7000", status.Error(codes.Unavailable, "connection refused"))
	assert.ErrorIs(t, err, domain.ErrRPC)
	assert.True(t, domain.IsRetryable(err))

	assert.ErrorIs(t, FromStatus("x", "y", status.Error(codes.Canceled, "bye")), context.Canceled)
	assert.NoError(t, FromStatus("x", "y", nil))
}

type fakeCoordinator struct {
	CoordinatorServiceServer
	registered domain.ShardInfo
}

func (f *fakeCoordinator) Register(_ context.Context, in *RegisterRequest) (*RegisterResponse, error) {
	f.registered = in.Info
	return &RegisterResponse{ShardID: 4}, nil
}

func (f *fakeCoordinator) Unregister(_ context.Context, in *UnregisterRequest) (*Empty, error) {
	return nil, ToStatus(&domain.ShardNotFoundError{ID: in.ShardID})
}

func TestJSONCodecOverGRPC(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	fake := &fakeCoordinator{}
	RegisterCoordinatorServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		CallOptions(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := NewCoordinatorServiceClient(conn)
	resp, err := client.Register(context.Background(), &RegisterRequest{Info: domain.ShardInfo{Address: "10.0.0.2:7000", Status: domain.ShardOnline}})
	require.NoError(t, err)
	assert.Equal(t, shard.ID(4), resp.ShardID)
	assert.Equal(t, "10.0.0.2:7000", fake.registered.Address)

	_, err = client.Unregister(context.Background(), &UnregisterRequest{ShardID: 9})
	assert.ErrorIs(t, FromStatus("Unregister", "bufnet", err), domain.ErrShardNotFound)
}
