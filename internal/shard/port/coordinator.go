package port

import (
	"context"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

//go:generate mockgen -destination=mocks/coordinator_mock.go -package=mocks -source=coordinator.go

// CoordinatorClient is the shard's view of the coordinator.
type CoordinatorClient interface {
	// Register announces the shard and returns the ID the coordinator assigned.
	// A non-nil preferred ID is reused when the coordinator does not know it yet.
	Register(ctx context.Context, info domain.ShardInfo, preferred *shard.ID) (shard.ID, error)

	Unregister(ctx context.Context, id shard.ID) error

	Heartbeat(ctx context.Context, msg domain.HeartbeatMessage) (domain.HeartbeatResponse, error)

	// ListShards returns the registry as the coordinator sees it.
	ListShards(ctx context.Context) ([]domain.ShardInfo, error)

	Close() error
}
