package port

import (
	"context"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

//go:generate mockgen -destination=mocks/service_mock.go -package=mocks -source=service.go

// CoordinatorService is what the coordinator's inbound adapters (gRPC for
// shards, HTTP for operators) call into.
type CoordinatorService interface {
	// Membership.
	RegisterShard(ctx context.Context, info domain.ShardInfo, preferred *shard.ID) (shard.ID, error)
	UnregisterShard(ctx context.Context, id shard.ID) error
	Heartbeat(ctx context.Context, msg domain.HeartbeatMessage) (domain.HeartbeatResponse, error)
	ListShards(ctx context.Context) []domain.ShardInfo
	SetShardStatus(ctx context.Context, id shard.ID, status domain.ShardStatus) error
	ClusterStats(ctx context.Context) domain.ClusterStats

	// Routing. The returned info carries the owner's address.
	RouteDocument(ctx context.Context, id domain.DocumentID) (domain.ShardInfo, error)
	RouteNode(ctx context.Context, id domain.NodeID) (domain.ShardInfo, error)
	ReplicaShards(ctx context.Context, id domain.DocumentID) ([]shard.ID, error)

	// Tick barrier.
	PhaseComplete(ctx context.Context, id shard.ID, phase domain.TickPhase, tick uint64) error
	BarrierReady(ctx context.Context, id shard.ID, phase domain.TickPhase, tick uint64) (bool, error)
	CurrentTick(ctx context.Context) uint64
	TickStatus(ctx context.Context) domain.TickStatus

	// StartTick runs one full tick and returns the new tick number.
	StartTick(ctx context.Context) (uint64, error)
	RunTicks(ctx context.Context, n int) ([]domain.TickReport, error)

	// Documents and queries.
	IngestDocument(ctx context.Context, doc domain.Document) (domain.DocumentID, shard.ID, error)
	Query(ctx context.Context, text string) ([]domain.ScoredNode, error)
	GlobalDF(ctx context.Context, terms []string) (map[string]uint64, error)
	GetNode(ctx context.Context, id domain.NodeID) (domain.NodeData, bool, error)
	GetNeighbors(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error)
	BroadcastSignals(ctx context.Context, signals []domain.CrossShardSignal) (int, error)
}
