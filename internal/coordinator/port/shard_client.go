package port

import (
	"context"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

//go:generate mockgen -destination=mocks/shard_client_mock.go -package=mocks -source=shard_client.go

// Target identifies a shard by ID and the address it registered with.
type Target struct {
	ID   shard.ID
	Addr string
}

func TargetOf(info domain.ShardInfo) Target {
	return Target{ID: info.ID, Addr: info.Address}
}

// ShardClient is how the coordinator reaches a shard, over the network or
// in-process.
type ShardClient interface {
	IngestDocument(ctx context.Context, t Target, doc domain.Document, routed bool) (domain.DocumentID, error)
	TickPhase(ctx context.Context, t Target, phase domain.TickPhase, tick uint64) (domain.PhaseResult, error)
	LocalQuery(ctx context.Context, t Target, req domain.LocalQueryRequest) (domain.LocalQueryResult, error)
	GetTermFrequencies(ctx context.Context, t Target, terms []string) (map[string]uint64, error)
	GetNode(ctx context.Context, t Target, id domain.NodeID) (domain.NodeData, bool, error)
	GetNeighbors(ctx context.Context, t Target, id domain.NodeID) ([]domain.NodeID, error)
	HealthCheck(ctx context.Context, t Target) (domain.ShardHealth, error)
	ResolveGhostNodes(ctx context.Context, t Target, ids []domain.NodeID) ([]domain.GhostNode, error)
	InsertGhostNodes(ctx context.Context, t Target, ghosts []domain.GhostNode, edges []domain.CrossShardEdge) (int, error)
	TakePendingEdges(ctx context.Context, t Target) ([]domain.CrossShardEdge, error)
	RequeuePendingEdges(ctx context.Context, t Target, edges []domain.CrossShardEdge) (domain.RequeueResult, error)
	ReceiveSignals(ctx context.Context, t Target, signals []domain.CrossShardSignal) (int, error)
	Close() error
}
