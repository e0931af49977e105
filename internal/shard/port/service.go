package port

import (
	"context"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// ShardService is the business surface a shard exposes to the coordinator.
type ShardService interface {
	// ID returns the shard's coordinator-assigned identifier.
	ID() shard.ID

	// IngestDocument stores and ingests a document. When routed is false the shard
	// first checks that it owns the document.
	IngestDocument(ctx context.Context, doc domain.Document, routed bool) (domain.DocumentID, error)

	// TickPhase executes one phase of the given tick.
	TickPhase(ctx context.Context, phase domain.TickPhase, tick uint64) (domain.PhaseResult, error)

	LocalQuery(ctx context.Context, req domain.LocalQueryRequest) (domain.LocalQueryResult, error)
	GetTermFrequencies(ctx context.Context, terms []string) (map[string]uint64, error)

	GetNode(ctx context.Context, id domain.NodeID) (domain.NodeData, bool, error)
	GetNeighbors(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error)
	HealthCheck(ctx context.Context) (domain.ShardHealth, error)

	// Cross-shard edge resolution.
	ResolveGhostNodes(ctx context.Context, ids []domain.NodeID) ([]domain.GhostNode, error)
	InsertGhostNodes(ctx context.Context, ghosts []domain.GhostNode, resolved []domain.CrossShardEdge) (int, error)
	TakePendingEdges(ctx context.Context) ([]domain.CrossShardEdge, error)
	RequeuePendingEdges(ctx context.Context, edges []domain.CrossShardEdge) (domain.RequeueResult, error)

	ReceiveSignals(ctx context.Context, signals []domain.CrossShardSignal) (int, error)
}
