package service

import (
	"context"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// ShardServiceImpl is a facade that composes the shard's use-case services.
type ShardServiceImpl struct {
	colony      *Colony
	store       port.DocumentStore
	coordinator port.CoordinatorClient
	addr        string

	ingest     *ingestService
	membership *membershipService
}

// Ensure ShardServiceImpl implements port.ShardService.
var (
	_ port.ShardService = (*ShardServiceImpl)(nil)
	_ gossip.Listener   = (*ShardServiceImpl)(nil)
)

// NewShardService builds the shard facade. coordinator may be nil for an
// embedded shard that the coordinator drives in-process.
func NewShardService(colony *Colony, store port.DocumentStore, coordinator port.CoordinatorClient, addr string) *ShardServiceImpl {
	svc := &ShardServiceImpl{
		colony:      colony,
		store:       store,
		coordinator: coordinator,
		addr:        addr,
	}
	svc.ingest = newIngestService(svc)
	svc.membership = newMembershipService(svc)
	return svc
}

func (s *ShardServiceImpl) ID() shard.ID {
	return s.colony.ID()
}

func (s *ShardServiceImpl) Colony() *Colony {
	return s.colony
}

// IngestDocument persists and ingests a document.
func (s *ShardServiceImpl) IngestDocument(ctx context.Context, doc domain.Document, routed bool) (domain.DocumentID, error) {
	return s.ingest.ingest(ctx, doc, routed)
}

// Replay rebuilds the local graph from the document store.
func (s *ShardServiceImpl) Replay(ctx context.Context) (int, error) {
	return s.ingest.replay(ctx)
}

// TickPhase runs one phase of the tick on the local colony.
func (s *ShardServiceImpl) TickPhase(ctx context.Context, phase domain.TickPhase, tick uint64) (domain.PhaseResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PhaseResult{}, err
	}
	return s.colony.TickPhase(phase, tick)
}

// LocalQuery scores local nodes against coordinator-supplied statistics.
func (s *ShardServiceImpl) LocalQuery(ctx context.Context, req domain.LocalQueryRequest) (domain.LocalQueryResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocalQueryResult{}, err
	}
	return s.colony.ExecuteLocalQuery(req), nil
}

func (s *ShardServiceImpl) GetTermFrequencies(ctx context.Context, terms []string) (map[string]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.colony.GetTermFrequencies(terms), nil
}

func (s *ShardServiceImpl) GetNode(ctx context.Context, id domain.NodeID) (domain.NodeData, bool, error) {
	node, ok := s.colony.GetNode(id)
	return node, ok, nil
}

func (s *ShardServiceImpl) GetNeighbors(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error) {
	return s.colony.GetNeighbors(id), nil
}

func (s *ShardServiceImpl) HealthCheck(ctx context.Context) (domain.ShardHealth, error) {
	return s.colony.Health(), nil
}

func (s *ShardServiceImpl) ResolveGhostNodes(ctx context.Context, ids []domain.NodeID) ([]domain.GhostNode, error) {
	return s.colony.ResolveGhostNodes(ids), nil
}

func (s *ShardServiceImpl) InsertGhostNodes(ctx context.Context, ghosts []domain.GhostNode, resolved []domain.CrossShardEdge) (int, error) {
	return s.colony.InsertGhostNodes(ghosts, resolved), nil
}

func (s *ShardServiceImpl) TakePendingEdges(ctx context.Context) ([]domain.CrossShardEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.colony.TakePendingEdges(), nil
}

func (s *ShardServiceImpl) RequeuePendingEdges(ctx context.Context, edges []domain.CrossShardEdge) (domain.RequeueResult, error) {
	requeued, abandoned := s.colony.RequeuePendingEdges(edges)
	if abandoned > 0 {
		logger.Infow("Abandoned unresolvable cross-shard edges",
			"shard_id", s.colony.ID(),
			"count", abandoned,
			"error", domain.ErrGhostNodeNotFound)
	}
	return domain.RequeueResult{Requeued: requeued, Abandoned: abandoned}, nil
}

func (s *ShardServiceImpl) ReceiveSignals(ctx context.Context, signals []domain.CrossShardSignal) (int, error) {
	return s.colony.ReceiveSignals(signals), nil
}

// StartHeartbeat reports metrics to the coordinator until ctx is canceled.
func (s *ShardServiceImpl) StartHeartbeat(ctx context.Context, interval time.Duration) {
	s.membership.startHeartbeat(ctx, interval)
}

// StartTopologySync keeps the local ring and peer set in line with the coordinator's registry.
func (s *ShardServiceImpl) StartTopologySync(ctx context.Context, interval time.Duration) {
	s.membership.startTopologySync(ctx, interval)
}

// SyncTopology runs one topology poll.
func (s *ShardServiceImpl) SyncTopology(ctx context.Context) error {
	return s.membership.syncTopology(ctx)
}

// Leave unregisters the shard from the coordinator.
func (s *ShardServiceImpl) Leave(ctx context.Context) error {
	return s.membership.leave(ctx)
}

func (s *ShardServiceImpl) MemberJoined(m gossip.Member) {
	s.membership.peerJoined(m)
}

func (s *ShardServiceImpl) MemberLeft(m gossip.Member) {
	s.membership.peerLeft(m)
}
