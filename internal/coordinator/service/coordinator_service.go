package service

import (
	"context"
	"time"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// CoordinatorServiceImpl is the facade that wires the coordinator's use-case
// services behind port.CoordinatorService.
type CoordinatorServiceImpl struct {
	coord  *Coordinator
	shards port.ShardClient
	ids    port.IDGenerator

	runner *DistributedRunner
	query  *DistributedQueryEngine

	documentUseCase   *documentService
	membershipUseCase *membershipService
	health            *healthMonitor
}

// Ensure CoordinatorServiceImpl implements port.CoordinatorService.
var (
	_ port.CoordinatorService = (*CoordinatorServiceImpl)(nil)
	_ gossip.Listener         = (*CoordinatorServiceImpl)(nil)
)

type ServiceOptions struct {
	Runner RunnerOptions
	Query  QueryOptions
}

// NewCoordinatorService builds the facade and its use-case services. ids may
// be nil, in which case documents without an ID get a random one.
func NewCoordinatorService(coord *Coordinator, shards port.ShardClient, ids port.IDGenerator, opts ServiceOptions) *CoordinatorServiceImpl {
	svc := &CoordinatorServiceImpl{
		coord:  coord,
		shards: shards,
		ids:    ids,
	}
	svc.runner = NewDistributedRunner(coord, shards, opts.Runner)
	svc.query = NewDistributedQueryEngine(coord, shards, opts.Query)
	svc.documentUseCase = newDocumentService(svc)
	svc.membershipUseCase = newMembershipService(svc)
	svc.health = newHealthMonitor(coord, shards, svc.runner)
	return svc
}

func (s *CoordinatorServiceImpl) Coordinator() *Coordinator {
	return s.coord
}

func (s *CoordinatorServiceImpl) Runner() *DistributedRunner {
	return s.runner
}

func (s *CoordinatorServiceImpl) QueryEngine() *DistributedQueryEngine {
	return s.query
}

// StartHealthMonitor blocks, checking shard liveness every interval until ctx
// is done.
func (s *CoordinatorServiceImpl) StartHealthMonitor(ctx context.Context, interval time.Duration) {
	s.health.start(ctx, interval)
}

// CheckHealth runs one health pass and returns the shards it marked offline.
func (s *CoordinatorServiceImpl) CheckHealth(ctx context.Context) []domain.ShardInfo {
	return s.health.check(ctx)
}

func (s *CoordinatorServiceImpl) Close() error {
	s.runner.Close()
	return s.shards.Close()
}

func (s *CoordinatorServiceImpl) RegisterShard(ctx context.Context, info domain.ShardInfo, preferred *shard.ID) (shard.ID, error) {
	return s.membershipUseCase.register(ctx, info, preferred)
}

func (s *CoordinatorServiceImpl) UnregisterShard(ctx context.Context, id shard.ID) error {
	_, err := s.coord.DeregisterShard(id)
	return err
}

func (s *CoordinatorServiceImpl) Heartbeat(ctx context.Context, msg domain.HeartbeatMessage) (domain.HeartbeatResponse, error) {
	return s.coord.Heartbeat(msg)
}

func (s *CoordinatorServiceImpl) ListShards(ctx context.Context) []domain.ShardInfo {
	return s.coord.AllShards()
}

// SetShardStatus is the operator path. Draining takes the shard off the ring
// but keeps it in ticks until it is unregistered.
func (s *CoordinatorServiceImpl) SetShardStatus(ctx context.Context, id shard.ID, status domain.ShardStatus) error {
	return s.coord.SetShardStatus(id, status)
}

func (s *CoordinatorServiceImpl) ClusterStats(ctx context.Context) domain.ClusterStats {
	return s.coord.ClusterStats()
}

func (s *CoordinatorServiceImpl) RouteDocument(ctx context.Context, id domain.DocumentID) (domain.ShardInfo, error) {
	owner, err := s.coord.RouteDocument(id)
	if err != nil {
		return domain.ShardInfo{}, err
	}
	return s.coord.GetShard(owner)
}

func (s *CoordinatorServiceImpl) RouteNode(ctx context.Context, id domain.NodeID) (domain.ShardInfo, error) {
	owner, err := s.coord.RouteNode(id)
	if err != nil {
		return domain.ShardInfo{}, err
	}
	return s.coord.GetShard(owner)
}

func (s *CoordinatorServiceImpl) ReplicaShards(ctx context.Context, id domain.DocumentID) ([]shard.ID, error) {
	return s.coord.ReplicaShards(id)
}

func (s *CoordinatorServiceImpl) PhaseComplete(ctx context.Context, id shard.ID, phase domain.TickPhase, tick uint64) error {
	return s.coord.PhaseComplete(id, phase, tick)
}

func (s *CoordinatorServiceImpl) BarrierReady(ctx context.Context, id shard.ID, phase domain.TickPhase, tick uint64) (bool, error) {
	return s.coord.BarrierReady(id, phase, tick)
}

func (s *CoordinatorServiceImpl) CurrentTick(ctx context.Context) uint64 {
	return s.coord.CurrentTick()
}

func (s *CoordinatorServiceImpl) TickStatus(ctx context.Context) domain.TickStatus {
	return s.coord.TickStatus()
}

// StartTick runs one tick to completion.
func (s *CoordinatorServiceImpl) StartTick(ctx context.Context) (uint64, error) {
	report, err := s.runner.RunTick(ctx)
	if err != nil {
		return s.coord.CurrentTick(), err
	}
	return report.NextTick, nil
}

func (s *CoordinatorServiceImpl) RunTicks(ctx context.Context, n int) ([]domain.TickReport, error) {
	return s.runner.Run(ctx, n)
}

func (s *CoordinatorServiceImpl) IngestDocument(ctx context.Context, doc domain.Document) (domain.DocumentID, shard.ID, error) {
	return s.documentUseCase.ingest(ctx, doc)
}

func (s *CoordinatorServiceImpl) Query(ctx context.Context, text string) ([]domain.ScoredNode, error) {
	return s.query.Query(ctx, text)
}

func (s *CoordinatorServiceImpl) GlobalDF(ctx context.Context, terms []string) (map[string]uint64, error) {
	return s.query.GlobalDF(ctx, terms)
}

func (s *CoordinatorServiceImpl) GetNode(ctx context.Context, id domain.NodeID) (domain.NodeData, bool, error) {
	return s.documentUseCase.getNode(ctx, id)
}

func (s *CoordinatorServiceImpl) GetNeighbors(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error) {
	return s.documentUseCase.getNeighbors(ctx, id)
}

func (s *CoordinatorServiceImpl) BroadcastSignals(ctx context.Context, signals []domain.CrossShardSignal) (int, error) {
	return s.documentUseCase.broadcastSignals(ctx, signals)
}

// MemberJoined handles a gossip join.
func (s *CoordinatorServiceImpl) MemberJoined(m gossip.Member) {
	s.membershipUseCase.memberJoined(m)
}

// MemberLeft handles a gossip leave or failure.
func (s *CoordinatorServiceImpl) MemberLeft(m gossip.Member) {
	s.membershipUseCase.memberLeft(m)
}
