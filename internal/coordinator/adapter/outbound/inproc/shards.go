package inproc

import (
	"context"
	"sync"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	shardport "github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// Adapter reaches shards hosted in the coordinator process directly. Targets
// it does not host go to the fallback client, so embedded and remote shards
// can share one cluster.
type Adapter struct {
	mu       sync.RWMutex
	shards   map[shard.ID]shardport.ShardService
	fallback port.ShardClient
}

// Ensure Adapter implements port.ShardClient
var _ port.ShardClient = (*Adapter)(nil)

// NewAdapter builds the adapter. fallback may be nil.
func NewAdapter(fallback port.ShardClient) *Adapter {
	return &Adapter{
		shards:   make(map[shard.ID]shardport.ShardService),
		fallback: fallback,
	}
}

func (a *Adapter) Add(svc shardport.ShardService) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.shards[svc.ID()] = svc
}

func (a *Adapter) Remove(id shard.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.shards, id)
}

func (a *Adapter) Hosted() []shardport.ShardService {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]shardport.ShardService, 0, len(a.shards))
	for _, s := range a.shards {
		out = append(out, s)
	}
	return out
}

func (a *Adapter) resolve(t port.Target) (shardport.ShardService, port.ShardClient, error) {
	a.mu.RLock()
	svc, ok := a.shards[t.ID]
	a.mu.RUnlock()
	if ok {
		return svc, nil, nil
	}
	if a.fallback != nil {
		return nil, a.fallback, nil
	}
	return nil, nil, &domain.ShardNotFoundError{ID: t.ID}
}

func (a *Adapter) IngestDocument(ctx context.Context, t port.Target, doc domain.Document, routed bool) (domain.DocumentID, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return "", err
	case remote != nil:
		return remote.IngestDocument(ctx, t, doc, routed)
	}
	return svc.IngestDocument(ctx, doc, routed)
}

func (a *Adapter) TickPhase(ctx context.Context, t port.Target, phase domain.TickPhase, tick uint64) (domain.PhaseResult, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return domain.PhaseResult{}, err
	case remote != nil:
		return remote.TickPhase(ctx, t, phase, tick)
	}
	return svc.TickPhase(ctx, phase, tick)
}

func (a *Adapter) LocalQuery(ctx context.Context, t port.Target, req domain.LocalQueryRequest) (domain.LocalQueryResult, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return domain.LocalQueryResult{}, err
	case remote != nil:
		return remote.LocalQuery(ctx, t, req)
	}
	return svc.LocalQuery(ctx, req)
}

func (a *Adapter) GetTermFrequencies(ctx context.Context, t port.Target, terms []string) (map[string]uint64, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return nil, err
	case remote != nil:
		return remote.GetTermFrequencies(ctx, t, terms)
	}
	return svc.GetTermFrequencies(ctx, terms)
}

func (a *Adapter) GetNode(ctx context.Context, t port.Target, id domain.NodeID) (domain.NodeData, bool, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return domain.NodeData{}, false, err
	case remote != nil:
		return remote.GetNode(ctx, t, id)
	}
	return svc.GetNode(ctx, id)
}

func (a *Adapter) GetNeighbors(ctx context.Context, t port.Target, id domain.NodeID) ([]domain.NodeID, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return nil, err
	case remote != nil:
		return remote.GetNeighbors(ctx, t, id)
	}
	return svc.GetNeighbors(ctx, id)
}

func (a *Adapter) HealthCheck(ctx context.Context, t port.Target) (domain.ShardHealth, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return domain.ShardHealth{}, err
	case remote != nil:
		return remote.HealthCheck(ctx, t)
	}
	return svc.HealthCheck(ctx)
}

func (a *Adapter) ResolveGhostNodes(ctx context.Context, t port.Target, ids []domain.NodeID) ([]domain.GhostNode, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return nil, err
	case remote != nil:
		return remote.ResolveGhostNodes(ctx, t, ids)
	}
	return svc.ResolveGhostNodes(ctx, ids)
}

func (a *Adapter) InsertGhostNodes(ctx context.Context, t port.Target, ghosts []domain.GhostNode, edges []domain.CrossShardEdge) (int, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return 0, err
	case remote != nil:
		return remote.InsertGhostNodes(ctx, t, ghosts, edges)
	}
	return svc.InsertGhostNodes(ctx, ghosts, edges)
}

func (a *Adapter) TakePendingEdges(ctx context.Context, t port.Target) ([]domain.CrossShardEdge, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return nil, err
	case remote != nil:
		return remote.TakePendingEdges(ctx, t)
	}
	return svc.TakePendingEdges(ctx)
}

func (a *Adapter) RequeuePendingEdges(ctx context.Context, t port.Target, edges []domain.CrossShardEdge) (domain.RequeueResult, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return domain.RequeueResult{}, err
	case remote != nil:
		return remote.RequeuePendingEdges(ctx, t, edges)
	}
	return svc.RequeuePendingEdges(ctx, edges)
}

func (a *Adapter) ReceiveSignals(ctx context.Context, t port.Target, signals []domain.CrossShardSignal) (int, error) {
	svc, remote, err := a.resolve(t)
	switch {
	case err != nil:
		return 0, err
	case remote != nil:
		return remote.ReceiveSignals(ctx, t, signals)
	}
	return svc.ReceiveSignals(ctx, signals)
}

func (a *Adapter) Close() error {
	var err error
	if a.fallback != nil {
		err = a.fallback.Close()
	}
	a.mu.Lock()
	a.shards = make(map[shard.ID]shardport.ShardService)
	a.mu.Unlock()
	return err
}
