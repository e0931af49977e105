package service

import (
	"context"
	"fmt"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// documentService routes documents and node lookups to the owning shard.
type documentService struct {
	core *CoordinatorServiceImpl
}

func newDocumentService(core *CoordinatorServiceImpl) *documentService {
	return &documentService{core: core}
}

// ingest assigns an ID when the caller did not, routes the document through
// the ring and hands it to the owner as already routed.
func (s *documentService) ingest(ctx context.Context, doc domain.Document) (domain.DocumentID, shard.ID, error) {
	if doc.ID == "" {
		id, err := s.nextID()
		if err != nil {
			return "", 0, fmt.Errorf("generate document id: %w", err)
		}
		doc.ID = id
	}

	owner, err := s.core.coord.RouteDocument(doc.ID)
	if err != nil {
		return "", 0, err
	}
	info, err := s.core.coord.GetShard(owner)
	if err != nil {
		return "", 0, err
	}

	id, err := s.core.shards.IngestDocument(ctx, port.TargetOf(info), doc, true)
	if err != nil {
		logger.Warnw("Document ingest failed", "document_id", doc.ID, "shard_id", owner, "error", err)
		return "", owner, err
	}
	metricsDocumentsIngested.Inc()
	logger.Debugw("Document ingested", "document_id", id, "shard_id", owner)
	return id, owner, nil
}

func (s *documentService) nextID() (domain.DocumentID, error) {
	if s.core.ids == nil {
		return domain.NewDocumentID(), nil
	}
	id, err := s.core.ids.NextString()
	if err != nil {
		return "", err
	}
	return domain.DocumentID(id), nil
}

func (s *documentService) getNode(ctx context.Context, id domain.NodeID) (domain.NodeData, bool, error) {
	_, node, found, err := s.findNode(ctx, id)
	return node, found, err
}

func (s *documentService) getNeighbors(ctx context.Context, id domain.NodeID) ([]domain.NodeID, error) {
	t, _, found, err := s.findNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.NodeID{}, nil
	}
	return s.core.shards.GetNeighbors(ctx, t, id)
}

// findNode asks the ring owner first. Document nodes live with their document
// rather than at their own ring position, so a miss falls back to the other
// shards.
func (s *documentService) findNode(ctx context.Context, id domain.NodeID) (port.Target, domain.NodeData, bool, error) {
	var lastErr error
	for _, t := range s.lookupOrder(id) {
		node, found, err := s.core.shards.GetNode(ctx, t, id)
		if err != nil {
			lastErr = err
			continue
		}
		if found {
			return t, node, true, nil
		}
	}
	return port.Target{}, domain.NodeData{}, false, lastErr
}

func (s *documentService) lookupOrder(id domain.NodeID) []port.Target {
	shards := s.core.coord.ParticipatingShards()
	order := make([]port.Target, 0, len(shards))
	owner, err := s.core.coord.RouteNode(id)
	if err == nil {
		for _, info := range shards {
			if info.ID == owner {
				order = append(order, port.TargetOf(info))
			}
		}
	}
	for _, info := range shards {
		if err == nil && info.ID == owner {
			continue
		}
		order = append(order, port.TargetOf(info))
	}
	return order
}

// broadcastSignals delivers signals to every participating shard except the
// one that emitted them and returns how many deliveries were accepted.
func (s *documentService) broadcastSignals(ctx context.Context, signals []domain.CrossShardSignal) (int, error) {
	if len(signals) == 0 {
		return 0, nil
	}
	accepted := 0
	var lastErr error
	for _, info := range s.core.coord.ParticipatingShards() {
		batch := make([]domain.CrossShardSignal, 0, len(signals))
		for _, sig := range signals {
			if sig.SourceShard != info.ID {
				batch = append(batch, sig)
			}
		}
		if len(batch) == 0 {
			continue
		}
		n, err := s.core.shards.ReceiveSignals(ctx, port.TargetOf(info), batch)
		if err != nil {
			logger.Warnw("Signal delivery failed", "shard_id", info.ID, "error", err)
			lastErr = err
			continue
		}
		accepted += n
	}
	if accepted == 0 && lastErr != nil {
		return 0, lastErr
	}
	return accepted, nil
}
