package service

import (
	"context"
	"fmt"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
)

// ingestService persists documents before handing them to the colony.
type ingestService struct {
	core *ShardServiceImpl
}

func newIngestService(core *ShardServiceImpl) *ingestService {
	return &ingestService{core: core}
}

func (s *ingestService) ingest(ctx context.Context, doc domain.Document, routed bool) (domain.DocumentID, error) {
	if doc.ID == "" {
		doc.ID = domain.NewDocumentID()
	}
	if !routed && !s.core.colony.OwnsDocument(doc.ID) {
		owner, ok := s.core.colony.Ring().GetShard(string(doc.ID))
		logger.Debugw("Rejecting unrouted document", "document_id", doc.ID, "owner", owner, "has_owner", ok)
		return "", &domain.RoutingFailedError{DocumentID: doc.ID, Owner: owner, HasOwner: ok}
	}

	if s.core.store != nil {
		if err := s.core.store.Put(ctx, doc); err != nil {
			return "", fmt.Errorf("persist document %s: %w", doc.ID, err)
		}
	}
	return s.core.colony.IngestDocumentDirect(doc), nil
}

func (s *ingestService) replay(ctx context.Context) (int, error) {
	if s.core.store == nil {
		return 0, nil
	}
	n := 0
	err := s.core.store.Scan(ctx, func(doc domain.Document) error {
		s.core.colony.IngestDocumentDirect(doc)
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("replay documents: %w", err)
	}
	logger.Infow("Replayed documents from store", "shard_id", s.core.colony.ID(), "count", n)
	return n, nil
}
