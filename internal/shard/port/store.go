package port

import (
	"context"
	"errors"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

//go:generate mockgen -destination=mocks/store_mock.go -package=mocks -source=store.go

// DocumentStore persists ingested documents so a restarted shard can rebuild its graph.
type DocumentStore interface {
	// Put stores a document. Storing the same ID twice overwrites it.
	Put(ctx context.Context, doc domain.Document) error

	Get(ctx context.Context, id domain.DocumentID) (domain.Document, error)

	// Scan calls fn for every stored document in key order until fn returns an error.
	Scan(ctx context.Context, fn func(domain.Document) error) error

	Delete(ctx context.Context, id domain.DocumentID) error

	Count(ctx context.Context) (int, error)

	// ShardID returns the identity assigned by the coordinator on a previous run.
	ShardID(ctx context.Context) (shard.ID, bool, error)
	SetShardID(ctx context.Context, id shard.ID) error

	Close() error
}
