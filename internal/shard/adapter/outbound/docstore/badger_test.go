package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func openMemory(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_PutGetScan(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	docs := []domain.Document{
		{ID: "b", Title: "second", Content: "protein folding"},
		{ID: "a", Title: "first", Content: "cell membrane", Position: domain.Position{X: 1, Y: 2}},
	}
	for _, d := range docs {
		require.NoError(t, s.Put(ctx, d))
	}

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, docs[1], got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, port.ErrDocumentNotFound)

	var ids []domain.DocumentID
	require.NoError(t, s.Scan(ctx, func(d domain.Document) error {
		ids = append(ids, d.ID)
		return nil
	}))
	assert.Equal(t, []domain.DocumentID{"a", "b"}, ids, "scan walks key order")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBadgerStore_ScanStopsOnError(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	require.NoError(t, s.Put(ctx, domain.Document{ID: "a"}))
	require.NoError(t, s.Put(ctx, domain.Document{ID: "b"}))

	stop := errors.New("stop")
	calls := 0
	err := s.Scan(ctx, func(domain.Document) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestBadgerStore_DeleteAndClose(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, domain.Document{ID: "a"}))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, port.ErrDocumentNotFound)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Put(ctx, domain.Document{ID: "b"}), ErrStoreClosed)
}

func TestBadgerStore_ShardID(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	_, found, err := s.ShardID(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetShardID(ctx, 12))
	require.NoError(t, s.Put(ctx, domain.Document{ID: "a"}))

	id, found, err := s.ShardID(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, shard.ID(12), id)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "metadata is not counted as a document")
}
