package docstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

var (
	ErrStoreClosed = errors.New("document store closed")

	docPrefix  = []byte("doc/")
	shardIDKey = []byte("meta/shard_id")
)

// Options configures the badger-backed store.
type Options struct {
	DataDir  string
	InMemory bool
}

// BadgerStore persists documents in a badger key-value store under "doc/<id>".
type BadgerStore struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

var _ port.DocumentStore = (*BadgerStore)(nil)

func Open(opts Options) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.DataDir)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	// errors surface through return values
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func docKey(id domain.DocumentID) []byte {
	return append(append([]byte(nil), docPrefix...), string(id)...)
}

func (s *BadgerStore) Put(ctx context.Context, doc domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	return s.withUpdate(func(txn *badger.Txn) error {
		return txn.Set(docKey(doc.ID), val)
	})
}

func (s *BadgerStore) Get(ctx context.Context, id domain.DocumentID) (domain.Document, error) {
	var doc domain.Document
	err := s.withView(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return port.ErrDocumentNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	return doc, err
}

func (s *BadgerStore) Scan(ctx context.Context, fn func(domain.Document) error) error {
	return s.withView(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = docPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc domain.Document
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if err := fn(doc); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Delete(ctx context.Context, id domain.DocumentID) error {
	return s.withUpdate(func(txn *badger.Txn) error {
		return txn.Delete(docKey(id))
	})
}

func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.withView(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = docPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *BadgerStore) ShardID(ctx context.Context) (shard.ID, bool, error) {
	var (
		id    shard.ID
		found bool
	)
	err := s.withView(func(txn *badger.Txn) error {
		item, err := txn.Get(shardIDKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("corrupt shard id record: %d bytes", len(val))
			}
			id = shard.ID(binary.BigEndian.Uint32(val))
			found = true
			return nil
		})
	})
	return id, found, err
}

func (s *BadgerStore) SetShardID(ctx context.Context, id shard.ID) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(id))
	return s.withUpdate(func(txn *badger.Txn) error {
		return txn.Set(shardIDKey, buf[:])
	})
}

func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *BadgerStore) withView(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.View(fn)
}

func (s *BadgerStore) withUpdate(fn func(txn *badger.Txn) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.db.Update(fn)
}
