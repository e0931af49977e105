package shard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaolacci/murmur3"
)

const (
	// DefaultVNodesPerShard is the default number of virtual nodes per shard.
	// A higher number improves distribution balance but increases ring size.
	DefaultVNodesPerShard = 150
)

// Ring manages the consistent hashing ring that maps keys to shards.
type Ring struct {
	mu             sync.RWMutex
	vnodes         []VNode // Sorted by token
	shards         map[ID]struct{}
	vnodesPerShard int
}

// NewRing creates a ring populated with the given shards.
// It panics when no shard is supplied: a ring without owners cannot route anything.
func NewRing(vnodesPerShard int, shards ...ID) *Ring {
	if len(shards) == 0 {
		panic("shard: ring requires at least one shard")
	}
	if vnodesPerShard <= 0 {
		vnodesPerShard = DefaultVNodesPerShard
	}

	r := &Ring{
		vnodes:         make([]VNode, 0, len(shards)*vnodesPerShard),
		shards:         make(map[ID]struct{}, len(shards)),
		vnodesPerShard: vnodesPerShard,
	}
	for _, id := range shards {
		r.addLocked(id)
	}
	r.sortLocked()
	return r
}

// AddShard places a shard's virtual nodes on the ring. Adding a known shard is a no-op.
func (r *Ring) AddShard(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shards[id]; exists {
		return
	}
	r.addLocked(id)
	r.sortLocked()
}

// RemoveShard removes every virtual node owned by the shard.
func (r *Ring) RemoveShard(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.shards[id]; !exists {
		return
	}
	delete(r.shards, id)

	kept := make([]VNode, 0, len(r.vnodes))
	for _, vn := range r.vnodes {
		if vn.ShardID != id {
			kept = append(kept, vn)
		}
	}
	r.vnodes = kept
}

// GetShard returns the shard owning key. The boolean is false only when every
// shard has been removed from the ring.
func (r *Ring) GetShard(key string) (ID, bool) {
	return r.LocateToken(Token(key))
}

// LocateToken finds the shard owning the first virtual node at or after token.
func (r *Ring) LocateToken(token uint64) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 {
		return 0, false
	}
	return r.vnodes[r.searchLocked(token)].ShardID, true
}

// GetReplicaShards returns the primary owner of key followed by up to n further
// distinct shards found walking the ring clockwise.
func (r *Ring) GetReplicaShards(key string, n int) []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 {
		return nil
	}
	if n < 0 {
		n = 0
	}
	want := n + 1
	if want > len(r.shards) {
		want = len(r.shards)
	}

	replicas := make([]ID, 0, want)
	seen := make(map[ID]struct{}, want)
	idx := r.searchLocked(Token(key))
	for steps := 0; len(replicas) < want && steps < len(r.vnodes); steps++ {
		id := r.vnodes[idx].ShardID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			replicas = append(replicas, id)
		}
		idx = (idx + 1) % len(r.vnodes)
	}
	return replicas
}

// HasShard reports whether the shard currently owns ring positions.
func (r *Ring) HasShard(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.shards[id]
	return ok
}

// Shards returns the shard IDs on the ring in ascending order.
func (r *Ring) Shards() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.shards))
	for id := range r.shards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *Ring) ShardCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shards)
}

func (r *Ring) VNodesPerShard() int {
	return r.vnodesPerShard
}

func (r *Ring) TotalVNodes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vnodes)
}

// Token hashes a key onto the ring.
func Token(key string) uint64 {
	return murmur3.Sum64([]byte(key))
}

func (r *Ring) addLocked(id ID) {
	r.shards[id] = struct{}{}
	for i := 0; i < r.vnodesPerShard; i++ {
		r.vnodes = append(r.vnodes, VNode{
			Token:   Token(fmt.Sprintf("shard-%d-vnode-%d", uint32(id), i)),
			ShardID: id,
		})
	}
}

func (r *Ring) sortLocked() {
	// Ties are broken by shard ID so that ownership never depends on insertion order.
	sort.Slice(r.vnodes, func(i, j int) bool {
		if r.vnodes[i].Token == r.vnodes[j].Token {
			return r.vnodes[i].ShardID < r.vnodes[j].ShardID
		}
		return r.vnodes[i].Token < r.vnodes[j].Token
	})
}

// searchLocked returns the index of the first vnode with token >= target, wrapping to 0.
func (r *Ring) searchLocked(token uint64) int {
	idx := sort.Search(len(r.vnodes), func(i int) bool {
		return r.vnodes[i].Token >= token
	})
	if idx == len(r.vnodes) {
		idx = 0
	}
	return idx
}
