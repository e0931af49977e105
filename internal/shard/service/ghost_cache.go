package service

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// DefaultGhostCacheSize bounds the number of remote-node references a shard keeps.
const DefaultGhostCacheSize = 1000

// GhostNodeCache is a bounded LRU of ghost nodes keyed by node ID.
// Eviction never loses information: ghosts can always be fetched again from their owner.
type GhostNodeCache struct {
	cache    *lru.Cache[domain.NodeID, domain.GhostNode]
	capacity int
	hits     atomic.Uint64
	misses   atomic.Uint64
}

// GhostCacheStats summarizes cache occupancy and hit rate.
type GhostCacheStats struct {
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Resolved int    `json:"resolved"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}

func NewGhostNodeCache(capacity int) *GhostNodeCache {
	if capacity <= 0 {
		capacity = DefaultGhostCacheSize
	}
	cache, err := lru.New[domain.NodeID, domain.GhostNode](capacity)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &GhostNodeCache{cache: cache, capacity: capacity}
}

// Insert adds or replaces a ghost and reports whether an older entry was evicted.
func (c *GhostNodeCache) Insert(ghost domain.GhostNode) bool {
	return c.cache.Add(ghost.NodeID, ghost)
}

func (c *GhostNodeCache) Get(id domain.NodeID) (domain.GhostNode, bool) {
	g, ok := c.cache.Get(id)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return g, ok
}

func (c *GhostNodeCache) Contains(id domain.NodeID) bool {
	return c.cache.Contains(id)
}

func (c *GhostNodeCache) Remove(id domain.NodeID) bool {
	return c.cache.Remove(id)
}

// Resolve attaches a snapshot of the remote node to an existing ghost.
func (c *GhostNodeCache) Resolve(id domain.NodeID, data domain.NodeData) bool {
	g, ok := c.cache.Peek(id)
	if !ok {
		return false
	}
	snapshot := data
	g.FullData = &snapshot
	g.Label = data.Label
	c.cache.Add(id, g)
	return true
}

// InvalidateShard drops every ghost owned by the shard and returns how many were removed.
func (c *GhostNodeCache) InvalidateShard(id shard.ID) int {
	removed := 0
	for _, key := range c.cache.Keys() {
		g, ok := c.cache.Peek(key)
		if ok && g.ShardID == id {
			if c.cache.Remove(key) {
				removed++
			}
		}
	}
	return removed
}

// ByShard returns the ghosts owned by the shard, oldest first.
func (c *GhostNodeCache) ByShard(id shard.ID) []domain.GhostNode {
	var out []domain.GhostNode
	for _, g := range c.cache.Values() {
		if g.ShardID == id {
			out = append(out, g)
		}
	}
	return out
}

func (c *GhostNodeCache) Len() int {
	return c.cache.Len()
}

func (c *GhostNodeCache) Capacity() int {
	return c.capacity
}

func (c *GhostNodeCache) Clear() {
	c.cache.Purge()
}

func (c *GhostNodeCache) Stats() GhostCacheStats {
	resolved := 0
	for _, g := range c.cache.Values() {
		if g.IsResolved() {
			resolved++
		}
	}
	return GhostCacheStats{
		Size:     c.cache.Len(),
		Capacity: c.capacity,
		Resolved: resolved,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
	}
}
