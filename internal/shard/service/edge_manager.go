package service

import (
	"sort"
	"sync"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// DefaultMaxResolveAttempts is how many failed resolution passes an edge
// survives before it leaves the pending queue.
const DefaultMaxResolveAttempts = 5

type edgePair [2]domain.NodeID

func pairOf(e domain.CrossShardEdge) edgePair {
	return edgePair{e.FromNode, e.ToNode}
}

// CrossShardEdgeManager tracks edges whose endpoints live on different shards.
// Outgoing edges are indexed by their local from-node, incoming edges by their
// local to-node. For incoming edges ToShard names the remote peer.
type CrossShardEdgeManager struct {
	mu          sync.RWMutex
	outgoing    map[domain.NodeID][]domain.CrossShardEdge
	incoming    map[domain.NodeID][]domain.CrossShardEdge
	pending     []domain.CrossShardEdge
	attempts    map[edgePair]int
	maxAttempts int
}

// CrossShardEdgeStats summarizes the manager's tables.
type CrossShardEdgeStats struct {
	OutgoingEdges   int              `json:"outgoing_edges"`
	IncomingEdges   int              `json:"incoming_edges"`
	Pending         int              `json:"pending_resolution"`
	ConnectedShards int              `json:"connected_shards"`
	EdgesByShard    map[shard.ID]int `json:"edges_by_shard"`
	AverageWeight   float64          `json:"average_weight"`
}

func NewCrossShardEdgeManager() *CrossShardEdgeManager {
	return &CrossShardEdgeManager{
		outgoing:    make(map[domain.NodeID][]domain.CrossShardEdge),
		incoming:    make(map[domain.NodeID][]domain.CrossShardEdge),
		attempts:    make(map[edgePair]int),
		maxAttempts: DefaultMaxResolveAttempts,
	}
}

// SetMaxResolveAttempts bounds how often an edge may be requeued. Non-positive
// values restore the default.
func (m *CrossShardEdgeManager) SetMaxResolveAttempts(n int) {
	if n <= 0 {
		n = DefaultMaxResolveAttempts
	}
	m.mu.Lock()
	m.maxAttempts = n
	m.mu.Unlock()
}

// AddOutgoingEdge records the edge under its from-node and queues it for resolution.
// Re-adding a known (from, to) pair keeps the larger weight and does not queue it twice.
// It reports whether the edge was new.
func (m *CrossShardEdgeManager) AddOutgoingEdge(edge domain.CrossShardEdge) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	edges := m.outgoing[edge.FromNode]
	for i := range edges {
		if edges[i].ToNode == edge.ToNode {
			if edge.Weight > edges[i].Weight {
				edges[i].Weight = edge.Weight
			}
			edges[i].ToShard = edge.ToShard
			return false
		}
	}
	m.outgoing[edge.FromNode] = append(edges, edge)
	m.pending = append(m.pending, edge)
	delete(m.attempts, pairOf(edge))
	return true
}

func (m *CrossShardEdgeManager) HasOutgoing(from, to domain.NodeID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hasOutgoingLocked(from, to)
}

func (m *CrossShardEdgeManager) AddIncomingEdge(edge domain.CrossShardEdge) {
	m.mu.Lock()
	defer m.mu.Unlock()

	edges := m.incoming[edge.ToNode]
	for i := range edges {
		if edges[i].FromNode == edge.FromNode {
			if edge.Weight > edges[i].Weight {
				edges[i].Weight = edge.Weight
			}
			return
		}
	}
	m.incoming[edge.ToNode] = append(edges, edge)
}

// TakePending drains the resolution queue.
func (m *CrossShardEdgeManager) TakePending() []domain.CrossShardEdge {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.pending
	m.pending = nil
	return out
}

// RequeuePending puts edges back on the resolution queue after a failed pass.
// Edges that are no longer stored or already queued are skipped. An edge that
// has failed maxAttempts times is abandoned: it stays stored but is not queued
// again.
func (m *CrossShardEdgeManager) RequeuePending(edges []domain.CrossShardEdge) (requeued, abandoned int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queued := make(map[edgePair]struct{}, len(m.pending))
	for _, e := range m.pending {
		queued[pairOf(e)] = struct{}{}
	}
	for _, e := range edges {
		key := pairOf(e)
		if _, dup := queued[key]; dup {
			continue
		}
		if !m.hasOutgoingLocked(e.FromNode, e.ToNode) {
			delete(m.attempts, key)
			continue
		}
		m.attempts[key]++
		if m.attempts[key] >= m.maxAttempts {
			delete(m.attempts, key)
			abandoned++
			continue
		}
		queued[key] = struct{}{}
		m.pending = append(m.pending, e)
		requeued++
	}
	return requeued, abandoned
}

// Acknowledge removes resolved edges from the pending queue. The edges stay stored.
func (m *CrossShardEdgeManager) Acknowledge(edges []domain.CrossShardEdge) int {
	if len(edges) == 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	done := make(map[[2]domain.NodeID]struct{}, len(edges))
	for _, e := range edges {
		done[[2]domain.NodeID{e.FromNode, e.ToNode}] = struct{}{}
		delete(m.attempts, pairOf(e))
	}
	before := len(m.pending)
	m.pending = filterEdges(m.pending, func(e domain.CrossShardEdge) bool {
		_, ok := done[[2]domain.NodeID{e.FromNode, e.ToNode}]
		return !ok
	})
	return before - len(m.pending)
}

func (m *CrossShardEdgeManager) PendingCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pending)
}

// DecayEdges multiplies every weight by (1-rate) and removes the edges that end up
// below threshold. Pruned outgoing edges are returned.
func (m *CrossShardEdgeManager) DecayEdges(rate, threshold float64) []domain.CrossShardEdge {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned []domain.CrossShardEdge
	for from, edges := range m.outgoing {
		kept := edges[:0]
		for _, e := range edges {
			e.Weight *= 1 - rate
			if e.Weight < threshold {
				pruned = append(pruned, e)
				continue
			}
			kept = append(kept, e)
		}
		m.setOutgoingLocked(from, kept)
	}

	for to, edges := range m.incoming {
		kept := edges[:0]
		for _, e := range edges {
			e.Weight *= 1 - rate
			if e.Weight >= threshold {
				kept = append(kept, e)
			}
		}
		m.setIncomingLocked(to, kept)
	}

	if len(pruned) > 0 {
		gone := make(map[[2]domain.NodeID]struct{}, len(pruned))
		for _, e := range pruned {
			gone[[2]domain.NodeID{e.FromNode, e.ToNode}] = struct{}{}
			delete(m.attempts, pairOf(e))
		}
		m.pending = filterEdges(m.pending, func(e domain.CrossShardEdge) bool {
			_, drop := gone[[2]domain.NodeID{e.FromNode, e.ToNode}]
			return !drop
		})
	}
	return pruned
}

// RemoveShardEdges purges every outgoing, incoming and pending edge that points
// at the shard. The pending queue is not included in the returned count.
func (m *CrossShardEdgeManager) RemoveShardEdges(id shard.ID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	keep := func(e domain.CrossShardEdge) bool { return e.ToShard != id }
	removed := 0
	for from, edges := range m.outgoing {
		for _, e := range edges {
			if e.ToShard == id {
				delete(m.attempts, pairOf(e))
			}
		}
		kept := filterEdges(edges, keep)
		removed += len(edges) - len(kept)
		m.setOutgoingLocked(from, kept)
	}
	for to, edges := range m.incoming {
		kept := filterEdges(edges, keep)
		removed += len(edges) - len(kept)
		m.setIncomingLocked(to, kept)
	}
	m.pending = filterEdges(m.pending, keep)
	return removed
}

// RemoveNodeEdges drops every edge attached to a local node.
func (m *CrossShardEdgeManager) RemoveNodeEdges(node domain.NodeID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := len(m.outgoing[node]) + len(m.incoming[node])
	for _, e := range m.outgoing[node] {
		delete(m.attempts, pairOf(e))
	}
	delete(m.outgoing, node)
	delete(m.incoming, node)
	m.pending = filterEdges(m.pending, func(e domain.CrossShardEdge) bool { return e.FromNode != node })
	return removed
}

// StrengthenEdge adds amount to an outgoing edge, capped at 1.0.
func (m *CrossShardEdgeManager) StrengthenEdge(from, to domain.NodeID, amount float64) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	edges := m.outgoing[from]
	for i := range edges {
		if edges[i].ToNode == to {
			w := edges[i].Weight + amount
			if w > 1.0 {
				w = 1.0
			}
			edges[i].Weight = w
			return w, true
		}
	}
	return 0, false
}

func (m *CrossShardEdgeManager) OutgoingFor(node domain.NodeID) []domain.CrossShardEdge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CrossShardEdge(nil), m.outgoing[node]...)
}

func (m *CrossShardEdgeManager) IncomingFor(node domain.NodeID) []domain.CrossShardEdge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CrossShardEdge(nil), m.incoming[node]...)
}

// EdgesByShard groups outgoing edges by target shard so callers can batch remote fetches.
func (m *CrossShardEdgeManager) EdgesByShard() map[shard.ID][]domain.CrossShardEdge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[shard.ID][]domain.CrossShardEdge)
	for _, edges := range m.outgoing {
		for _, e := range edges {
			out[e.ToShard] = append(out[e.ToShard], e)
		}
	}
	return out
}

func (m *CrossShardEdgeManager) PendingByShard() map[shard.ID][]domain.CrossShardEdge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return GroupEdgesByShard(m.pending)
}

// ConnectedShards lists the shards referenced by outgoing edges, ascending.
func (m *CrossShardEdgeManager) ConnectedShards() []shard.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectedShardsLocked()
}

func (m *CrossShardEdgeManager) EdgeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return countEdges(m.outgoing) + countEdges(m.incoming)
}

func (m *CrossShardEdgeManager) Stats() CrossShardEdgeStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := CrossShardEdgeStats{
		OutgoingEdges:   countEdges(m.outgoing),
		IncomingEdges:   countEdges(m.incoming),
		Pending:         len(m.pending),
		ConnectedShards: len(m.connectedShardsLocked()),
		EdgesByShard:    make(map[shard.ID]int),
	}
	var total float64
	for _, edges := range m.outgoing {
		for _, e := range edges {
			stats.EdgesByShard[e.ToShard]++
			total += e.Weight
		}
	}
	if stats.OutgoingEdges > 0 {
		stats.AverageWeight = total / float64(stats.OutgoingEdges)
	}
	return stats
}

func (m *CrossShardEdgeManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outgoing = make(map[domain.NodeID][]domain.CrossShardEdge)
	m.incoming = make(map[domain.NodeID][]domain.CrossShardEdge)
	m.pending = nil
	m.attempts = make(map[edgePair]int)
}

func (m *CrossShardEdgeManager) hasOutgoingLocked(from, to domain.NodeID) bool {
	for _, e := range m.outgoing[from] {
		if e.ToNode == to {
			return true
		}
	}
	return false
}

func (m *CrossShardEdgeManager) connectedShardsLocked() []shard.ID {
	set := make(map[shard.ID]struct{})
	for _, edges := range m.outgoing {
		for _, e := range edges {
			set[e.ToShard] = struct{}{}
		}
	}
	ids := make([]shard.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *CrossShardEdgeManager) setOutgoingLocked(from domain.NodeID, edges []domain.CrossShardEdge) {
	if len(edges) == 0 {
		delete(m.outgoing, from)
		return
	}
	m.outgoing[from] = edges
}

func (m *CrossShardEdgeManager) setIncomingLocked(to domain.NodeID, edges []domain.CrossShardEdge) {
	if len(edges) == 0 {
		delete(m.incoming, to)
		return
	}
	m.incoming[to] = edges
}

// GroupEdgesByShard buckets edges by their target shard.
func GroupEdgesByShard(edges []domain.CrossShardEdge) map[shard.ID][]domain.CrossShardEdge {
	out := make(map[shard.ID][]domain.CrossShardEdge)
	for _, e := range edges {
		out[e.ToShard] = append(out[e.ToShard], e)
	}
	return out
}

func filterEdges(edges []domain.CrossShardEdge, keep func(domain.CrossShardEdge) bool) []domain.CrossShardEdge {
	out := edges[:0]
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func countEdges(m map[domain.NodeID][]domain.CrossShardEdge) int {
	n := 0
	for _, edges := range m {
		n += len(edges)
	}
	return n
}
