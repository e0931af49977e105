package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

const (
	exactLabelBonus = 10.0

	// loadScale is the node count at which a shard reports a load of 1.0.
	loadScale = 10000.0

	nodeBytes  = 256
	edgeBytes  = 64
	ghostBytes = 128
)

// ColonyConfig tunes cross-shard bookkeeping.
type ColonyConfig struct {
	GhostCacheSize          int     `json:"ghost_cache_size" yaml:"ghost_cache_size"`
	CrossEdgeDecayRate      float64 `json:"cross_edge_decay_rate" yaml:"cross_edge_decay_rate"`
	CrossEdgePruneThreshold float64 `json:"cross_edge_prune_threshold" yaml:"cross_edge_prune_threshold"`
	MaxResolveAttempts      int     `json:"max_resolve_attempts" yaml:"max_resolve_attempts"`
}

func DefaultColonyConfig() ColonyConfig {
	return ColonyConfig{
		GhostCacheSize:          DefaultGhostCacheSize,
		CrossEdgeDecayRate:      0.01,
		CrossEdgePruneThreshold: 0.05,
		MaxResolveAttempts:      DefaultMaxResolveAttempts,
	}
}

// ColonyStats is a snapshot of a colony for diagnostics.
type ColonyStats struct {
	ShardID    shard.ID            `json:"shard_id"`
	Tick       uint64              `json:"tick"`
	Nodes      int                 `json:"nodes"`
	Edges      int                 `json:"edges"`
	Documents  int                 `json:"documents"`
	Peers      []shard.ID          `json:"peers"`
	Ghosts     GhostCacheStats     `json:"ghosts"`
	CrossEdges CrossShardEdgeStats `json:"cross_edges"`
}

// Colony is one shard's slice of the graph: a local engine plus the ghost cache
// and cross-shard edge bookkeeping. All engine access goes through mu.
type Colony struct {
	id   shard.ID
	cfg  ColonyConfig
	ring *shard.Ring

	mu        sync.Mutex
	engine    port.TopologyGraph
	collected []domain.CrossShardEdge
	peers     map[shard.ID]struct{}
	lastTick  uint64

	ghosts *GhostNodeCache
	edges  *CrossShardEdgeManager
}

// NewColony wraps engine for shard id. The ring is shared with the topology
// sync loop and decides document and node ownership.
func NewColony(id shard.ID, engine port.TopologyGraph, ring *shard.Ring, cfg ColonyConfig) *Colony {
	def := DefaultColonyConfig()
	if cfg.CrossEdgeDecayRate <= 0 || cfg.CrossEdgeDecayRate >= 1 {
		cfg.CrossEdgeDecayRate = def.CrossEdgeDecayRate
	}
	if cfg.CrossEdgePruneThreshold <= 0 {
		cfg.CrossEdgePruneThreshold = def.CrossEdgePruneThreshold
	}
	edges := NewCrossShardEdgeManager()
	edges.SetMaxResolveAttempts(cfg.MaxResolveAttempts)
	return &Colony{
		id:     id,
		cfg:    cfg,
		ring:   ring,
		engine: engine,
		peers:  make(map[shard.ID]struct{}),
		ghosts: NewGhostNodeCache(cfg.GhostCacheSize),
		edges:  edges,
	}
}

func (c *Colony) ID() shard.ID {
	return c.id
}

func (c *Colony) Ring() *shard.Ring {
	return c.ring
}

func (c *Colony) Ghosts() *GhostNodeCache {
	return c.ghosts
}

func (c *Colony) Edges() *CrossShardEdgeManager {
	return c.edges
}

// OwnsDocument reports whether the ring assigns the document to this shard.
func (c *Colony) OwnsDocument(id domain.DocumentID) bool {
	owner, ok := c.ring.GetShard(string(id))
	return ok && owner == c.id
}

// IngestDocument ingests a document this shard owns.
func (c *Colony) IngestDocument(doc domain.Document) (domain.DocumentID, error) {
	owner, ok := c.ring.GetShard(string(doc.ID))
	if !ok || owner != c.id {
		return "", &domain.RoutingFailedError{DocumentID: doc.ID, Owner: owner, HasOwner: ok}
	}
	return c.IngestDocumentDirect(doc), nil
}

// IngestDocumentDirect skips the ownership check. Used for documents the
// coordinator already routed and for replay.
func (c *Colony) IngestDocumentDirect(doc domain.Document) domain.DocumentID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.IngestDocument(doc)
}

// TickPhase runs one phase of tick. Sense and Advance only report counts.
func (c *Colony) TickPhase(phase domain.TickPhase, tick uint64) (domain.PhaseResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := domain.PhaseResult{ShardID: c.id, Phase: phase, Tick: tick}
	switch phase {
	case domain.PhaseSense, domain.PhaseAdvance:
	case domain.PhaseAct, domain.PhaseDecay:
		report := c.engine.Tick()
		c.detectCrossShardLinksLocked(report.NewLinks)
		if phase == domain.PhaseDecay {
			c.edges.DecayEdges(c.cfg.CrossEdgeDecayRate, c.cfg.CrossEdgePruneThreshold)
		}
		result.CrossShardEdges = c.collected
		c.collected = nil
	default:
		return domain.PhaseResult{}, fmt.Errorf("unknown tick phase %q", phase)
	}

	c.lastTick = tick
	result.NodeCount = c.engine.NodeCount()
	result.EdgeCount = c.engine.EdgeCount()
	return result, nil
}

// RegisterCrossShardEdge records an edge to a remote node and collects it for
// the current phase result.
func (c *Colony) RegisterCrossShardEdge(edge domain.CrossShardEdge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerLocked(edge)
}

// Known edges whose ghost is already cached are not reported again.
func (c *Colony) registerLocked(edge domain.CrossShardEdge) {
	if c.edges.AddOutgoingEdge(edge) || !c.ghosts.Contains(edge.ToNode) {
		c.collected = append(c.collected, edge)
	}
}

func (c *Colony) detectCrossShardLinksLocked(links []port.Link) {
	for _, l := range links {
		owner, ok := c.ring.GetShard(l.To.String())
		if !ok || owner == c.id {
			continue
		}
		c.registerLocked(domain.CrossShardEdge{FromNode: l.From, ToNode: l.To, ToShard: owner, Weight: l.Weight})
	}
}

// GetTermFrequencies counts local nodes whose label contains each term.
// Terms with no match are omitted.
func (c *Colony) GetTermFrequencies(terms []string) map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.termFrequenciesLocked(terms)
}

func (c *Colony) termFrequenciesLocked(terms []string) map[string]uint64 {
	out := make(map[string]uint64, len(terms))
	for _, term := range terms {
		if n := len(c.engine.FindNodesByLabel(term)); n > 0 {
			out[term] = uint64(n)
		}
	}
	return out
}

// ExecuteLocalQuery scores local nodes with TF-IDF against the supplied global
// document frequencies and returns the shard's top MaxResults.
func (c *Colony) ExecuteLocalQuery(req domain.LocalQueryRequest) domain.LocalQueryResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	totalDocs := float64(c.engine.NodeCount())
	if totalDocs < 1 {
		totalDocs = 1
	}

	var results []domain.ScoredNode
	for _, node := range c.engine.AllNodes() {
		labelTerms := domain.LabelTerms(node.Label)
		lowered := strings.ToLower(node.Label)

		var score float64
		for _, term := range req.Terms {
			tf := 0
			for _, lt := range labelTerms {
				if lt == term {
					tf++
				}
			}
			if tf > 0 {
				df := req.GlobalDF[term]
				if df == 0 {
					df = 1
				}
				score += float64(tf) * (math.Log(totalDocs/float64(df)) + 1)
			}
			if lowered == term {
				score += exactLabelBonus
			}
		}
		if score > 0 {
			results = append(results, domain.ScoredNode{NodeID: node.ID, Label: node.Label, Score: score, ShardID: c.id})
		}
	}

	domain.SortScored(results)
	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}
	return domain.LocalQueryResult{
		ShardID:         c.id,
		Results:         results,
		TermFrequencies: c.termFrequenciesLocked(req.Terms),
	}
}

func (c *Colony) GetNode(id domain.NodeID) (domain.NodeData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.GetNode(id)
}

// GetNeighbors returns local neighbors followed by remote targets of outgoing
// cross-shard edges.
func (c *Colony) GetNeighbors(id domain.NodeID) []domain.NodeID {
	c.mu.Lock()
	local := c.engine.Neighbors(id)
	c.mu.Unlock()

	seen := make(map[domain.NodeID]struct{}, len(local))
	out := make([]domain.NodeID, 0, len(local))
	for _, n := range local {
		seen[n] = struct{}{}
		out = append(out, n)
	}
	for _, e := range c.edges.OutgoingFor(id) {
		if _, ok := seen[e.ToNode]; !ok {
			seen[e.ToNode] = struct{}{}
			out = append(out, e.ToNode)
		}
	}
	return out
}

// ResolveGhostNodes returns ghost records for the requested nodes this shard
// holds. Unknown IDs are skipped.
func (c *Colony) ResolveGhostNodes(ids []domain.NodeID) []domain.GhostNode {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.GhostNode, 0, len(ids))
	for _, id := range ids {
		node, ok := c.engine.GetNode(id)
		if !ok {
			continue
		}
		snapshot := node
		out = append(out, domain.GhostNode{NodeID: id, ShardID: c.id, Label: node.Label, FullData: &snapshot})
	}
	return out
}

// InsertGhostNodes caches remote ghosts and settles resolved edges. An edge this
// shard reported leaves the pending queue. An edge that targets a local node is
// recorded as incoming. Returns the number of ghosts cached.
func (c *Colony) InsertGhostNodes(ghosts []domain.GhostNode, resolved []domain.CrossShardEdge) int {
	inserted := 0
	for _, g := range ghosts {
		if g.ShardID == c.id {
			continue
		}
		c.ghosts.Insert(g)
		inserted++
	}

	var acked []domain.CrossShardEdge
	for _, e := range resolved {
		if c.edges.HasOutgoing(e.FromNode, e.ToNode) {
			acked = append(acked, e)
			continue
		}
		c.mu.Lock()
		_, local := c.engine.GetNode(e.ToNode)
		c.mu.Unlock()
		if local {
			c.edges.AddIncomingEdge(e)
		}
	}
	c.edges.Acknowledge(acked)
	return inserted
}

// ReceiveSignals queues remote substrate signals for the next local tick.
func (c *Colony) ReceiveSignals(signals []domain.CrossShardSignal) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range signals {
		c.engine.ApplySignal(s)
	}
	return len(signals)
}

// HandleShardOffline purges every edge and ghost that points at a dead peer.
func (c *Colony) HandleShardOffline(id shard.ID) (edges, ghosts int) {
	edges = c.edges.RemoveShardEdges(id)
	ghosts = c.ghosts.InvalidateShard(id)

	c.mu.Lock()
	delete(c.peers, id)
	c.collected = filterEdges(c.collected, func(e domain.CrossShardEdge) bool { return e.ToShard != id })
	c.mu.Unlock()
	return edges, ghosts
}

func (c *Colony) AddPeer(id shard.ID) {
	if id == c.id {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers[id] = struct{}{}
}

// RemovePeer forgets a peer and drops its ghosts.
func (c *Colony) RemovePeer(id shard.ID) int {
	c.mu.Lock()
	delete(c.peers, id)
	c.mu.Unlock()
	return c.ghosts.InvalidateShard(id)
}

func (c *Colony) Peers() []shard.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]shard.ID, 0, len(c.peers))
	for id := range c.peers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TakePendingEdges hands the resolution queue to the coordinator. Edges it
// cannot resolve come back through RequeuePendingEdges.
func (c *Colony) TakePendingEdges() []domain.CrossShardEdge {
	return c.edges.TakePending()
}

func (c *Colony) RequeuePendingEdges(edges []domain.CrossShardEdge) (requeued, abandoned int) {
	return c.edges.RequeuePending(edges)
}

// PendingForResolution groups unresolved outgoing edges by target shard.
func (c *Colony) PendingForResolution() map[shard.ID][]domain.CrossShardEdge {
	return c.edges.PendingByShard()
}

func (c *Colony) CurrentTick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTick
}

func (c *Colony) Metrics() domain.ShardMetrics {
	c.mu.Lock()
	nodes, edges, docs := c.engine.NodeCount(), c.engine.EdgeCount(), c.engine.DocumentCount()
	c.mu.Unlock()

	memory := uint64(nodes)*nodeBytes +
		uint64(edges+c.edges.EdgeCount())*edgeBytes +
		uint64(c.ghosts.Len())*ghostBytes
	return domain.ShardMetrics{NodeCount: nodes, EdgeCount: edges, DocumentCount: docs, MemoryBytes: memory}
}

func (c *Colony) Health() domain.ShardHealth {
	m := c.Metrics()
	return domain.ShardHealth{
		ShardID:           c.id,
		Healthy:           true,
		Load:              float64(m.NodeCount) / loadScale,
		PendingOperations: c.edges.PendingCount(),
		Metrics:           m,
	}
}

// ShardInfo describes the colony as it registers with the coordinator.
func (c *Colony) ShardInfo(addr string) domain.ShardInfo {
	m := c.Metrics()
	return domain.ShardInfo{
		ID:            c.id,
		Address:       addr,
		Status:        domain.ShardOnline,
		NodeCount:     m.NodeCount,
		EdgeCount:     m.EdgeCount,
		DocumentCount: m.DocumentCount,
		MemoryBytes:   m.MemoryBytes,
	}
}

func (c *Colony) Stats() ColonyStats {
	m := c.Metrics()
	return ColonyStats{
		ShardID:    c.id,
		Tick:       c.CurrentTick(),
		Nodes:      m.NodeCount,
		Edges:      m.EdgeCount,
		Documents:  m.DocumentCount,
		Peers:      c.Peers(),
		Ghosts:     c.ghosts.Stats(),
		CrossEdges: c.edges.Stats(),
	}
}
