package engine

import (
	"bytes"
	"math"
	"strings"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
)

const (
	documentLinkWeight    = 0.5
	cooccurrenceIncrement = 0.1
	maxEdgeWeight         = 1.0
)

// Config tunes the local simulation step.
type Config struct {
	DigestBatch    int     `json:"digest_batch" yaml:"digest_batch"`
	DecayRate      float64 `json:"decay_rate" yaml:"decay_rate"`
	PruneThreshold float64 `json:"prune_threshold" yaml:"prune_threshold"`
}

func DefaultConfig() Config {
	return Config{DigestBatch: 8, DecayRate: 0.005, PruneThreshold: 0.01}
}

type edgeKey [2]domain.NodeID

func newEdgeKey(a, b domain.NodeID) edgeKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// MemoryGraph is an in-memory TopologyGraph. Edges are undirected.
// It is not safe for concurrent use.
type MemoryGraph struct {
	cfg Config

	nodes     map[domain.NodeID]*domain.NodeData
	nodeOrder []domain.NodeID
	edges     map[edgeKey]float64
	adjacency map[domain.NodeID]map[domain.NodeID]struct{}

	docs       map[domain.DocumentID]domain.Document
	docOrder   []domain.DocumentID
	undigested []domain.DocumentID

	signals []domain.CrossShardSignal
	tick    uint64
}

var _ port.TopologyGraph = (*MemoryGraph)(nil)

func NewMemoryGraph(cfg Config) *MemoryGraph {
	def := DefaultConfig()
	if cfg.DigestBatch <= 0 {
		cfg.DigestBatch = def.DigestBatch
	}
	if cfg.DecayRate < 0 || cfg.DecayRate >= 1 {
		cfg.DecayRate = def.DecayRate
	}
	if cfg.PruneThreshold < 0 {
		cfg.PruneThreshold = def.PruneThreshold
	}
	return &MemoryGraph{
		cfg:       cfg,
		nodes:     make(map[domain.NodeID]*domain.NodeData),
		edges:     make(map[edgeKey]float64),
		adjacency: make(map[domain.NodeID]map[domain.NodeID]struct{}),
		docs:      make(map[domain.DocumentID]domain.Document),
	}
}

func (g *MemoryGraph) AddNode(node domain.NodeData) {
	if existing, ok := g.nodes[node.ID]; ok {
		*existing = node
		return
	}
	n := node
	g.nodes[node.ID] = &n
	g.nodeOrder = append(g.nodeOrder, node.ID)
}

func (g *MemoryGraph) GetNode(id domain.NodeID) (domain.NodeData, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return domain.NodeData{}, false
	}
	return *n, true
}

func (g *MemoryGraph) SetEdge(a, b domain.NodeID, weight float64) {
	if a == b {
		return
	}
	g.edges[newEdgeKey(a, b)] = weight
	g.link(a, b)
	g.link(b, a)
}

func (g *MemoryGraph) GetEdge(a, b domain.NodeID) (float64, bool) {
	w, ok := g.edges[newEdgeKey(a, b)]
	return w, ok
}

func (g *MemoryGraph) Neighbors(id domain.NodeID) []domain.NodeID {
	adj := g.adjacency[id]
	if len(adj) == 0 {
		return nil
	}
	// walk node order so results are deterministic
	out := make([]domain.NodeID, 0, len(adj))
	for _, nid := range g.nodeOrder {
		if _, ok := adj[nid]; ok {
			out = append(out, nid)
		}
	}
	return out
}

func (g *MemoryGraph) AllNodes() []domain.NodeData {
	out := make([]domain.NodeData, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, *g.nodes[id])
	}
	return out
}

func (g *MemoryGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *MemoryGraph) EdgeCount() int {
	return len(g.edges)
}

func (g *MemoryGraph) DecayEdges(rate, threshold float64) int {
	pruned := 0
	for key, w := range g.edges {
		w *= 1 - rate
		if w < threshold {
			delete(g.edges, key)
			g.unlink(key[0], key[1])
			g.unlink(key[1], key[0])
			pruned++
			continue
		}
		g.edges[key] = w
	}
	return pruned
}

func (g *MemoryGraph) FindNodesByLabel(query string) []domain.NodeData {
	q := strings.ToLower(query)
	var out []domain.NodeData
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if strings.Contains(strings.ToLower(n.Label), q) {
			out = append(out, *n)
		}
	}
	return out
}

// IngestDocument stores the document and creates its graph node. The content is
// digested into concepts on a later tick.
func (g *MemoryGraph) IngestDocument(doc domain.Document) domain.DocumentID {
	if _, ok := g.docs[doc.ID]; ok {
		g.docs[doc.ID] = doc
		return doc.ID
	}
	g.docs[doc.ID] = doc
	g.docOrder = append(g.docOrder, doc.ID)
	g.undigested = append(g.undigested, doc.ID)

	label := doc.Title
	if label == "" {
		label = string(doc.ID)
	}
	g.AddNode(domain.NodeData{
		ID:          domain.NodeIDForDocument(doc.ID),
		Label:       label,
		Type:        domain.NodeDocument,
		Position:    doc.Position,
		CreatedTick: g.tick,
	})
	return doc.ID
}

func (g *MemoryGraph) Documents() []domain.Document {
	out := make([]domain.Document, 0, len(g.docOrder))
	for _, id := range g.docOrder {
		out = append(out, g.docs[id])
	}
	return out
}

func (g *MemoryGraph) DocumentCount() int {
	return len(g.docs)
}

func (g *MemoryGraph) CurrentTick() uint64 {
	return g.tick
}

func (g *MemoryGraph) ApplySignal(signal domain.CrossShardSignal) {
	g.signals = append(g.signals, signal)
}

// Tick digests a batch of pending documents, applies queued signals and decays edges.
func (g *MemoryGraph) Tick() port.TickReport {
	g.tick++
	report := port.TickReport{Tick: g.tick}

	batch := g.undigested
	if len(batch) > g.cfg.DigestBatch {
		batch = batch[:g.cfg.DigestBatch]
	}
	for _, id := range batch {
		report.NewLinks = append(report.NewLinks, g.digest(g.docs[id])...)
		report.Digested++
	}
	g.undigested = g.undigested[len(batch):]

	for _, s := range g.signals {
		g.applySignal(s)
	}
	g.signals = nil

	report.Pruned = g.DecayEdges(g.cfg.DecayRate, g.cfg.PruneThreshold)
	return report
}

func (g *MemoryGraph) digest(doc domain.Document) []port.Link {
	docNode := domain.NodeIDForDocument(doc.ID)
	terms := domain.Tokenize(doc.Title + " " + doc.Content)

	links := make([]port.Link, 0, 2*len(terms))
	var prev domain.NodeID
	for i, term := range terms {
		concept := domain.NodeIDForLabel(term)
		n, ok := g.nodes[concept]
		if !ok {
			g.AddNode(domain.NodeData{
				ID:          concept,
				Label:       term,
				Type:        domain.NodeConcept,
				Position:    doc.Position,
				CreatedTick: g.tick,
			})
			n = g.nodes[concept]
		}
		n.AccessCount++

		links = append(links, port.Link{From: docNode, To: concept, Weight: g.reinforce(docNode, concept, documentLinkWeight)})
		if i > 0 {
			links = append(links, port.Link{From: prev, To: concept, Weight: g.reinforce(prev, concept, cooccurrenceIncrement)})
		}
		prev = concept
	}
	return links
}

func (g *MemoryGraph) reinforce(a, b domain.NodeID, amount float64) float64 {
	w, _ := g.GetEdge(a, b)
	w = math.Min(w+amount, maxEdgeWeight)
	g.SetEdge(a, b, w)
	return w
}

func (g *MemoryGraph) applySignal(s domain.CrossShardSignal) {
	if s.Label == "" {
		return
	}
	boost := uint64(1)
	if s.Intensity > 1 {
		boost = uint64(math.Ceil(s.Intensity))
	}
	q := strings.ToLower(s.Label)
	for _, n := range g.nodes {
		if strings.Contains(strings.ToLower(n.Label), q) {
			n.AccessCount += boost
		}
	}
}

func (g *MemoryGraph) link(a, b domain.NodeID) {
	adj, ok := g.adjacency[a]
	if !ok {
		adj = make(map[domain.NodeID]struct{})
		g.adjacency[a] = adj
	}
	adj[b] = struct{}{}
}

func (g *MemoryGraph) unlink(a, b domain.NodeID) {
	if adj, ok := g.adjacency[a]; ok {
		delete(adj, b)
		if len(adj) == 0 {
			delete(g.adjacency, a)
		}
	}
}
