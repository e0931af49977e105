package domain

import (
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// NodeType classifies graph nodes.
type NodeType string

const (
	NodeConcept  NodeType = "concept"
	NodeDocument NodeType = "document"
	NodeInsight  NodeType = "insight"
	NodeAnomaly  NodeType = "anomaly"
)

// Position is a location in the simulation substrate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the full record of a graph node.
type NodeData struct {
	ID          NodeID   `json:"id"`
	Label       string   `json:"label"`
	Type        NodeType `json:"type"`
	Position    Position `json:"position"`
	AccessCount uint64   `json:"access_count"`
	CreatedTick uint64   `json:"created_tick"`
}

// Document is the unit of ingestion.
type Document struct {
	ID       DocumentID `json:"id"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Position Position   `json:"position"`
}

// CrossShardEdge is an edge whose target node is owned by another shard.
type CrossShardEdge struct {
	FromNode NodeID   `json:"from_node"`
	ToNode   NodeID   `json:"to_node"`
	ToShard  shard.ID `json:"to_shard"`
	Weight   float64  `json:"weight"`
}

// RequeueResult reports what happened to edges handed back after a failed
// resolution pass.
type RequeueResult struct {
	Requeued  int `json:"requeued"`
	Abandoned int `json:"abandoned"`
}

// GhostNode is a local placeholder for a node owned by another shard.
// FullData is filled lazily the first time the owner is asked for the node.
type GhostNode struct {
	NodeID   NodeID    `json:"node_id"`
	ShardID  shard.ID  `json:"shard_id"`
	Label    string    `json:"label"`
	FullData *NodeData `json:"full_data,omitempty"`
}

// IsResolved reports whether the ghost carries a snapshot of the remote node.
func (g GhostNode) IsResolved() bool {
	return g.FullData != nil
}

// SignalType is the kind of a substrate signal.
type SignalType string

const (
	SignalInput   SignalType = "input"
	SignalAnomaly SignalType = "anomaly"
	SignalDigest  SignalType = "digest"
)

// CrossShardSignal carries a substrate signal emitted on one shard to another.
type CrossShardSignal struct {
	Type        SignalType `json:"type"`
	Intensity   float64    `json:"intensity"`
	Position    Position   `json:"position"`
	Label       string     `json:"label"`
	Tick        uint64     `json:"tick"`
	SourceShard shard.ID   `json:"source_shard"`
}
