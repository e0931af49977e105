package port

import (
	"github.com/anthanhphan/phago-distributed/internal/domain"
)

// Link is an edge created or reinforced during a local tick.
type Link struct {
	From   domain.NodeID
	To     domain.NodeID
	Weight float64
}

// TickReport summarizes one local simulation step.
type TickReport struct {
	Tick     uint64
	Digested int
	NewLinks []Link
	Pruned   int
}

// TopologyGraph is the local graph and simulation engine a shard drives.
// Implementations need not be safe for concurrent use; the colony serializes access.
type TopologyGraph interface {
	AddNode(node domain.NodeData)
	GetNode(id domain.NodeID) (domain.NodeData, bool)
	SetEdge(a, b domain.NodeID, weight float64)
	GetEdge(a, b domain.NodeID) (float64, bool)
	Neighbors(id domain.NodeID) []domain.NodeID
	AllNodes() []domain.NodeData
	NodeCount() int
	EdgeCount() int

	// DecayEdges multiplies every weight by (1-rate), prunes edges below threshold
	// and returns how many were pruned.
	DecayEdges(rate, threshold float64) int

	// FindNodesByLabel returns nodes whose label contains query, case-insensitively.
	FindNodesByLabel(query string) []domain.NodeData

	IngestDocument(doc domain.Document) domain.DocumentID
	Documents() []domain.Document
	DocumentCount() int

	// Tick runs one simulation step.
	Tick() TickReport
	CurrentTick() uint64

	// ApplySignal queues a substrate signal for the next tick.
	ApplySignal(signal domain.CrossShardSignal)
}
