package rpc

import (
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// Empty is the response of calls that return nothing.
type Empty struct{}

// Shard service messages.

type IngestDocumentRequest struct {
	Document domain.Document `json:"document"`
	// Routed marks documents the coordinator already routed; the shard skips its ownership check.
	Routed bool `json:"routed"`
}

type IngestDocumentResponse struct {
	DocumentID domain.DocumentID `json:"document_id"`
}

type TickPhaseRequest struct {
	Phase domain.TickPhase `json:"phase"`
	Tick  uint64           `json:"tick"`
}

type TickPhaseResponse struct {
	Result domain.PhaseResult `json:"result"`
}

type LocalQueryRequest struct {
	Request domain.LocalQueryRequest `json:"request"`
}

type LocalQueryResponse struct {
	Result domain.LocalQueryResult `json:"result"`
}

type TermFrequenciesRequest struct {
	Terms []string `json:"terms"`
}

type TermFrequenciesResponse struct {
	Frequencies map[string]uint64 `json:"frequencies"`
}

type GetNodeRequest struct {
	NodeID domain.NodeID `json:"node_id"`
}

type GetNodeResponse struct {
	Found bool             `json:"found"`
	Node  *domain.NodeData `json:"node,omitempty"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Health domain.ShardHealth `json:"health"`
}

type ResolveGhostNodesRequest struct {
	NodeIDs []domain.NodeID `json:"node_ids"`
}

type ResolveGhostNodesResponse struct {
	Ghosts []domain.GhostNode `json:"ghosts"`
}

type InsertGhostNodesRequest struct {
	Ghosts []domain.GhostNode      `json:"ghosts"`
	Edges  []domain.CrossShardEdge `json:"edges"`
}

type InsertGhostNodesResponse struct {
	Inserted int `json:"inserted"`
}

type TakePendingEdgesRequest struct{}

type TakePendingEdgesResponse struct {
	Edges []domain.CrossShardEdge `json:"edges"`
}

type RequeuePendingEdgesRequest struct {
	Edges []domain.CrossShardEdge `json:"edges"`
}

type RequeuePendingEdgesResponse struct {
	Result domain.RequeueResult `json:"result"`
}

type GetNeighborsRequest struct {
	NodeID domain.NodeID `json:"node_id"`
}

type GetNeighborsResponse struct {
	Neighbors []domain.NodeID `json:"neighbors"`
}

type ReceiveSignalsRequest struct {
	Signals []domain.CrossShardSignal `json:"signals"`
}

type ReceiveSignalsResponse struct {
	Accepted int `json:"accepted"`
}

// Coordinator service messages.

type RegisterRequest struct {
	Info domain.ShardInfo `json:"info"`
	// PreferredID asks the coordinator to reuse an identity from a previous run.
	PreferredID *shard.ID `json:"preferred_id,omitempty"`
}

type RegisterResponse struct {
	ShardID shard.ID `json:"shard_id"`
}

type UnregisterRequest struct {
	ShardID shard.ID `json:"shard_id"`
}

type PhaseCompleteRequest struct {
	ShardID shard.ID         `json:"shard_id"`
	Phase   domain.TickPhase `json:"phase"`
	Tick    uint64           `json:"tick"`
}

type RouteDocumentRequest struct {
	DocumentID domain.DocumentID `json:"document_id"`
}

type RouteNodeRequest struct {
	NodeID domain.NodeID `json:"node_id"`
}

type RouteResponse struct {
	ShardID shard.ID `json:"shard_id"`
	Address string   `json:"address"`
}

type GlobalDFRequest struct {
	Terms []string `json:"terms"`
}

type GlobalDFResponse struct {
	DF map[string]uint64 `json:"df"`
}

type BarrierReadyRequest struct {
	ShardID shard.ID         `json:"shard_id"`
	Phase   domain.TickPhase `json:"phase"`
	Tick    uint64           `json:"tick"`
}

type BarrierReadyResponse struct {
	Ready bool `json:"ready"`
}

type CurrentTickRequest struct{}

type TickResponse struct {
	Tick uint64 `json:"tick"`
}

type ListShardsRequest struct{}

type ListShardsResponse struct {
	Shards []domain.ShardInfo `json:"shards"`
}

type StartTickRequest struct{}

type TickStatusRequest struct{}

type TickStatusResponse struct {
	Status domain.TickStatus `json:"status"`
}

type HeartbeatRequest struct {
	Message domain.HeartbeatMessage `json:"message"`
}

type HeartbeatResponse struct {
	Response domain.HeartbeatResponse `json:"response"`
}
