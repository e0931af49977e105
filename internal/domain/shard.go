package domain

import (
	"time"

	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// ShardStatus is the lifecycle state of a registered shard.
type ShardStatus string

const (
	ShardOnline     ShardStatus = "online"
	ShardOffline    ShardStatus = "offline"
	ShardRecovering ShardStatus = "recovering"
	ShardDraining   ShardStatus = "draining"
)

// Valid reports whether s is a known status.
func (s ShardStatus) Valid() bool {
	switch s {
	case ShardOnline, ShardOffline, ShardRecovering, ShardDraining:
		return true
	}
	return false
}

// ShardInfo is a point-in-time summary of a shard as seen by the registry.
type ShardInfo struct {
	ID            shard.ID    `json:"id"`
	Address       string      `json:"address"`
	Status        ShardStatus `json:"status"`
	NodeCount     int         `json:"node_count"`
	EdgeCount     int         `json:"edge_count"`
	DocumentCount int         `json:"document_count"`
	MemoryBytes   uint64      `json:"memory_bytes"`
	LastHeartbeat time.Time   `json:"last_heartbeat"`
}

// ShardMetrics is the load report a shard attaches to heartbeats.
type ShardMetrics struct {
	NodeCount     int    `json:"node_count"`
	EdgeCount     int    `json:"edge_count"`
	DocumentCount int    `json:"document_count"`
	MemoryBytes   uint64 `json:"memory_bytes"`
}

// ShardHealth is returned by a shard's health check.
type ShardHealth struct {
	ShardID           shard.ID     `json:"shard_id"`
	Healthy           bool         `json:"healthy"`
	Load              float64      `json:"load"`
	PendingOperations int          `json:"pending_operations"`
	Metrics           ShardMetrics `json:"metrics"`
}

// ClusterStats aggregates registry state.
type ClusterStats struct {
	TotalShards      int    `json:"total_shards"`
	OnlineShards     int    `json:"online_shards"`
	TotalDocuments   uint64 `json:"total_documents"`
	TotalMemoryBytes uint64 `json:"total_memory_bytes"`
	CurrentTick      uint64 `json:"current_tick"`
	// LeastLoadedShard is the online shard holding the fewest documents.
	LeastLoadedShard *shard.ID `json:"least_loaded_shard,omitempty"`
}

// HeartbeatMessage is sent periodically by every shard to the coordinator.
type HeartbeatMessage struct {
	ShardID     shard.ID     `json:"shard_id"`
	CurrentTick uint64       `json:"current_tick"`
	Metrics     ShardMetrics `json:"metrics"`
	Timestamp   time.Time    `json:"timestamp"`
}

// HeartbeatResponse tells the shard which tick the coordinator is on.
type HeartbeatResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	ExpectedTick uint64 `json:"expected_tick"`
}
