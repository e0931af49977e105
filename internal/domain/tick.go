package domain

import (
	"fmt"
	"time"

	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// TickPhase is one synchronization point within a simulation tick.
type TickPhase string

const (
	PhaseSense   TickPhase = "sense"
	PhaseAct     TickPhase = "act"
	PhaseDecay   TickPhase = "decay"
	PhaseAdvance TickPhase = "advance"
)

// TickPhases lists the phases the runner drives, in order.
var TickPhases = []TickPhase{PhaseSense, PhaseAct, PhaseDecay}

// ParsePhase validates a phase name.
func ParsePhase(s string) (TickPhase, error) {
	switch p := TickPhase(s); p {
	case PhaseSense, PhaseAct, PhaseDecay, PhaseAdvance:
		return p, nil
	}
	return "", fmt.Errorf("unknown tick phase %q", s)
}

// PhaseResult is produced by one shard for one phase of one tick.
type PhaseResult struct {
	ShardID         shard.ID         `json:"shard_id"`
	Phase           TickPhase        `json:"phase"`
	Tick            uint64           `json:"tick"`
	CrossShardEdges []CrossShardEdge `json:"cross_shard_edges"`
	NodeCount       int              `json:"node_count"`
	EdgeCount       int              `json:"edge_count"`
}

// TickStatus reports barrier progress for the current tick.
type TickStatus struct {
	Tick            uint64     `json:"tick"`
	Phase           TickPhase  `json:"phase"`
	CompletedShards []shard.ID `json:"completed_shards"`
	PendingShards   []shard.ID `json:"pending_shards"`
	TickComplete    bool       `json:"tick_complete"`
}

type PhaseReport struct {
	Phase     TickPhase     `json:"phase"`
	Duration  time.Duration `json:"duration"`
	NodeCount int           `json:"node_count"`
	EdgeCount int           `json:"edge_count"`
	NewEdges  int           `json:"new_edges"`
}

// TickReport summarizes one completed tick.
type TickReport struct {
	Tick          uint64        `json:"tick"`
	NextTick      uint64        `json:"next_tick"`
	Shards        int           `json:"shards"`
	Phases        []PhaseReport `json:"phases"`
	EdgesResolved int           `json:"edges_resolved"`
	EdgesPending  int           `json:"edges_pending"`
	EdgesDropped  int           `json:"edges_dropped"`
	Duration      time.Duration `json:"duration"`
}
