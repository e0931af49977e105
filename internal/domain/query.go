package domain

import (
	"sort"

	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// LocalQueryRequest asks one shard to score its nodes against global statistics.
type LocalQueryRequest struct {
	Terms      []string          `json:"terms"`
	MaxResults int               `json:"max_results"`
	GlobalDF   map[string]uint64 `json:"global_df"`
}

// LocalQueryResult is one shard's contribution to a distributed query.
type LocalQueryResult struct {
	ShardID         shard.ID          `json:"shard_id"`
	Results         []ScoredNode      `json:"results"`
	TermFrequencies map[string]uint64 `json:"term_frequencies"`
}

// ScoredNode is a ranked query hit.
type ScoredNode struct {
	NodeID  NodeID   `json:"node_id"`
	Label   string   `json:"label"`
	Score   float64  `json:"score"`
	ShardID shard.ID `json:"shard_id"`
}

// SortScored orders hits by descending score, then label, then node ID.
func SortScored(nodes []ScoredNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Score != nodes[j].Score {
			return nodes[i].Score > nodes[j].Score
		}
		if nodes[i].Label != nodes[j].Label {
			return nodes[i].Label < nodes[j].Label
		}
		return nodes[i].NodeID.String() < nodes[j].NodeID.String()
	})
}
