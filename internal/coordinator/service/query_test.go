package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port/mocks"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func scored(seed uint64, label string, score float64, shardID shard.ID) domain.ScoredNode {
	return domain.ScoredNode{NodeID: domain.NodeIDFromSeed(seed), Label: label, Score: score, ShardID: shardID}
}

func TestMergeResults(t *testing.T) {
	tests := []struct {
		name     string
		partials []domain.LocalQueryResult
		limit    int
		want     []domain.ScoredNode
	}{
		{
			name:     "no hits",
			partials: []domain.LocalQueryResult{{ShardID: 0}, {ShardID: 1}},
			limit:    10,
			want:     []domain.ScoredNode{},
		},
		{
			name: "normalizes to global maximum and sorts",
			partials: []domain.LocalQueryResult{
				{ShardID: 0, Results: []domain.ScoredNode{scored(1, "cell", 2, 0), scored(2, "wall", 1, 0)}},
				{ShardID: 1, Results: []domain.ScoredNode{scored(3, "membrane", 4, 1)}},
			},
			limit: 10,
			want: []domain.ScoredNode{
				scored(3, "membrane", 1, 1),
				scored(1, "cell", 0.5, 0),
				scored(2, "wall", 0.25, 0),
			},
		},
		{
			name: "ties break on label and truncate",
			partials: []domain.LocalQueryResult{
				{ShardID: 0, Results: []domain.ScoredNode{scored(1, "beta", 3, 0), scored(2, "gamma", 1, 0)}},
				{ShardID: 1, Results: []domain.ScoredNode{scored(3, "alpha", 3, 1)}},
			},
			limit: 2,
			want: []domain.ScoredNode{
				scored(3, "alpha", 1, 1),
				scored(1, "beta", 1, 0),
			},
		},
		{
			name: "zero scores stay zero",
			partials: []domain.LocalQueryResult{
				{ShardID: 0, Results: []domain.ScoredNode{scored(1, "cell", 0, 0)}},
			},
			limit: 5,
			want:  []domain.ScoredNode{scored(1, "cell", 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeResults(tt.partials, tt.limit))
		})
	}
}

func TestDistributedQueryEngine_Query(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		shards    int
		mockSetup func(m *mocks.MockShardClient)
		want      []domain.ScoredNode
		wantErr   error
	}{
		{
			name:      "stop words only make no calls",
			text:      "the and of",
			shards:    2,
			mockSetup: func(*mocks.MockShardClient) {},
			want:      []domain.ScoredNode{},
		},
		{
			name:      "empty cluster makes no calls",
			text:      "cell membrane",
			shards:    0,
			mockSetup: func(*mocks.MockShardClient) {},
			want:      []domain.ScoredNode{},
		},
		{
			name:   "two rounds with summed frequencies",
			text:   "Cell membrane",
			shards: 2,
			mockSetup: func(m *mocks.MockShardClient) {
				terms := []string{"cell", "membrane"}
				global := map[string]uint64{"cell": 3, "membrane": 1}
				m.EXPECT().GetTermFrequencies(gomock.Any(), targetA, terms).Return(map[string]uint64{"cell": 2}, nil)
				m.EXPECT().GetTermFrequencies(gomock.Any(), targetB, terms).Return(map[string]uint64{"cell": 1, "membrane": 1}, nil)
				req := domain.LocalQueryRequest{Terms: terms, MaxResults: 5, GlobalDF: global}
				m.EXPECT().LocalQuery(gomock.Any(), targetA, req).
					Return(domain.LocalQueryResult{ShardID: 0, Results: []domain.ScoredNode{scored(1, "cell", 0.6, 0)}}, nil)
				m.EXPECT().LocalQuery(gomock.Any(), targetB, req).
					Return(domain.LocalQueryResult{ShardID: 1, Results: []domain.ScoredNode{scored(2, "membrane", 1.2, 1)}}, nil)
			},
			want: []domain.ScoredNode{scored(2, "membrane", 1, 1), scored(1, "cell", 0.5, 0)},
		},
		{
			name:   "shard failure fails the query",
			text:   "membrane",
			shards: 2,
			mockSetup: func(m *mocks.MockShardClient) {
				m.EXPECT().GetTermFrequencies(gomock.Any(), targetA, gomock.Any()).Return(map[string]uint64{}, nil).AnyTimes()
				m.EXPECT().GetTermFrequencies(gomock.Any(), targetB, gomock.Any()).
					Return(nil, &domain.RPCError{Op: "GetTermFrequencies", Addr: "shard-b", Err: errors.New("unreachable")})
			},
			wantErr: domain.ErrRPC,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			shards := mocks.NewMockShardClient(ctrl)
			tt.mockSetup(shards)

			coord := NewCoordinator(CoordinatorOptions{HeartbeatTimeout: time.Minute})
			for i := 0; i < tt.shards; i++ {
				coord.RegisterShard(domain.ShardInfo{Address: []string{"shard-a", "shard-b"}[i]})
			}
			engine := NewDistributedQueryEngine(coord, shards, QueryOptions{MaxResults: 10, MaxLocalResults: 5})

			got, err := engine.Query(context.Background(), tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
