package http_handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port/mocks"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

func newTestServer(t *testing.T) (*Server, *mocks.MockCoordinatorService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockCoordinatorService(ctrl)
	return NewServer(":0", svc), svc
}

func do(t *testing.T, s *Server, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestHandleIngest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		mockSetup func(svc *mocks.MockCoordinatorService)
		wantCode  int
	}{
		{
			name: "created",
			body: `{"title":"Cell Biology","content":"the cell membrane"}`,
			mockSetup: func(svc *mocks.MockCoordinatorService) {
				svc.EXPECT().IngestDocument(gomock.Any(), domain.Document{Title: "Cell Biology", Content: "the cell membrane"}).
					Return(domain.DocumentID("42"), shard.ID(1), nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "empty document",
			body:      `{"title":"  "}`,
			mockSetup: func(*mocks.MockCoordinatorService) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "malformed body",
			body:      `{"title":`,
			mockSetup: func(*mocks.MockCoordinatorService) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "no shards",
			body: `{"title":"Genetics"}`,
			mockSetup: func(svc *mocks.MockCoordinatorService) {
				svc.EXPECT().IngestDocument(gomock.Any(), gomock.Any()).
					Return(domain.DocumentID(""), shard.ID(0), &domain.RoutingFailedError{DocumentID: "x"})
			},
			wantCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, svc := newTestServer(t)
			tt.mockSetup(svc)

			code, body := do(t, s, http.MethodPost, "/documents", tt.body)
			assert.Equal(t, tt.wantCode, code)
			if code == http.StatusCreated {
				assert.Equal(t, "42", body["id"])
				assert.EqualValues(t, 1, body["shard_id"])
			}
		})
	}
}

func TestHandleQuery(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().Query(gomock.Any(), "cell membrane").Return([]domain.ScoredNode{
		{NodeID: domain.NodeIDFromSeed(1), Label: "membrane", Score: 1, ShardID: 0},
	}, nil)

	code, body := do(t, s, http.MethodGet, "/query?q=cell%20membrane", "")
	require.Equal(t, http.StatusOK, code)
	results, ok := body["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 1)

	code, _ = do(t, s, http.MethodGet, "/query", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleRunTicks(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().RunTicks(gomock.Any(), 3).Return([]domain.TickReport{{Tick: 0, NextTick: 1}, {Tick: 1, NextTick: 2}, {Tick: 2, NextTick: 3}}, nil)
	svc.EXPECT().CurrentTick(gomock.Any()).Return(uint64(3))
	svc.EXPECT().RunTicks(gomock.Any(), 1).Return(nil, domain.ErrTickInProgress)

	code, body := do(t, s, http.MethodPost, "/ticks?n=3", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["tick"])

	code, _ = do(t, s, http.MethodPost, "/ticks", "")
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, s, http.MethodPost, "/ticks?n=0", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandleShardStatus(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().SetShardStatus(gomock.Any(), shard.ID(2), domain.ShardDraining).Return(nil)
	svc.EXPECT().SetShardStatus(gomock.Any(), shard.ID(9), domain.ShardDraining).Return(&domain.ShardNotFoundError{ID: 9})
	svc.EXPECT().UnregisterShard(gomock.Any(), shard.ID(2)).Return(nil)

	code, body := do(t, s, http.MethodPut, "/shards/2/status", `{"status":"draining"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "draining", body["status"])

	code, _ = do(t, s, http.MethodPut, "/shards/9/status", `{"status":"draining"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, s, http.MethodPut, "/shards/2/status", `{"status":"asleep"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodPut, "/shards/x/status", `{"status":"online"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, s, http.MethodDelete, "/shards/2", "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestHandleNodes(t *testing.T) {
	s, svc := newTestServer(t)
	id := domain.NodeIDFromSeed(3)
	missing := domain.NodeIDFromSeed(4)

	svc.EXPECT().GetNode(gomock.Any(), id).Return(domain.NodeData{ID: id, Label: "cell"}, true, nil)
	svc.EXPECT().GetNode(gomock.Any(), missing).Return(domain.NodeData{}, false, nil)
	svc.EXPECT().GetNeighbors(gomock.Any(), id).Return([]domain.NodeID{missing}, nil)

	code, body := do(t, s, http.MethodGet, "/nodes/"+id.String(), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cell", body["label"])

	code, _ = do(t, s, http.MethodGet, "/nodes/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, s, http.MethodGet, "/nodes/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = do(t, s, http.MethodGet, "/nodes/"+id.String()+"/neighbors", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["neighbors"], 1)
}

func TestHandleSignalsAndCluster(t *testing.T) {
	s, svc := newTestServer(t)

	svc.EXPECT().BroadcastSignals(gomock.Any(), gomock.Len(2)).Return(4, nil)
	svc.EXPECT().BroadcastSignals(gomock.Any(), gomock.Any()).
		Return(0, &domain.RPCError{Op: "ReceiveSignals", Addr: "s1", Err: errors.New("refused")})
	least := shard.ID(2)
	svc.EXPECT().ClusterStats(gomock.Any()).Return(domain.ClusterStats{TotalShards: 3, OnlineShards: 2, CurrentTick: 8, LeastLoadedShard: &least})

	code, body := do(t, s, http.MethodPost, "/signals", `[{"type":"input","intensity":0.5},{"type":"anomaly","intensity":0.9}]`)
	require.Equal(t, http.StatusAccepted, code)
	assert.EqualValues(t, 4, body["accepted"])

	code, _ = do(t, s, http.MethodPost, "/signals", `[]`)
	assert.Equal(t, http.StatusBadGateway, code)

	code, body = do(t, s, http.MethodGet, "/cluster", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 3, body["total_shards"])
	assert.EqualValues(t, 2, body["least_loaded_shard"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	code, _ := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
}
