package shard_node

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
)

type Options struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type dialFunc func(addr string) (grpc.ClientConnInterface, func() error, error)

// GrpcAdapter keeps one client and one circuit breaker per shard address.
type GrpcAdapter struct {
	opts Options
	dial dialFunc

	clients  map[string]rpc.ShardServiceClient
	closers  map[string]func() error
	breakers map[string]*resilience.CircuitBreaker
	mu       sync.RWMutex
}

// Ensure GrpcAdapter implements port.ShardClient
var _ port.ShardClient = (*GrpcAdapter)(nil)

func NewGrpcAdapter(opts Options) *GrpcAdapter {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &GrpcAdapter{
		opts:     opts,
		dial:     dialInsecure,
		clients:  make(map[string]rpc.ShardServiceClient),
		closers:  make(map[string]func() error),
		breakers: make(map[string]*resilience.CircuitBreaker),
	}
}

// NewGrpcAdapterWithDialer is used by tests that serve shards in-process.
func NewGrpcAdapterWithDialer(opts Options, dial func(addr string) (grpc.ClientConnInterface, error)) *GrpcAdapter {
	a := NewGrpcAdapter(opts)
	a.dial = func(addr string) (grpc.ClientConnInterface, func() error, error) {
		conn, err := dial(addr)
		return conn, func() error { return nil }, err
	}
	return a
}

func dialInsecure(addr string) (grpc.ClientConnInterface, func() error, error) {
	// Default 4MB is too small for large phase results. Set to 16MB.
	maxMsgSize := 16 * 1024 * 1024
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.CallOptions(),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(maxMsgSize),
			grpc.MaxCallSendMsgSize(maxMsgSize),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

func (a *GrpcAdapter) IngestDocument(ctx context.Context, t port.Target, doc domain.Document, routed bool) (domain.DocumentID, error) {
	var resp *rpc.IngestDocumentResponse
	err := a.call(ctx, t, "IngestDocument", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.IngestDocument(ctx, &rpc.IngestDocumentRequest{Document: doc, Routed: routed})
		return err
	})
	if err != nil {
		return "", err
	}
	return resp.DocumentID, nil
}

// TickPhase is not retried: a phase that ran but whose reply was lost must
// not run twice.
func (a *GrpcAdapter) TickPhase(ctx context.Context, t port.Target, phase domain.TickPhase, tick uint64) (domain.PhaseResult, error) {
	var resp *rpc.TickPhaseResponse
	err := a.call(ctx, t, "TickPhase", false, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.TickPhase(ctx, &rpc.TickPhaseRequest{Phase: phase, Tick: tick})
		return err
	})
	if err != nil {
		return domain.PhaseResult{}, err
	}
	return resp.Result, nil
}

func (a *GrpcAdapter) LocalQuery(ctx context.Context, t port.Target, req domain.LocalQueryRequest) (domain.LocalQueryResult, error) {
	var resp *rpc.LocalQueryResponse
	err := a.call(ctx, t, "LocalQuery", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.LocalQuery(ctx, &rpc.LocalQueryRequest{Request: req})
		return err
	})
	if err != nil {
		return domain.LocalQueryResult{}, err
	}
	return resp.Result, nil
}

func (a *GrpcAdapter) GetTermFrequencies(ctx context.Context, t port.Target, terms []string) (map[string]uint64, error) {
	var resp *rpc.TermFrequenciesResponse
	err := a.call(ctx, t, "GetTermFrequencies", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.GetTermFrequencies(ctx, &rpc.TermFrequenciesRequest{Terms: terms})
		return err
	})
	if err != nil {
		return nil, err
	}
	if resp.Frequencies == nil {
		return map[string]uint64{}, nil
	}
	return resp.Frequencies, nil
}

func (a *GrpcAdapter) GetNode(ctx context.Context, t port.Target, id domain.NodeID) (domain.NodeData, bool, error) {
	var resp *rpc.GetNodeResponse
	err := a.call(ctx, t, "GetNode", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.GetNode(ctx, &rpc.GetNodeRequest{NodeID: id})
		return err
	})
	if err != nil {
		return domain.NodeData{}, false, err
	}
	if !resp.Found || resp.Node == nil {
		return domain.NodeData{}, false, nil
	}
	return *resp.Node, true, nil
}

func (a *GrpcAdapter) GetNeighbors(ctx context.Context, t port.Target, id domain.NodeID) ([]domain.NodeID, error) {
	var resp *rpc.GetNeighborsResponse
	err := a.call(ctx, t, "GetNeighbors", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.GetNeighbors(ctx, &rpc.GetNeighborsRequest{NodeID: id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Neighbors, nil
}

// HealthCheck is not retried; the health monitor polls again on its next pass.
func (a *GrpcAdapter) HealthCheck(ctx context.Context, t port.Target) (domain.ShardHealth, error) {
	var resp *rpc.HealthCheckResponse
	err := a.call(ctx, t, "HealthCheck", false, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.HealthCheck(ctx, &rpc.HealthCheckRequest{})
		return err
	})
	if err != nil {
		return domain.ShardHealth{}, err
	}
	return resp.Health, nil
}

func (a *GrpcAdapter) ResolveGhostNodes(ctx context.Context, t port.Target, ids []domain.NodeID) ([]domain.GhostNode, error) {
	var resp *rpc.ResolveGhostNodesResponse
	err := a.call(ctx, t, "ResolveGhostNodes", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.ResolveGhostNodes(ctx, &rpc.ResolveGhostNodesRequest{NodeIDs: ids})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Ghosts, nil
}

func (a *GrpcAdapter) InsertGhostNodes(ctx context.Context, t port.Target, ghosts []domain.GhostNode, edges []domain.CrossShardEdge) (int, error) {
	var resp *rpc.InsertGhostNodesResponse
	err := a.call(ctx, t, "InsertGhostNodes", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.InsertGhostNodes(ctx, &rpc.InsertGhostNodesRequest{Ghosts: ghosts, Edges: edges})
		return err
	})
	if err != nil {
		return 0, err
	}
	return resp.Inserted, nil
}

// TakePendingEdges drains the shard's queue, so a lost response loses the
// edges from the queue. It is not retried.
func (a *GrpcAdapter) TakePendingEdges(ctx context.Context, t port.Target) ([]domain.CrossShardEdge, error) {
	var resp *rpc.TakePendingEdgesResponse
	err := a.call(ctx, t, "TakePendingEdges", false, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.TakePendingEdges(ctx, &rpc.TakePendingEdgesRequest{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Edges, nil
}

func (a *GrpcAdapter) RequeuePendingEdges(ctx context.Context, t port.Target, edges []domain.CrossShardEdge) (domain.RequeueResult, error) {
	var resp *rpc.RequeuePendingEdgesResponse
	err := a.call(ctx, t, "RequeuePendingEdges", true, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.RequeuePendingEdges(ctx, &rpc.RequeuePendingEdgesRequest{Edges: edges})
		return err
	})
	if err != nil {
		return domain.RequeueResult{}, err
	}
	return resp.Result, nil
}

func (a *GrpcAdapter) ReceiveSignals(ctx context.Context, t port.Target, signals []domain.CrossShardSignal) (int, error) {
	var resp *rpc.ReceiveSignalsResponse
	err := a.call(ctx, t, "ReceiveSignals", false, func(ctx context.Context, c rpc.ShardServiceClient) error {
		var err error
		resp, err = c.ReceiveSignals(ctx, &rpc.ReceiveSignalsRequest{Signals: signals})
		return err
	})
	if err != nil {
		return 0, err
	}
	return resp.Accepted, nil
}

// call runs fn through the address's breaker, retrying transport failures
// when retry is set.
func (a *GrpcAdapter) call(ctx context.Context, t port.Target, op string, retry bool, fn func(context.Context, rpc.ShardServiceClient) error) error {
	breaker := a.getBreaker(t.Addr)
	policy := resilience.RetryPolicy{Delay: a.opts.RetryDelay}
	if retry {
		policy.MaxRetries = a.opts.MaxRetries
	}

	err := resilience.Retry(ctx, policy, domain.IsRetryable, func(ctx context.Context) error {
		return breaker.Execute(ctx, func(execCtx context.Context) error {
			client, err := a.getClient(t.Addr)
			if err != nil {
				return &domain.RPCError{Op: op, Addr: t.Addr, Err: err}
			}

			callCtx, cancel := context.WithTimeout(execCtx, a.opts.Timeout)
			defer cancel()
			return rpc.FromStatus(op, t.Addr, fn(callCtx, client))
		})
	})
	if err != nil {
		a.handleRPCErr(t, err, op)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return &domain.RPCError{Op: op, Addr: t.Addr, Err: err}
		}
		return err
	}
	return nil
}

func (a *GrpcAdapter) getClient(addr string) (rpc.ShardServiceClient, error) {
	a.mu.RLock()
	client, ok := a.clients[addr]
	a.mu.RUnlock()
	if ok {
		return client, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double check
	if client, ok := a.clients[addr]; ok {
		return client, nil
	}

	conn, closer, err := a.dial(addr)
	if err != nil {
		return nil, err
	}
	client = rpc.NewShardServiceClient(conn)
	a.clients[addr] = client
	a.closers[addr] = closer
	return client, nil
}

func (a *GrpcAdapter) getBreaker(addr string) *resilience.CircuitBreaker {
	a.mu.RLock()
	cb, ok := a.breakers[addr]
	a.mu.RUnlock()
	if ok {
		return cb
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cb, ok = a.breakers[addr]; ok {
		return cb
	}
	cb = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:              addr,
		FailureThreshold:  3,
		SuccessThreshold:  2,
		OpenTimeout:       10 * time.Second,
		HalfOpenMaxFlight: 5,
		IsFailure:         domain.IsRetryable,
		OnStateChange:     observeBreaker,
	})
	metricsBreakerState.WithLabelValues(addr).Set(breakerValue(resilience.CircuitClosed))
	a.breakers[addr] = cb
	return cb
}

// BreakerState reports the breaker for addr, closed if none was created yet.
func (a *GrpcAdapter) BreakerState(addr string) resilience.CircuitBreakerState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if cb, ok := a.breakers[addr]; ok {
		return cb.State()
	}
	return resilience.CircuitClosed
}

func (a *GrpcAdapter) handleRPCErr(t port.Target, err error, op string) {
	if errors.Is(err, resilience.ErrCircuitOpen) {
		logger.Warnw("Shard RPC short-circuited", "op", op, "shard_id", t.ID, "addr", t.Addr, "error", err.Error())
		var openErr *resilience.CircuitOpenError
		if errors.As(err, &openErr) && openErr.RetryAfter <= 0 {
			// Force reconnect when breaker is ready to let a trial call through.
			a.dropClient(t.Addr)
		}
		return
	}
	if errors.Is(err, context.Canceled) || !domain.IsRetryable(err) {
		return
	}

	logger.Warnw("Shard RPC failed", "op", op, "shard_id", t.ID, "addr", t.Addr, "error", err.Error())
	a.dropClient(t.Addr)
}

func (a *GrpcAdapter) dropClient(addr string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if closer, ok := a.closers[addr]; ok {
		_ = closer()
		delete(a.closers, addr)
	}
	delete(a.clients, addr)
}

func (a *GrpcAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for addr, closer := range a.closers {
		errs = append(errs, closer())
		delete(a.closers, addr)
		delete(a.clients, addr)
	}
	return errors.Join(errs...)
}
