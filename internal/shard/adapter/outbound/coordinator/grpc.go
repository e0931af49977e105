package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type Options struct {
	Addr       string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// GrpcAdapter talks to the coordinator over a single lazily dialed connection.
type GrpcAdapter struct {
	opts    Options
	breaker *resilience.CircuitBreaker
	dial    func(addr string) (grpc.ClientConnInterface, func() error, error)

	mu     sync.Mutex
	client rpc.CoordinatorServiceClient
	closer func() error
}

// Ensure GrpcAdapter implements port.CoordinatorClient
var _ port.CoordinatorClient = (*GrpcAdapter)(nil)

func NewGrpcAdapter(opts Options) *GrpcAdapter {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &GrpcAdapter{
		opts: opts,
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:              opts.Addr,
			FailureThreshold:  3,
			SuccessThreshold:  2,
			OpenTimeout:       10 * time.Second,
			HalfOpenMaxFlight: 5,
			IsFailure:         domain.IsRetryable,
		}),
		dial: dialInsecure,
	}
}

// NewGrpcAdapterWithConn is used by tests that serve the coordinator in-process.
func NewGrpcAdapterWithConn(opts Options, conn grpc.ClientConnInterface) *GrpcAdapter {
	a := NewGrpcAdapter(opts)
	a.dial = func(string) (grpc.ClientConnInterface, func() error, error) {
		return conn, func() error { return nil }, nil
	}
	return a
}

func dialInsecure(addr string) (grpc.ClientConnInterface, func() error, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		rpc.CallOptions(),
	)
	if err != nil {
		return nil, nil, err
	}
	return conn, conn.Close, nil
}

func (a *GrpcAdapter) Register(ctx context.Context, info domain.ShardInfo, preferred *shard.ID) (shard.ID, error) {
	var resp *rpc.RegisterResponse
	err := a.call(ctx, "Register", func(ctx context.Context, c rpc.CoordinatorServiceClient) error {
		var err error
		resp, err = c.Register(ctx, &rpc.RegisterRequest{Info: info, PreferredID: preferred})
		return err
	})
	if err != nil {
		return 0, err
	}
	return resp.ShardID, nil
}

func (a *GrpcAdapter) Unregister(ctx context.Context, id shard.ID) error {
	return a.call(ctx, "Unregister", func(ctx context.Context, c rpc.CoordinatorServiceClient) error {
		_, err := c.Unregister(ctx, &rpc.UnregisterRequest{ShardID: id})
		return err
	})
}

func (a *GrpcAdapter) Heartbeat(ctx context.Context, msg domain.HeartbeatMessage) (domain.HeartbeatResponse, error) {
	var resp *rpc.HeartbeatResponse
	err := a.call(ctx, "Heartbeat", func(ctx context.Context, c rpc.CoordinatorServiceClient) error {
		var err error
		resp, err = c.Heartbeat(ctx, &rpc.HeartbeatRequest{Message: msg})
		return err
	})
	if err != nil {
		return domain.HeartbeatResponse{}, err
	}
	return resp.Response, nil
}

func (a *GrpcAdapter) ListShards(ctx context.Context) ([]domain.ShardInfo, error) {
	var resp *rpc.ListShardsResponse
	err := a.call(ctx, "ListShards", func(ctx context.Context, c rpc.CoordinatorServiceClient) error {
		var err error
		resp, err = c.ListShards(ctx, &rpc.ListShardsRequest{})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Shards, nil
}

// call runs op through the breaker with retries on transport failures. Any
// transport failure that survives the retries is reported as
// domain.ErrCoordinatorUnavailable.
func (a *GrpcAdapter) call(ctx context.Context, op string, fn func(context.Context, rpc.CoordinatorServiceClient) error) error {
	policy := resilience.RetryPolicy{MaxRetries: a.opts.MaxRetries, Delay: a.opts.RetryDelay}

	err := resilience.Retry(ctx, policy, domain.IsRetryable, func(ctx context.Context) error {
		return a.breaker.Execute(ctx, func(ctx context.Context) error {
			client, err := a.getClient()
			if err != nil {
				return &domain.RPCError{Op: op, Addr: a.opts.Addr, Err: err}
			}

			callCtx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
			defer cancel()
			return rpc.FromStatus(op, a.opts.Addr, fn(callCtx, client))
		})
	})
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		logger.Warnw("Coordinator RPC short-circuited", "op", op, "addr", a.opts.Addr, "error", err.Error())
		var openErr *resilience.CircuitOpenError
		if errors.As(err, &openErr) && openErr.RetryAfter <= 0 {
			a.dropClient()
		}
		return &unavailableError{err: err}
	case domain.IsRetryable(err):
		logger.Warnw("Coordinator RPC failed", "op", op, "addr", a.opts.Addr, "error", err.Error())
		a.dropClient()
		return &unavailableError{err: err}
	}
	return err
}

func (a *GrpcAdapter) getClient() (rpc.CoordinatorServiceClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}

	conn, closer, err := a.dial(a.opts.Addr)
	if err != nil {
		return nil, err
	}
	a.client = rpc.NewCoordinatorServiceClient(conn)
	a.closer = closer
	return a.client, nil
}

func (a *GrpcAdapter) dropClient() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer != nil {
		_ = a.closer()
	}
	a.client = nil
	a.closer = nil
}

func (a *GrpcAdapter) Close() error {
	a.dropClient()
	return nil
}

// unavailableError keeps the transport cause while matching ErrCoordinatorUnavailable.
type unavailableError struct {
	err error
}

func (e *unavailableError) Error() string {
	return domain.ErrCoordinatorUnavailable.Error() + ": " + e.err.Error()
}

func (e *unavailableError) Is(target error) bool {
	return target == domain.ErrCoordinatorUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.err
}
