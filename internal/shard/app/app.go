package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	grpcHandler "github.com/anthanhphan/phago-distributed/internal/shard/adapter/inbound/grpc"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/coordinator"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/docstore"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/engine"
	"github.com/anthanhphan/phago-distributed/internal/shard/config"
	"github.com/anthanhphan/phago-distributed/internal/shard/service"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/resilience"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type App struct {
	cfg            *config.Config
	server         *grpc.Server
	gossip         *gossip.GossipAdapter
	store          *docstore.BadgerStore
	coordinator    *coordinator.GrpcAdapter
	shardService   *service.ShardServiceImpl
	backgroundStop context.CancelFunc
}

func New(configPath string) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	if !cfg.Store.InMemory {
		if err := os.MkdirAll(cfg.Store.DataDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}

	// 3. Document Store
	store, err := docstore.Open(docstore.Options{DataDir: cfg.Store.DataDir, InMemory: cfg.Store.InMemory})
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	// 4. Register with the coordinator
	coord := coordinator.NewGrpcAdapter(coordinator.Options{
		Addr:       cfg.Coordinator.Addr,
		Timeout:    cfg.Cluster.RPCTimeout(),
		MaxRetries: cfg.Coordinator.MaxRetries,
		RetryDelay: cfg.Coordinator.RetryDelay(),
	})
	addr := net.JoinHostPort(cfg.Server.Hostname, strconv.Itoa(cfg.Server.Port))

	var id shard.ID
	err = resilience.Retry(context.Background(),
		resilience.RetryPolicy{MaxRetries: 10, Delay: time.Second, Exponential: true},
		domain.IsRetryable,
		func(ctx context.Context) error {
			var regErr error
			id, regErr = service.RegisterShard(ctx, coord, store, addr)
			if regErr != nil {
				logger.Warnw("Failed to register with coordinator, retrying...", "coordinator", cfg.Coordinator.Addr, "error", regErr.Error())
			}
			return regErr
		})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register shard: %w", err)
	}

	// 5. Colony
	ring := shard.NewRing(cfg.Cluster.VirtualNodesPerShard, id)
	colony := service.NewColony(id, engine.NewMemoryGraph(cfg.Engine), ring, cfg.Colony)
	shardService := service.NewShardService(colony, store, coord, addr)

	replayed, err := shardService.Replay(context.Background())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to replay documents: %w", err)
	}

	// 6. Gossip
	var gossipAdapter *gossip.GossipAdapter
	if cfg.Gossip.Enabled {
		nodeID := cfg.Server.NodeID
		if nodeID == "" {
			host, _ := os.Hostname()
			nodeID = fmt.Sprintf("%s-%d", host, cfg.Server.Port)
		}
		gossipAdapter, err = gossip.NewGossipAdapter(gossip.Config{
			NodeName: nodeID,
			BindAddr: cfg.Server.Hostname,
			BindPort: cfg.Gossip.Port,
			RPCPort:  cfg.Server.Port,
			Role:     gossip.RoleShard,
			ShardID:  id,
		}, shardService)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to init gossip: %w", err)
		}
	}

	// 7. gRPC Server
	grpcServer := grpc.NewServer()
	rpc.RegisterShardServiceServer(grpcServer, grpcHandler.NewServer(shardService))

	logger.Infow("Shard initialized", "shard_id", id, "addr", addr, "documents_replayed", replayed)

	return &App{
		cfg:          cfg,
		server:       grpcServer,
		gossip:       gossipAdapter,
		store:        store,
		coordinator:  coord,
		shardService: shardService,
	}, nil
}

func (a *App) Run() error {
	if a.gossip != nil {
		a.joinGossip()
	}

	// Start gRPC
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.cfg.Server.Port, err)
	}

	logger.Infow("Shard starting",
		"shard_id", a.shardService.ID(),
		"port", a.cfg.Server.Port,
		"coordinator", a.cfg.Coordinator.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := a.server.Serve(listener); err != nil {
			serverErrCh <- err
		}
	}()

	bgCtx, cancel := context.WithCancel(context.Background())
	a.backgroundStop = cancel
	go a.shardService.StartHeartbeat(bgCtx, a.cfg.Coordinator.HeartbeatInterval())
	go a.shardService.StartTopologySync(bgCtx, a.cfg.Coordinator.TopologyPoll())

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case sig := <-stop:
		logger.Infow("Shutdown signal received", "signal", sig.String())
	case err := <-serverErrCh:
		// Ignore expected stop errors.
		errMsg := err.Error()
		if !strings.Contains(errMsg, "use of closed network connection") && !errors.Is(err, grpc.ErrServerStopped) {
			runErr = fmt.Errorf("gRPC server failed: %w", err)
			logger.Errorw("Shard gRPC server exited unexpectedly", "error", errMsg)
		}
	}

	logger.Info("Shutting down shard services")
	a.backgroundStop()

	leaveCtx, leaveCancel := context.WithTimeout(context.Background(), a.cfg.Cluster.RPCTimeout())
	if err := a.shardService.Leave(leaveCtx); err != nil {
		logger.Warnw("Unregister from coordinator failed", "error", err.Error())
	}
	leaveCancel()

	if a.gossip != nil {
		if err := a.gossip.Leave(); err != nil {
			logger.Warnw("Gossip leave failed", "error", err.Error())
		}
	}
	a.server.GracefulStop()
	if err := a.store.Close(); err != nil {
		logger.Warnw("Document store close failed", "error", err.Error())
	}
	if err := a.coordinator.Close(); err != nil {
		logger.Warnw("Coordinator client close failed", "error", err.Error())
	}

	return runErr
}

func (a *App) joinGossip() {
	seeds := make([]string, 0, len(a.cfg.Gossip.Seeds))
	selfSeedSuffix := fmt.Sprintf(":%d", a.cfg.Gossip.Port)
	for _, seed := range a.cfg.Gossip.Seeds {
		if seed == "" {
			continue
		}
		if strings.HasSuffix(seed, selfSeedSuffix) && strings.Contains(seed, a.cfg.Server.Hostname) {
			continue
		}
		seeds = append(seeds, seed)
	}
	if len(seeds) == 0 {
		return
	}

	var joinErr error
	for i := 0; i < 5; i++ {
		_, joinErr = a.gossip.Join(seeds)
		if joinErr == nil {
			return
		}
		logger.Warnw("Failed to join cluster, retrying...", "attempt", i+1, "error", joinErr.Error())
		time.Sleep(2 * time.Second)
	}
	logger.Errorw("Failed to join cluster after retries", "error", joinErr.Error())
}
