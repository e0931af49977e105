package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/anthanhphan/gosdk/logger"

	grpcHandler "github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/inbound/grpc"
	httpHandler "github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/inbound/http"
	"github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/outbound/inproc"
	shardNode "github.com/anthanhphan/phago-distributed/internal/coordinator/adapter/outbound/shard_node"
	"github.com/anthanhphan/phago-distributed/internal/coordinator/config"
	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/coordinator/service"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/engine"
	shardService "github.com/anthanhphan/phago-distributed/internal/shard/service"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/idgen"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

type App struct {
	cfg            *config.Config
	grpcServer     *grpc.Server
	httpServer     *httpHandler.Server
	gossip         *gossip.GossipAdapter
	redis          *redis.Client
	service        *service.CoordinatorServiceImpl
	embedded       []*shardService.Colony
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

	// 3. Coordinator state
	coord := service.NewCoordinator(service.CoordinatorOptions{
		VirtualNodesPerShard: cfg.Cluster.VirtualNodesPerShard,
		ReplicationFactor:    cfg.Cluster.ReplicationFactor,
		HeartbeatTimeout:     cfg.Cluster.HeartbeatTimeout(),
		PhaseTimeout:         cfg.Cluster.PhaseTimeout(),
	})

	// 4. Shard clients: embedded shards in-process, the rest over gRPC
	remote := shardNode.NewGrpcAdapter(shardNode.Options{
		Timeout:    cfg.Cluster.RPCTimeout(),
		MaxRetries: cfg.Client.MaxRetries,
		RetryDelay: cfg.Client.RetryDelay(),
	})
	shards := inproc.NewAdapter(remote)
	embedded := startEmbeddedShards(cfg, coord, shards)

	// 5. Redis and Snowflake IDGen
	var (
		redisClient *redis.Client
		ids         port.IDGenerator
	)
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		nodeID := cfg.IDNode.Static
		if cfg.IDNode.LeaseKey != "" {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Cluster.RPCTimeout())
			leased, err := idgen.LeaseNodeID(ctx, redisClient, cfg.IDNode.LeaseKey)
			cancel()
			if err != nil {
				logger.Warnw("Node ID lease failed, using static node id", "static", nodeID, "error", err.Error())
			} else {
				nodeID = leased
			}
		}
		snowflake, err := idgen.New(nodeID, idgen.NewRedisClock(redisClient, 0))
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to init snowflake: %w", err)
		}
		ids = snowflake
	}

	// 6. Services
	svc := service.NewCoordinatorService(coord, shards, ids, service.ServiceOptions{
		Runner: service.RunnerOptions{
			ResolveGhosts: cfg.Runner.ResolveGhosts,
			Workers:       cfg.Runner.Workers,
		},
		Query: service.QueryOptions{
			MaxResults:      cfg.Query.MaxResults,
			MaxLocalResults: cfg.Query.MaxLocalResults,
		},
	})

	// 7. Gossip
	var gossipAdapter *gossip.GossipAdapter
	if cfg.Gossip.Enabled {
		nodeID := cfg.Server.NodeID
		if nodeID == "" {
			host, _ := os.Hostname()
			nodeID = fmt.Sprintf("%s-coordinator-%d", host, cfg.Server.GRPCPort)
		}
		gossipAdapter, err = gossip.NewGossipAdapter(gossip.Config{
			NodeName: nodeID,
			BindAddr: cfg.Server.Hostname,
			BindPort: cfg.Gossip.Port,
			RPCPort:  cfg.Server.GRPCPort,
			Role:     gossip.RoleCoordinator,
		}, svc)
		if err != nil {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, fmt.Errorf("failed to init gossip: %w", err)
		}
	}

	// 8. gRPC and HTTP Servers
	grpcServer := grpc.NewServer()
	rpc.RegisterCoordinatorServiceServer(grpcServer, grpcHandler.NewServer(svc))
	httpServer := httpHandler.NewServer(cfg.Server.HTTPAddr, svc)

	logger.Infow("Coordinator initialized",
		"grpc_port", cfg.Server.GRPCPort,
		"http_addr", cfg.Server.HTTPAddr,
		"embedded_shards", len(embedded),
		"replication_factor", cfg.Cluster.ReplicationFactor)

	return &App{
		cfg:        cfg,
		grpcServer: grpcServer,
		httpServer: httpServer,
		gossip:     gossipAdapter,
		redis:      redisClient,
		service:    svc,
		embedded:   embedded,
	}, nil
}

// startEmbeddedShards registers the configured number of in-memory shards and
// hosts them on the in-process client.
func startEmbeddedShards(cfg *config.Config, coord *service.Coordinator, shards *inproc.Adapter) []*shardService.Colony {
	n := cfg.Cluster.EmbeddedShards
	if n <= 0 {
		return nil
	}

	ids := make([]shard.ID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, coord.RegisterShard(domain.ShardInfo{Address: fmt.Sprintf("embedded-%d", i)}))
	}

	colonies := make([]*shardService.Colony, 0, n)
	for i, id := range ids {
		ring := shard.NewRing(cfg.Cluster.VirtualNodesPerShard, ids...)
		colony := shardService.NewColony(id, engine.NewMemoryGraph(engine.DefaultConfig()), ring, shardService.DefaultColonyConfig())
		shardService.ApplyTopology(colony, coord.AllShards())
		shards.Add(shardService.NewShardService(colony, nil, nil, fmt.Sprintf("embedded-%d", i)))
		colonies = append(colonies, colony)
	}
	return colonies
}

func (a *App) Run() error {
	if a.gossip != nil {
		a.joinGossip()
	}

	// Start gRPC
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.cfg.Server.GRPCPort, err)
	}

	logger.Infow("Coordinator starting", "grpc_port", a.cfg.Server.GRPCPort, "http_addr", a.cfg.Server.HTTPAddr)
	serverErrCh := make(chan error, 2)
	go func() {
		if err := a.grpcServer.Serve(listener); err != nil {
			serverErrCh <- fmt.Errorf("gRPC server failed: %w", err)
		}
	}()
	go func() {
		if err := a.httpServer.Start(); err != nil {
			serverErrCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	bgCtx, cancel := context.WithCancel(context.Background())
	a.backgroundStop = cancel
	go a.service.StartHealthMonitor(bgCtx, a.cfg.Cluster.HealthCheckInterval())
	go a.maintain(bgCtx, a.cfg.Cluster.HealthCheckInterval())

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
			runErr = err
			logger.Errorw("Coordinator server exited unexpectedly", "error", errMsg)
		}
	}

	logger.Info("Shutting down coordinator services")
	a.backgroundStop()

	if a.gossip != nil {
		if err := a.gossip.Leave(); err != nil {
			logger.Warnw("Gossip leave failed", "error", err.Error())
		}
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		logger.Errorw("HTTP shutdown error", "error", err.Error())
		if runErr == nil {
			runErr = err
		}
	}
	shutdownCancel()
	a.grpcServer.GracefulStop()

	if err := a.service.Close(); err != nil {
		logger.Warnw("Shard clients close failed", "error", err.Error())
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warnw("Redis close failed", "error", err.Error())
		}
	}

	return runErr
}

// maintain keeps embedded colonies' rings and peers in step with the registry
// and reports when fewer shards are routable than num_shards expects.
func (a *App) maintain(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastOnline := -1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			infos := a.service.ListShards(ctx)
			for _, colony := range a.embedded {
				shardService.ApplyTopology(colony, infos)
			}

			online := 0
			for _, info := range infos {
				if info.Status == domain.ShardOnline {
					online++
				}
			}
			if online != lastOnline && online < a.cfg.Cluster.NumShards {
				logger.Warnw("Cluster below expected size", "online", online, "expected", a.cfg.Cluster.NumShards)
			}
			lastOnline = online
		}
	}
}

func (a *App) joinGossip() {
	seeds := make([]string, 0, len(a.cfg.Gossip.Seeds))
	for _, seed := range a.cfg.Gossip.Seeds {
		if seed != "" {
			seeds = append(seeds, seed)
		}
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
