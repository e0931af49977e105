package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
)

// Config holds Coordinator Service configuration
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Cluster ClusterConfig `json:"cluster" yaml:"cluster"`
	Runner  RunnerConfig  `json:"runner" yaml:"runner"`
	Query   QueryConfig   `json:"query" yaml:"query"`
	Client  ClientConfig  `json:"client" yaml:"client"`
	Gossip  GossipConfig  `json:"gossip" yaml:"gossip"`
	Redis   RedisConfig   `json:"redis" yaml:"redis"`
	IDNode  IDNodeConfig  `json:"id_node" yaml:"id_node"`
	Logger  logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	NodeID   string `json:"node_id" yaml:"node_id"`
	Hostname string `json:"hostname" yaml:"hostname"`
	GRPCPort int    `json:"grpc_port" yaml:"grpc_port"`
	HTTPAddr string `json:"http_addr" yaml:"http_addr"`
}

type ClusterConfig struct {
	NumShards             int `json:"num_shards" yaml:"num_shards"`
	ReplicationFactor     int `json:"replication_factor" yaml:"replication_factor"`
	RPCTimeoutMS          int `json:"rpc_timeout_ms" yaml:"rpc_timeout_ms"`
	VirtualNodesPerShard  int `json:"virtual_nodes_per_shard" yaml:"virtual_nodes_per_shard"`
	HeartbeatTimeoutMS    int `json:"heartbeat_timeout_ms" yaml:"heartbeat_timeout_ms"`
	PhaseTimeoutMS        int `json:"phase_timeout_ms" yaml:"phase_timeout_ms"`
	HealthCheckIntervalMS int `json:"health_check_interval_ms" yaml:"health_check_interval_ms"`
	// EmbeddedShards runs that many in-memory shards inside the coordinator.
	EmbeddedShards int `json:"embedded_shards" yaml:"embedded_shards"`
}

type RunnerConfig struct {
	ResolveGhosts bool `json:"resolve_ghosts" yaml:"resolve_ghosts"`
	Workers       int  `json:"workers" yaml:"workers"`
}

type QueryConfig struct {
	MaxResults      int `json:"max_results" yaml:"max_results"`
	MaxLocalResults int `json:"max_local_results" yaml:"max_local_results"`
}

type ClientConfig struct {
	MaxRetries   int `json:"max_retries" yaml:"max_retries"`
	RetryDelayMS int `json:"retry_delay_ms" yaml:"retry_delay_ms"`
}

type GossipConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Port    int      `json:"port" yaml:"port"`
	Seeds   []string `json:"seeds" yaml:"seeds"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// IDNodeConfig picks the Snowflake node ID for document IDs. LeaseKey, when
// set, leases a distinct ID from Redis instead of using Static.
type IDNodeConfig struct {
	Static   int64  `json:"static" yaml:"static"`
	LeaseKey string `json:"lease_key" yaml:"lease_key"`
}

func (c ClusterConfig) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutMS) * time.Millisecond
}

func (c ClusterConfig) HeartbeatTimeout() time.Duration {
	return time.Duration(c.HeartbeatTimeoutMS) * time.Millisecond
}

func (c ClusterConfig) PhaseTimeout() time.Duration {
	return time.Duration(c.PhaseTimeoutMS) * time.Millisecond
}

func (c ClusterConfig) HealthCheckInterval() time.Duration {
	return time.Duration(c.HealthCheckIntervalMS) * time.Millisecond
}

func (c ClientConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Hostname: "127.0.0.1",
			GRPCPort: 7000,
			HTTPAddr: ":8080",
		},
		Cluster: ClusterConfig{
			NumShards:             3,
			ReplicationFactor:     2,
			RPCTimeoutMS:          5000,
			VirtualNodesPerShard:  150,
			HeartbeatTimeoutMS:    30000,
			PhaseTimeoutMS:        30000,
			HealthCheckIntervalMS: 5000,
		},
		Runner: RunnerConfig{
			ResolveGhosts: true,
			Workers:       8,
		},
		Query: QueryConfig{
			MaxResults:      10,
			MaxLocalResults: 30,
		},
		Client: ClientConfig{
			MaxRetries:   3,
			RetryDelayMS: 500,
		},
		Gossip: GossipConfig{
			Port: 7946,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		IDNode: IDNodeConfig{
			Static: 1,
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "coordinator", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		// The logger is not initialized yet.
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		return cfg, nil
	}

	return parsedCfg, nil
}

// MustLoad loads configuration or exits on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
