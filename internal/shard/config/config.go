package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/shard/adapter/outbound/engine"
	"github.com/anthanhphan/phago-distributed/internal/shard/service"
)

// Config holds Shard Service configuration
type Config struct {
	Server      ServerConfig         `json:"server" yaml:"server"`
	Coordinator CoordinatorConfig    `json:"coordinator" yaml:"coordinator"`
	Colony      service.ColonyConfig `json:"colony" yaml:"colony"`
	Engine      engine.Config        `json:"engine" yaml:"engine"`
	Store       StoreConfig          `json:"store" yaml:"store"`
	Cluster     ClusterConfig        `json:"cluster" yaml:"cluster"`
	Gossip      GossipConfig         `json:"gossip" yaml:"gossip"`
	Logger      logger.Config        `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	NodeID   string `json:"node_id" yaml:"node_id"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Port     int    `json:"port" yaml:"port"`
}

type CoordinatorConfig struct {
	Addr                string `json:"addr" yaml:"addr"`
	HeartbeatIntervalMS int    `json:"heartbeat_interval_ms" yaml:"heartbeat_interval_ms"`
	TopologyPollMS      int    `json:"topology_poll_ms" yaml:"topology_poll_ms"`
	MaxRetries          int    `json:"max_retries" yaml:"max_retries"`
	RetryDelayMS        int    `json:"retry_delay_ms" yaml:"retry_delay_ms"`
}

type StoreConfig struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	InMemory bool   `json:"in_memory" yaml:"in_memory"`
}

type ClusterConfig struct {
	VirtualNodesPerShard int `json:"virtual_nodes_per_shard" yaml:"virtual_nodes_per_shard"`
	RPCTimeoutMS         int `json:"rpc_timeout_ms" yaml:"rpc_timeout_ms"`
}

type GossipConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Port    int      `json:"port" yaml:"port"`
	Seeds   []string `json:"seeds" yaml:"seeds"`
}

func (c CoordinatorConfig) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatIntervalMS) * time.Millisecond
}

func (c CoordinatorConfig) TopologyPoll() time.Duration {
	return time.Duration(c.TopologyPollMS) * time.Millisecond
}

func (c CoordinatorConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

func (c ClusterConfig) RPCTimeout() time.Duration {
	return time.Duration(c.RPCTimeoutMS) * time.Millisecond
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Hostname: "127.0.0.1",
			Port:     7100,
		},
		Coordinator: CoordinatorConfig{
			Addr:                "localhost:7000",
			HeartbeatIntervalMS: 5000,
			TopologyPollMS:      5000,
			MaxRetries:          3,
			RetryDelayMS:        500,
		},
		Colony: service.DefaultColonyConfig(),
		Engine: engine.DefaultConfig(),
		Store: StoreConfig{
			DataDir: "./data/shard",
		},
		Cluster: ClusterConfig{
			VirtualNodesPerShard: 150,
			RPCTimeoutMS:         5000,
		},
		Gossip: GossipConfig{
			Port: 7946,
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
		configPath = filepath.Join("internal", "shard", "config", env+".yaml")
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
