package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Cluster.NumShards)
	assert.Equal(t, 2, cfg.Cluster.ReplicationFactor)
	assert.Equal(t, 150, cfg.Cluster.VirtualNodesPerShard)
	assert.Equal(t, 5*time.Second, cfg.Cluster.RPCTimeout())
	assert.Equal(t, 30*time.Second, cfg.Cluster.HeartbeatTimeout())
	assert.Equal(t, 30*time.Second, cfg.Cluster.PhaseTimeout())
	assert.Equal(t, 5*time.Second, cfg.Cluster.HealthCheckInterval())
	assert.Equal(t, 500*time.Millisecond, cfg.Client.RetryDelay())
	assert.True(t, cfg.Runner.ResolveGhosts)
	assert.Zero(t, cfg.Cluster.EmbeddedShards)
}
