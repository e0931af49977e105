package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// membershipService keeps the shard registered with the coordinator and its
// ring in line with the coordinator's registry.
type membershipService struct {
	core *ShardServiceImpl
}

func newMembershipService(core *ShardServiceImpl) *membershipService {
	return &membershipService{core: core}
}

// RegisterShard announces the shard at addr. An identity persisted by an earlier
// run is offered back to the coordinator, and the assigned one is persisted.
func RegisterShard(ctx context.Context, coord port.CoordinatorClient, store port.DocumentStore, addr string) (shard.ID, error) {
	var preferred *shard.ID
	if store != nil {
		id, found, err := store.ShardID(ctx)
		if err != nil {
			return 0, fmt.Errorf("load shard id: %w", err)
		}
		if found {
			preferred = &id
		}
	}

	info := domain.ShardInfo{Address: addr, Status: domain.ShardOnline, LastHeartbeat: time.Now()}
	id, err := coord.Register(ctx, info, preferred)
	if err != nil {
		return 0, fmt.Errorf("register with coordinator: %w", err)
	}
	if preferred != nil && *preferred != id {
		logger.Warnw("Coordinator assigned a new shard id", "previous", *preferred, "assigned", id)
	}
	if store != nil {
		if err := store.SetShardID(ctx, id); err != nil {
			return id, fmt.Errorf("persist shard id: %w", err)
		}
	}
	return id, nil
}

func (s *membershipService) startHeartbeat(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.heartbeat(ctx); err != nil && ctx.Err() == nil {
				logger.Warnw("Heartbeat failed", "shard_id", s.core.ID(), "error", err.Error())
			}
		}
	}
}

func (s *membershipService) heartbeat(ctx context.Context) error {
	if s.core.coordinator == nil {
		return nil
	}
	colony := s.core.colony
	resp, err := s.core.coordinator.Heartbeat(ctx, domain.HeartbeatMessage{
		ShardID:     colony.ID(),
		CurrentTick: colony.CurrentTick(),
		Metrics:     colony.Metrics(),
		Timestamp:   time.Now(),
	})
	if errors.Is(err, domain.ErrShardNotFound) {
		// The coordinator lost us, most likely after a restart.
		id := colony.ID()
		info := colony.ShardInfo(s.core.addr)
		if _, err := s.core.coordinator.Register(ctx, info, &id); err != nil {
			return fmt.Errorf("re-register: %w", err)
		}
		logger.Infow("Re-registered with coordinator", "shard_id", id)
		return nil
	}
	if err != nil {
		return err
	}
	if resp.ExpectedTick != colony.CurrentTick() {
		logger.Debugw("Shard tick differs from coordinator", "shard_id", colony.ID(),
			"local_tick", colony.CurrentTick(), "expected_tick", resp.ExpectedTick)
	}
	return nil
}

func (s *membershipService) startTopologySync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	if err := s.syncTopology(ctx); err != nil {
		logger.Warnw("Failed to sync topology", "error", err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.syncTopology(ctx); err != nil && ctx.Err() == nil {
				logger.Warnw("Failed to sync topology", "error", err.Error())
			}
		}
	}
}

// syncTopology mirrors the coordinator's routable set into the local ring.
// Peers that went offline or disappeared have their edges and ghosts purged.
func (s *membershipService) syncTopology(ctx context.Context) error {
	if s.core.coordinator == nil {
		return nil
	}
	shards, err := s.core.coordinator.ListShards(ctx)
	if err != nil {
		return err
	}
	ApplyTopology(s.core.colony, shards)
	return nil
}

// ApplyTopology reconciles a colony's ring and peers with a registry snapshot.
func ApplyTopology(colony *Colony, shards []domain.ShardInfo) {
	ring := colony.Ring()
	self := colony.ID()

	routable := make(map[shard.ID]struct{}, len(shards))
	live := make(map[shard.ID]struct{}, len(shards))
	for _, info := range shards {
		if info.Status != domain.ShardOffline {
			live[info.ID] = struct{}{}
		}
		if info.Status == domain.ShardOnline {
			routable[info.ID] = struct{}{}
		}
	}

	for id := range routable {
		if !ring.HasShard(id) {
			logger.Infow("Adding shard to ring", "shard_id", id)
			ring.AddShard(id)
		}
	}
	for _, id := range ring.Shards() {
		if _, ok := routable[id]; !ok && id != self {
			logger.Infow("Removing shard from ring", "shard_id", id)
			ring.RemoveShard(id)
		}
	}

	for id := range live {
		colony.AddPeer(id)
	}
	for _, id := range colony.Peers() {
		if _, ok := live[id]; ok {
			continue
		}
		edges, ghosts := colony.HandleShardOffline(id)
		logger.Infow("Peer shard went away", "shard_id", id, "edges_removed", edges, "ghosts_removed", ghosts)
	}
}

// peerJoined learns a peer from gossip ahead of the next topology poll. Ring
// membership still waits for the coordinator.
func (s *membershipService) peerJoined(m gossip.Member) {
	if m.Role != gossip.RoleShard || m.ShardID == s.core.ID() {
		return
	}
	s.core.colony.AddPeer(m.ShardID)
}

// peerLeft drops ghosts cached from a peer gossip lost. Its edges are kept until
// the coordinator confirms the shard offline.
func (s *membershipService) peerLeft(m gossip.Member) {
	if m.Role != gossip.RoleShard || m.ShardID == s.core.ID() {
		return
	}
	if n := s.core.colony.RemovePeer(m.ShardID); n > 0 {
		logger.Infow("Dropped ghosts of departed peer", "shard_id", m.ShardID, "ghosts_removed", n)
	}
}

func (s *membershipService) leave(ctx context.Context) error {
	if s.core.coordinator == nil {
		return nil
	}
	return s.core.coordinator.Unregister(ctx, s.core.ID())
}
