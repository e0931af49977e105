package service

import (
	"context"
	"errors"
	"time"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/gossip"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// membershipService handles shard registration and maps gossip events onto
// the registry. The registry stays authoritative: gossip can only confirm a
// registered shard is alive or report that it left.
type membershipService struct {
	core *CoordinatorServiceImpl
}

func newMembershipService(core *CoordinatorServiceImpl) *membershipService {
	return &membershipService{core: core}
}

func (s *membershipService) register(ctx context.Context, info domain.ShardInfo, preferred *shard.ID) (shard.ID, error) {
	if info.Address == "" {
		return 0, errors.New("shard address is required")
	}
	if info.Status == "" {
		info.Status = domain.ShardOnline
	}
	return s.core.coord.RegisterOrRestore(info, preferred), nil
}

func (s *membershipService) memberJoined(m gossip.Member) {
	if m.Role != gossip.RoleShard {
		return
	}
	if _, err := s.core.coord.GetShard(m.ShardID); err != nil {
		// Not registered yet; the shard registers over RPC.
		logger.Debugw("Gossip join from unregistered shard", "member", m.Name, "shard_id", m.ShardID)
		return
	}
	if _, err := s.core.coord.Heartbeat(domain.HeartbeatMessage{ShardID: m.ShardID, Timestamp: time.Now()}); err != nil {
		logger.Warnw("Gossip join heartbeat failed", "shard_id", m.ShardID, "error", err)
	}
}

func (s *membershipService) memberLeft(m gossip.Member) {
	if m.Role != gossip.RoleShard {
		return
	}
	info, err := s.core.coord.GetShard(m.ShardID)
	if err != nil || info.Status == domain.ShardOffline {
		return
	}
	if err := s.core.coord.SetShardStatus(m.ShardID, domain.ShardOffline); err != nil {
		logger.Warnw("Gossip leave could not mark shard offline", "shard_id", m.ShardID, "error", err)
		return
	}
	logger.Infow("Shard left gossip, marked offline", "shard_id", m.ShardID, "member", m.Name)
}
