package service

import (
	"sort"
	"time"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

const DefaultHeartbeatTimeout = 30 * time.Second

// ShardRegistry tracks every registered shard and its lifecycle status.
// It is not synchronized; the Coordinator guards it.
type ShardRegistry struct {
	shards  map[shard.ID]*domain.ShardInfo
	nextID  shard.ID
	timeout time.Duration
	now     func() time.Time
}

func NewShardRegistry(heartbeatTimeout time.Duration) *ShardRegistry {
	if heartbeatTimeout <= 0 {
		heartbeatTimeout = DefaultHeartbeatTimeout
	}
	return &ShardRegistry{
		shards:  make(map[shard.ID]*domain.ShardInfo),
		timeout: heartbeatTimeout,
		now:     time.Now,
	}
}

// Register assigns the next unused ID. IDs are never reused.
func (r *ShardRegistry) Register(info domain.ShardInfo) shard.ID {
	id := r.nextID
	r.nextID++
	r.put(id, info)
	return id
}

// RegisterWithID registers under a caller-chosen ID, replacing any entry with
// that ID. Later Register calls never hand the ID out again.
func (r *ShardRegistry) RegisterWithID(id shard.ID, info domain.ShardInfo) {
	if id >= r.nextID {
		r.nextID = id + 1
	}
	r.put(id, info)
}

func (r *ShardRegistry) put(id shard.ID, info domain.ShardInfo) {
	info.ID = id
	if info.Status == "" {
		info.Status = domain.ShardOnline
	}
	info.LastHeartbeat = r.now()
	r.shards[id] = &info
}

func (r *ShardRegistry) Deregister(id shard.ID) (domain.ShardInfo, error) {
	info, ok := r.shards[id]
	if !ok {
		return domain.ShardInfo{}, &domain.ShardNotFoundError{ID: id}
	}
	delete(r.shards, id)
	return *info, nil
}

func (r *ShardRegistry) Get(id shard.ID) (domain.ShardInfo, bool) {
	info, ok := r.shards[id]
	if !ok {
		return domain.ShardInfo{}, false
	}
	return *info, true
}

func (r *ShardRegistry) Contains(id shard.ID) bool {
	_, ok := r.shards[id]
	return ok
}

// Heartbeat refreshes the timestamp and brings an offline or recovering shard
// back online. It returns the status before the heartbeat.
func (r *ShardRegistry) Heartbeat(id shard.ID) (domain.ShardStatus, error) {
	info, ok := r.shards[id]
	if !ok {
		return "", &domain.ShardNotFoundError{ID: id}
	}
	prev := info.Status
	info.LastHeartbeat = r.now()
	if prev == domain.ShardOffline || prev == domain.ShardRecovering {
		info.Status = domain.ShardOnline
	}
	return prev, nil
}

func (r *ShardRegistry) UpdateMetrics(id shard.ID, m domain.ShardMetrics) error {
	info, ok := r.shards[id]
	if !ok {
		return &domain.ShardNotFoundError{ID: id}
	}
	info.NodeCount = m.NodeCount
	info.EdgeCount = m.EdgeCount
	info.DocumentCount = m.DocumentCount
	info.MemoryBytes = m.MemoryBytes
	return nil
}

func (r *ShardRegistry) SetStatus(id shard.ID, status domain.ShardStatus) error {
	info, ok := r.shards[id]
	if !ok {
		return &domain.ShardNotFoundError{ID: id}
	}
	info.Status = status
	return nil
}

// CheckDeadShards marks online shards whose last heartbeat is older than the
// timeout as offline and returns them in ID order.
func (r *ShardRegistry) CheckDeadShards(now time.Time) []shard.ID {
	var dead []shard.ID
	for id, info := range r.shards {
		if info.Status == domain.ShardOnline && now.Sub(info.LastHeartbeat) > r.timeout {
			info.Status = domain.ShardOffline
			dead = append(dead, id)
		}
	}
	sortIDs(dead)
	return dead
}

// LeastLoadedShard returns the online shard with the fewest documents; ties go
// to the lowest ID.
func (r *ShardRegistry) LeastLoadedShard() (shard.ID, bool) {
	var (
		best  shard.ID
		count int
		found bool
	)
	for _, info := range r.All() {
		if info.Status != domain.ShardOnline {
			continue
		}
		if !found || info.DocumentCount < count {
			best, count, found = info.ID, info.DocumentCount, true
		}
	}
	return best, found
}

// All returns a snapshot of every shard sorted by ID.
func (r *ShardRegistry) All() []domain.ShardInfo {
	out := make([]domain.ShardInfo, 0, len(r.shards))
	for _, info := range r.shards {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *ShardRegistry) Count() int {
	return len(r.shards)
}

func (r *ShardRegistry) OnlineShards() []shard.ID {
	return r.filter(func(s domain.ShardStatus) bool { return s == domain.ShardOnline })
}

// RoutableShards are the shards the ring places keys on.
func (r *ShardRegistry) RoutableShards() []shard.ID {
	return r.OnlineShards()
}

// ParticipatingShards are the shards a tick barrier waits for.
func (r *ShardRegistry) ParticipatingShards() []shard.ID {
	return r.filter(func(s domain.ShardStatus) bool { return s == domain.ShardOnline || s == domain.ShardDraining })
}

func (r *ShardRegistry) CountByStatus() map[domain.ShardStatus]int {
	out := make(map[domain.ShardStatus]int, 4)
	for _, info := range r.shards {
		out[info.Status]++
	}
	return out
}

func (r *ShardRegistry) TotalDocuments() uint64 {
	var total uint64
	for _, info := range r.shards {
		total += uint64(info.DocumentCount)
	}
	return total
}

func (r *ShardRegistry) TotalMemory() uint64 {
	var total uint64
	for _, info := range r.shards {
		total += info.MemoryBytes
	}
	return total
}

func (r *ShardRegistry) filter(keep func(domain.ShardStatus) bool) []shard.ID {
	var ids []shard.ID
	for id, info := range r.shards {
		if keep(info.Status) {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []shard.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
