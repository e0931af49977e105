package gossip

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/anthanhphan/gosdk/logger"
	"github.com/hashicorp/memberlist"

	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

// Role tells cluster members apart in gossip metadata.
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleShard       Role = "shard"
)

// Member is a gossip peer as seen through its metadata.
type Member struct {
	Name    string   `json:"name"`
	Role    Role     `json:"role"`
	ShardID shard.ID `json:"shard_id"`
	RPCAddr string   `json:"rpc_addr"`
}

// Listener receives membership changes for every member except the local one.
type Listener interface {
	MemberJoined(Member)
	MemberLeft(Member)
}

type Config struct {
	NodeName string
	BindAddr string
	BindPort int
	RPCPort  int
	Role     Role
	ShardID  shard.ID
}

type nodeMeta struct {
	Role    Role     `json:"role"`
	ShardID shard.ID `json:"shard_id"`
	RPCPort int      `json:"rpc_port"`
}

// GossipAdapter spreads liveness between coordinator and shards over memberlist.
// The coordinator's registry stays authoritative; gossip only speeds up failure
// detection.
type GossipAdapter struct {
	list     *memberlist.Memberlist
	conf     *memberlist.Config
	cfg      Config
	listener Listener
}

var (
	_ memberlist.Delegate      = (*GossipAdapter)(nil)
	_ memberlist.EventDelegate = (*GossipAdapter)(nil)
)

// NewGossipAdapter creates the local member. listener may be nil.
func NewGossipAdapter(cfg Config, listener Listener) (*GossipAdapter, error) {
	config := memberlist.DefaultLANConfig()
	config.Name = cfg.NodeName
	config.BindAddr = cfg.BindAddr
	config.BindPort = cfg.BindPort
	config.AdvertisePort = cfg.BindPort
	config.LogOutput = io.Discard

	adapter := &GossipAdapter{
		conf:     config,
		cfg:      cfg,
		listener: listener,
	}
	config.Events = adapter
	config.Delegate = adapter

	list, err := memberlist.Create(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}
	adapter.list = list
	return adapter, nil
}

// Join joins the cluster using seed nodes.
func (g *GossipAdapter) Join(seeds []string) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}
	n, err := g.list.Join(seeds)
	if err != nil {
		return n, fmt.Errorf("failed to join cluster: %w", err)
	}
	return n, nil
}

// Leave broadcasts the departure and shuts memberlist down.
func (g *GossipAdapter) Leave() error {
	if err := g.list.Leave(5 * time.Second); err != nil {
		return err
	}
	return g.list.Shutdown()
}

// NodeMeta returns the local node metadata.
func (g *GossipAdapter) NodeMeta(limit int) []byte {
	data, err := json.Marshal(nodeMeta{
		Role:    g.cfg.Role,
		ShardID: g.cfg.ShardID,
		RPCPort: g.cfg.RPCPort,
	})
	if err != nil {
		logger.Warnw("failed to marshal gossip node meta", "error", err.Error())
		return nil
	}
	if len(data) > limit {
		logger.Warnw("gossip node meta exceeds limit", "size", len(data), "limit", limit)
		return nil
	}
	return data
}

// NotifyMsg, GetBroadcasts, LocalState, MergeRemoteState are not used here but required by Delegate
func (g *GossipAdapter) NotifyMsg([]byte)                           {}
func (g *GossipAdapter) GetBroadcasts(overhead, limit int) [][]byte { return nil }
func (g *GossipAdapter) LocalState(join bool) []byte                { return nil }
func (g *GossipAdapter) MergeRemoteState(buf []byte, join bool)     {}

// Members returns every live member, the local one included.
func (g *GossipAdapter) Members() []Member {
	nodes := g.list.Members()
	members := make([]Member, 0, len(nodes))
	for _, n := range nodes {
		members = append(members, toMember(n))
	}
	return members
}

// LocalMember describes this process.
func (g *GossipAdapter) LocalMember() Member {
	return Member{
		Name:    g.cfg.NodeName,
		Role:    g.cfg.Role,
		ShardID: g.cfg.ShardID,
		RPCAddr: net.JoinHostPort(g.serverHost(), strconv.Itoa(g.cfg.RPCPort)),
	}
}

func (g *GossipAdapter) NotifyJoin(node *memberlist.Node) {
	if node.Name == g.cfg.NodeName {
		return
	}
	m := toMember(node)
	logger.Infow("Member joined", "name", m.Name, "role", m.Role, "shard_id", m.ShardID, "addr", m.RPCAddr)
	if g.listener != nil {
		g.listener.MemberJoined(m)
	}
}

func (g *GossipAdapter) NotifyLeave(node *memberlist.Node) {
	if node.Name == g.cfg.NodeName {
		return
	}
	m := toMember(node)
	logger.Infow("Member left", "name", m.Name, "role", m.Role, "shard_id", m.ShardID)
	if g.listener != nil {
		g.listener.MemberLeft(m)
	}
}

// NotifyUpdate is treated as a re-join so listeners see fresh metadata.
func (g *GossipAdapter) NotifyUpdate(node *memberlist.Node) {
	g.NotifyJoin(node)
}

func toMember(node *memberlist.Node) Member {
	meta := decodeMeta(node.Meta)
	port := meta.RPCPort
	if port <= 0 {
		port = int(node.Port)
	}
	return Member{
		Name:    node.Name,
		Role:    meta.Role,
		ShardID: meta.ShardID,
		RPCAddr: net.JoinHostPort(node.Addr.String(), strconv.Itoa(port)),
	}
}

func decodeMeta(meta []byte) nodeMeta {
	var m nodeMeta
	if len(meta) == 0 {
		return m
	}
	if err := json.Unmarshal(meta, &m); err != nil {
		logger.Warnw("failed to decode node metadata", "error", err.Error())
		return nodeMeta{}
	}
	return m
}

func (g *GossipAdapter) serverHost() string {
	addr := g.cfg.BindAddr
	if addr == "" {
		return addr
	}
	if ip := net.ParseIP(addr); ip == nil || !ip.IsUnspecified() {
		return addr
	}

	if g.list == nil || g.list.LocalNode() == nil {
		return addr
	}

	adv := g.list.LocalNode().Addr.String()
	if adv == "" {
		return addr
	}
	if ip := net.ParseIP(adv); ip != nil && ip.IsUnspecified() {
		return addr
	}
	return adv
}
