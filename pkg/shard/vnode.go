package shard

import (
	"fmt"
	"strconv"
)

// ID identifies a shard. IDs are assigned by the coordinator's registry and are
// never reused within a registry's lifetime.
type ID uint32

func (id ID) String() string {
	return fmt.Sprintf("shard-%d", uint32(id))
}

// ParseID parses the decimal form of a shard ID.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid shard id %q: %w", s, err)
	}
	return ID(v), nil
}

// VNode represents a virtual node on the ring.
// It points to the physical shard that owns the token.
type VNode struct {
	Token   uint64
	ShardID ID
}
