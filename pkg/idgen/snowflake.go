package idgen

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	// 64-bit layout:
	// 1 bit: Unused (sign bit)
	// 41 bits: Timestamp (milliseconds since Epoch)
	// 10 bits: Node ID
	// 12 bits: Sequence

	nodeBits     = 10
	sequenceBits = 12

	MaxNodeID   = -1 ^ (-1 << nodeBits)
	maxSequence = -1 ^ (-1 << sequenceBits)

	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits

	// Epoch is 2025-01-01 00:00:00 UTC.
	Epoch = 1735689600000

	// maxDrift is how far the clock may step back before Next gives up.
	// Shared clocks such as Redis TIME jitter by a few milliseconds.
	maxDrift = 10
)

var (
	ErrNodeIDTooLarge = errors.New("node ID too large")
	ErrClockMovedBack = errors.New("clock moved backwards")
)

// Parts is a decoded ID.
type Parts struct {
	Time     time.Time
	NodeID   int64
	Sequence int64
}

// Snowflake generates unique, roughly time-ordered 64-bit IDs. The coordinator
// uses it to name documents submitted without an ID.
type Snowflake struct {
	mu       sync.Mutex
	clock    Clock
	nodeID   int64
	lastTime int64
	sequence int64
}

// New creates a new Snowflake ID generator.
func New(nodeID int64, clock Clock) (*Snowflake, error) {
	if nodeID < 0 || nodeID > int64(MaxNodeID) {
		return nil, ErrNodeIDTooLarge
	}

	if clock == nil {
		clock = &SystemClock{}
	}

	return &Snowflake{
		clock:    clock,
		nodeID:   nodeID,
		lastTime: -1,
	}, nil
}

// Next generates the next unique ID.
func (s *Snowflake) Next() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()

	if now < s.lastTime {
		if s.lastTime-now > maxDrift {
			return 0, ErrClockMovedBack
		}
		// Small step back: keep issuing from the last timestamp.
		now = s.lastTime
	}

	if now == s.lastTime {
		s.sequence = (s.sequence + 1) & int64(maxSequence)
		if s.sequence == 0 {
			for now <= s.lastTime {
				time.Sleep(100 * time.Microsecond)
				now = s.clock.Now()
			}
		}
	} else {
		s.sequence = 0
	}

	s.lastTime = now

	return ((now - Epoch) << timestampShift) |
		(s.nodeID << nodeShift) |
		s.sequence, nil
}

// NextString returns the next ID in base 36, which is what document IDs use.
func (s *Snowflake) NextString() (string, error) {
	id, err := s.Next()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}

// Decompose splits an ID produced by any Snowflake.
func Decompose(id int64) Parts {
	return Parts{
		Time:     time.UnixMilli((id >> timestampShift) + Epoch).UTC(),
		NodeID:   (id >> nodeShift) & int64(MaxNodeID),
		Sequence: id & int64(maxSequence),
	}
}
