package domain

import (
	"errors"
	"fmt"

	"github.com/anthanhphan/phago-distributed/pkg/shard"
)

var (
	ErrShardNotFound          = errors.New("shard not found")
	ErrRoutingFailed          = errors.New("routing failed")
	ErrBarrierFailed          = errors.New("barrier failed")
	ErrPhaseTimeout           = errors.New("phase timed out")
	ErrEdgeResolutionFailed   = errors.New("edge resolution failed")
	ErrGhostNodeNotFound      = errors.New("ghost node not found")
	ErrCoordinatorUnavailable = errors.New("coordinator unavailable")
	ErrRPC                    = errors.New("rpc error")
	ErrTickInProgress         = errors.New("tick already in progress")
)

// ShardNotFoundError names the unknown shard.
type ShardNotFoundError struct {
	ID shard.ID
}

func (e *ShardNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrShardNotFound, e.ID)
}

func (e *ShardNotFoundError) Is(target error) bool {
	return target == ErrShardNotFound
}

// RoutingFailedError reports a document sent to a shard that does not own it.
type RoutingFailedError struct {
	DocumentID DocumentID
	Owner      shard.ID
	HasOwner   bool
}

func (e *RoutingFailedError) Error() string {
	if !e.HasOwner {
		return fmt.Sprintf("%v: no shard available for document %s", ErrRoutingFailed, e.DocumentID)
	}
	return fmt.Sprintf("%v: document %s is owned by %s", ErrRoutingFailed, e.DocumentID, e.Owner)
}

func (e *RoutingFailedError) Is(target error) bool {
	return target == ErrRoutingFailed
}

// PhaseTimeoutError reports a barrier that did not release in time.
type PhaseTimeoutError struct {
	Phase TickPhase
	Tick  uint64
}

func (e *PhaseTimeoutError) Error() string {
	return fmt.Sprintf("%v: %s at tick %d", ErrPhaseTimeout, e.Phase, e.Tick)
}

func (e *PhaseTimeoutError) Is(target error) bool {
	return target == ErrPhaseTimeout
}

// RPCError wraps a transport failure talking to a remote process.
type RPCError struct {
	Op   string
	Addr string
	Err  error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrRPC, e.Op, e.Addr, e.Err)
}

func (e *RPCError) Is(target error) bool {
	return target == ErrRPC
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transport-level failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCoordinatorUnavailable) || errors.Is(err, ErrRPC)
}
