package rpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anthanhphan/phago-distributed/internal/domain"
)

// remoteError is a domain error decoded from a gRPC status. It keeps the
// server's message and matches the sentinel it was encoded from.
type remoteError struct {
	kind error
	code codes.Code
	msg  string
}

func (e *remoteError) Error() string {
	return e.msg
}

func (e *remoteError) Is(target error) bool {
	return target == e.kind
}

func (e *remoteError) GRPCStatus() *status.Status {
	return status.New(e.code, e.msg)
}

// ToStatus converts a service error into a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeOf(err), err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrShardNotFound), errors.Is(err, domain.ErrGhostNodeNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrRoutingFailed):
		return codes.FailedPrecondition
	case errors.Is(err, domain.ErrPhaseTimeout):
		return codes.DeadlineExceeded
	case errors.Is(err, domain.ErrBarrierFailed), errors.Is(err, domain.ErrTickInProgress):
		return codes.Aborted
	case errors.Is(err, domain.ErrCoordinatorUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// FromStatus maps an error returned by a stub back onto the domain taxonomy.
// Transport failures become *domain.RPCError.
func FromStatus(op, addr string, err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &domain.RPCError{Op: op, Addr: addr, Err: err}
	}

	msg := st.Message()
	switch st.Code() {
	case codes.NotFound:
		if strings.Contains(msg, domain.ErrGhostNodeNotFound.Error()) {
			return &remoteError{kind: domain.ErrGhostNodeNotFound, code: st.Code(), msg: msg}
		}
		return &remoteError{kind: domain.ErrShardNotFound, code: st.Code(), msg: msg}
	case codes.FailedPrecondition:
		return &remoteError{kind: domain.ErrRoutingFailed, code: st.Code(), msg: msg}
	case codes.Aborted:
		if strings.Contains(msg, domain.ErrTickInProgress.Error()) {
			return &remoteError{kind: domain.ErrTickInProgress, code: st.Code(), msg: msg}
		}
		return &remoteError{kind: domain.ErrBarrierFailed, code: st.Code(), msg: msg}
	case codes.DeadlineExceeded:
		if strings.Contains(msg, domain.ErrPhaseTimeout.Error()) {
			return &remoteError{kind: domain.ErrPhaseTimeout, code: st.Code(), msg: msg}
		}
		return &domain.RPCError{Op: op, Addr: addr, Err: err}
	case codes.Canceled:
		return context.Canceled
	default:
		return &domain.RPCError{Op: op, Addr: addr, Err: err}
	}
}
