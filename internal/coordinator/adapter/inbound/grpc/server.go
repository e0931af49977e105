package grpc_handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/port"
	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
)

// Server implements the gRPC CoordinatorService.
type Server struct {
	service port.CoordinatorService
}

// NewServer creates a new gRPC server.
func NewServer(service port.CoordinatorService) *Server {
	return &Server{
		service: service,
	}
}

var _ rpc.CoordinatorServiceServer = (*Server)(nil)

func (s *Server) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	if req.Info.Address == "" {
		return nil, status.Error(codes.InvalidArgument, "shard address is required")
	}
	id, err := s.service.RegisterShard(ctx, req.Info, req.PreferredID)
	if err != nil {
		logger.Warnw("Register failed", "addr", req.Info.Address, "error", err.Error())
		return nil, rpc.ToStatus(err)
	}
	return &rpc.RegisterResponse{ShardID: id}, nil
}

func (s *Server) Unregister(ctx context.Context, req *rpc.UnregisterRequest) (*rpc.Empty, error) {
	if err := s.service.UnregisterShard(ctx, req.ShardID); err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *Server) PhaseComplete(ctx context.Context, req *rpc.PhaseCompleteRequest) (*rpc.Empty, error) {
	if _, err := domain.ParsePhase(string(req.Phase)); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.service.PhaseComplete(ctx, req.ShardID, req.Phase, req.Tick); err != nil {
		if errors.Is(err, domain.ErrBarrierFailed) {
			logger.Warnw("PhaseComplete rejected", "shard_id", req.ShardID, "phase", req.Phase, "tick", req.Tick, "error", err.Error())
		}
		return nil, rpc.ToStatus(err)
	}
	return &rpc.Empty{}, nil
}

func (s *Server) RouteDocument(ctx context.Context, req *rpc.RouteDocumentRequest) (*rpc.RouteResponse, error) {
	info, err := s.service.RouteDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.RouteResponse{ShardID: info.ID, Address: info.Address}, nil
}

func (s *Server) RouteNode(ctx context.Context, req *rpc.RouteNodeRequest) (*rpc.RouteResponse, error) {
	info, err := s.service.RouteNode(ctx, req.NodeID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.RouteResponse{ShardID: info.ID, Address: info.Address}, nil
}

func (s *Server) GetGlobalDF(ctx context.Context, req *rpc.GlobalDFRequest) (*rpc.GlobalDFResponse, error) {
	df, err := s.service.GlobalDF(ctx, req.Terms)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.GlobalDFResponse{DF: df}, nil
}

func (s *Server) BarrierReady(ctx context.Context, req *rpc.BarrierReadyRequest) (*rpc.BarrierReadyResponse, error) {
	if _, err := domain.ParsePhase(string(req.Phase)); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ready, err := s.service.BarrierReady(ctx, req.ShardID, req.Phase, req.Tick)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.BarrierReadyResponse{Ready: ready}, nil
}

func (s *Server) CurrentTick(ctx context.Context, _ *rpc.CurrentTickRequest) (*rpc.TickResponse, error) {
	return &rpc.TickResponse{Tick: s.service.CurrentTick(ctx)}, nil
}

func (s *Server) ListShards(ctx context.Context, _ *rpc.ListShardsRequest) (*rpc.ListShardsResponse, error) {
	return &rpc.ListShardsResponse{Shards: s.service.ListShards(ctx)}, nil
}

func (s *Server) StartTick(ctx context.Context, _ *rpc.StartTickRequest) (*rpc.TickResponse, error) {
	tick, err := s.service.StartTick(ctx)
	if err != nil {
		logger.Errorw("StartTick failed", "tick", tick, "error", err.Error())
		return nil, rpc.ToStatus(err)
	}
	return &rpc.TickResponse{Tick: tick}, nil
}

func (s *Server) TickStatus(ctx context.Context, _ *rpc.TickStatusRequest) (*rpc.TickStatusResponse, error) {
	return &rpc.TickStatusResponse{Status: s.service.TickStatus(ctx)}, nil
}

func (s *Server) Heartbeat(ctx context.Context, req *rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error) {
	resp, err := s.service.Heartbeat(ctx, req.Message)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.HeartbeatResponse{Response: resp}, nil
}
