package grpc_handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/domain"
	"github.com/anthanhphan/phago-distributed/internal/rpc"
	"github.com/anthanhphan/phago-distributed/internal/shard/port"
)

// Server implements the gRPC ShardService.
type Server struct {
	service port.ShardService
}

// NewServer creates a new gRPC server.
func NewServer(service port.ShardService) *Server {
	return &Server{
		service: service,
	}
}

var _ rpc.ShardServiceServer = (*Server)(nil)

func (s *Server) IngestDocument(ctx context.Context, req *rpc.IngestDocumentRequest) (*rpc.IngestDocumentResponse, error) {
	id, err := s.service.IngestDocument(ctx, req.Document, req.Routed)
	if err != nil {
		if errors.Is(err, domain.ErrRoutingFailed) {
			logger.Warnw("IngestDocument rejected", "shard_id", s.service.ID(), "document_id", req.Document.ID, "error", err.Error())
		}
		return nil, rpc.ToStatus(err)
	}
	return &rpc.IngestDocumentResponse{DocumentID: id}, nil
}

func (s *Server) TickPhase(ctx context.Context, req *rpc.TickPhaseRequest) (*rpc.TickPhaseResponse, error) {
	if _, err := domain.ParsePhase(string(req.Phase)); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	result, err := s.service.TickPhase(ctx, req.Phase, req.Tick)
	if err != nil {
		logger.Errorw("TickPhase failed", "shard_id", s.service.ID(), "phase", req.Phase, "tick", req.Tick, "error", err.Error())
		return nil, rpc.ToStatus(err)
	}
	return &rpc.TickPhaseResponse{Result: result}, nil
}

func (s *Server) LocalQuery(ctx context.Context, req *rpc.LocalQueryRequest) (*rpc.LocalQueryResponse, error) {
	result, err := s.service.LocalQuery(ctx, req.Request)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.LocalQueryResponse{Result: result}, nil
}

func (s *Server) GetTermFrequencies(ctx context.Context, req *rpc.TermFrequenciesRequest) (*rpc.TermFrequenciesResponse, error) {
	tf, err := s.service.GetTermFrequencies(ctx, req.Terms)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.TermFrequenciesResponse{Frequencies: tf}, nil
}

func (s *Server) GetNode(ctx context.Context, req *rpc.GetNodeRequest) (*rpc.GetNodeResponse, error) {
	node, found, err := s.service.GetNode(ctx, req.NodeID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	if !found {
		return &rpc.GetNodeResponse{Found: false}, nil
	}
	return &rpc.GetNodeResponse{Found: true, Node: &node}, nil
}

func (s *Server) HealthCheck(ctx context.Context, _ *rpc.HealthCheckRequest) (*rpc.HealthCheckResponse, error) {
	health, err := s.service.HealthCheck(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.HealthCheckResponse{Health: health}, nil
}

func (s *Server) ResolveGhostNodes(ctx context.Context, req *rpc.ResolveGhostNodesRequest) (*rpc.ResolveGhostNodesResponse, error) {
	ghosts, err := s.service.ResolveGhostNodes(ctx, req.NodeIDs)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.ResolveGhostNodesResponse{Ghosts: ghosts}, nil
}

func (s *Server) InsertGhostNodes(ctx context.Context, req *rpc.InsertGhostNodesRequest) (*rpc.InsertGhostNodesResponse, error) {
	n, err := s.service.InsertGhostNodes(ctx, req.Ghosts, req.Edges)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.InsertGhostNodesResponse{Inserted: n}, nil
}

func (s *Server) TakePendingEdges(ctx context.Context, _ *rpc.TakePendingEdgesRequest) (*rpc.TakePendingEdgesResponse, error) {
	edges, err := s.service.TakePendingEdges(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.TakePendingEdgesResponse{Edges: edges}, nil
}

func (s *Server) RequeuePendingEdges(ctx context.Context, req *rpc.RequeuePendingEdgesRequest) (*rpc.RequeuePendingEdgesResponse, error) {
	result, err := s.service.RequeuePendingEdges(ctx, req.Edges)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.RequeuePendingEdgesResponse{Result: result}, nil
}

func (s *Server) GetNeighbors(ctx context.Context, req *rpc.GetNeighborsRequest) (*rpc.GetNeighborsResponse, error) {
	neighbors, err := s.service.GetNeighbors(ctx, req.NodeID)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.GetNeighborsResponse{Neighbors: neighbors}, nil
}

func (s *Server) ReceiveSignals(ctx context.Context, req *rpc.ReceiveSignalsRequest) (*rpc.ReceiveSignalsResponse, error) {
	n, err := s.service.ReceiveSignals(ctx, req.Signals)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return &rpc.ReceiveSignalsResponse{Accepted: n}, nil
}
