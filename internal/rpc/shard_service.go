package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ShardServiceName = "phago.shard.v1.ShardService"

const (
	ShardService_IngestDocument_FullMethodName     = "/" + ShardServiceName + "/IngestDocument"
	ShardService_TickPhase_FullMethodName          = "/" + ShardServiceName + "/TickPhase"
	ShardService_LocalQuery_FullMethodName         = "/" + ShardServiceName + "/LocalQuery"
	ShardService_GetTermFrequencies_FullMethodName = "/" + ShardServiceName + "/GetTermFrequencies"
	ShardService_GetNode_FullMethodName            = "/" + ShardServiceName + "/GetNode"
	ShardService_HealthCheck_FullMethodName        = "/" + ShardServiceName + "/HealthCheck"
	ShardService_ResolveGhostNodes_FullMethodName  = "/" + ShardServiceName + "/ResolveGhostNodes"
	ShardService_InsertGhostNodes_FullMethodName   = "/" + ShardServiceName + "/InsertGhostNodes"
	ShardService_TakePendingEdges_FullMethodName   = "/" + ShardServiceName + "/TakePendingEdges"
	ShardService_RequeuePending_FullMethodName     = "/" + ShardServiceName + "/RequeuePendingEdges"
	ShardService_GetNeighbors_FullMethodName       = "/" + ShardServiceName + "/GetNeighbors"
	ShardService_ReceiveSignals_FullMethodName     = "/" + ShardServiceName + "/ReceiveSignals"
)

// ShardServiceClient is the client API for the shard service.
type ShardServiceClient interface {
	IngestDocument(ctx context.Context, in *IngestDocumentRequest, opts ...grpc.CallOption) (*IngestDocumentResponse, error)
	TickPhase(ctx context.Context, in *TickPhaseRequest, opts ...grpc.CallOption) (*TickPhaseResponse, error)
	LocalQuery(ctx context.Context, in *LocalQueryRequest, opts ...grpc.CallOption) (*LocalQueryResponse, error)
	GetTermFrequencies(ctx context.Context, in *TermFrequenciesRequest, opts ...grpc.CallOption) (*TermFrequenciesResponse, error)
	GetNode(ctx context.Context, in *GetNodeRequest, opts ...grpc.CallOption) (*GetNodeResponse, error)
	HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
	ResolveGhostNodes(ctx context.Context, in *ResolveGhostNodesRequest, opts ...grpc.CallOption) (*ResolveGhostNodesResponse, error)
	InsertGhostNodes(ctx context.Context, in *InsertGhostNodesRequest, opts ...grpc.CallOption) (*InsertGhostNodesResponse, error)
	TakePendingEdges(ctx context.Context, in *TakePendingEdgesRequest, opts ...grpc.CallOption) (*TakePendingEdgesResponse, error)
	RequeuePendingEdges(ctx context.Context, in *RequeuePendingEdgesRequest, opts ...grpc.CallOption) (*RequeuePendingEdgesResponse, error)
	GetNeighbors(ctx context.Context, in *GetNeighborsRequest, opts ...grpc.CallOption) (*GetNeighborsResponse, error)
	ReceiveSignals(ctx context.Context, in *ReceiveSignalsRequest, opts ...grpc.CallOption) (*ReceiveSignalsResponse, error)
}

type shardServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewShardServiceClient(cc grpc.ClientConnInterface) ShardServiceClient {
	return &shardServiceClient{cc: cc}
}

func (c *shardServiceClient) IngestDocument(ctx context.Context, in *IngestDocumentRequest, opts ...grpc.CallOption) (*IngestDocumentResponse, error) {
	return invoke[IngestDocumentResponse](ctx, c.cc, ShardService_IngestDocument_FullMethodName, in, opts...)
}

func (c *shardServiceClient) TickPhase(ctx context.Context, in *TickPhaseRequest, opts ...grpc.CallOption) (*TickPhaseResponse, error) {
	return invoke[TickPhaseResponse](ctx, c.cc, ShardService_TickPhase_FullMethodName, in, opts...)
}

func (c *shardServiceClient) LocalQuery(ctx context.Context, in *LocalQueryRequest, opts ...grpc.CallOption) (*LocalQueryResponse, error) {
	return invoke[LocalQueryResponse](ctx, c.cc, ShardService_LocalQuery_FullMethodName, in, opts...)
}

func (c *shardServiceClient) GetTermFrequencies(ctx context.Context, in *TermFrequenciesRequest, opts ...grpc.CallOption) (*TermFrequenciesResponse, error) {
	return invoke[TermFrequenciesResponse](ctx, c.cc, ShardService_GetTermFrequencies_FullMethodName, in, opts...)
}

func (c *shardServiceClient) GetNode(ctx context.Context, in *GetNodeRequest, opts ...grpc.CallOption) (*GetNodeResponse, error) {
	return invoke[GetNodeResponse](ctx, c.cc, ShardService_GetNode_FullMethodName, in, opts...)
}

func (c *shardServiceClient) HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return invoke[HealthCheckResponse](ctx, c.cc, ShardService_HealthCheck_FullMethodName, in, opts...)
}

func (c *shardServiceClient) ResolveGhostNodes(ctx context.Context, in *ResolveGhostNodesRequest, opts ...grpc.CallOption) (*ResolveGhostNodesResponse, error) {
	return invoke[ResolveGhostNodesResponse](ctx, c.cc, ShardService_ResolveGhostNodes_FullMethodName, in, opts...)
}

func (c *shardServiceClient) InsertGhostNodes(ctx context.Context, in *InsertGhostNodesRequest, opts ...grpc.CallOption) (*InsertGhostNodesResponse, error) {
	return invoke[InsertGhostNodesResponse](ctx, c.cc, ShardService_InsertGhostNodes_FullMethodName, in, opts...)
}

func (c *shardServiceClient) TakePendingEdges(ctx context.Context, in *TakePendingEdgesRequest, opts ...grpc.CallOption) (*TakePendingEdgesResponse, error) {
	return invoke[TakePendingEdgesResponse](ctx, c.cc, ShardService_TakePendingEdges_FullMethodName, in, opts...)
}

func (c *shardServiceClient) RequeuePendingEdges(ctx context.Context, in *RequeuePendingEdgesRequest, opts ...grpc.CallOption) (*RequeuePendingEdgesResponse, error) {
	return invoke[RequeuePendingEdgesResponse](ctx, c.cc, ShardService_RequeuePending_FullMethodName, in, opts...)
}

func (c *shardServiceClient) GetNeighbors(ctx context.Context, in *GetNeighborsRequest, opts ...grpc.CallOption) (*GetNeighborsResponse, error) {
	return invoke[GetNeighborsResponse](ctx, c.cc, ShardService_GetNeighbors_FullMethodName, in, opts...)
}

func (c *shardServiceClient) ReceiveSignals(ctx context.Context, in *ReceiveSignalsRequest, opts ...grpc.CallOption) (*ReceiveSignalsResponse, error) {
	return invoke[ReceiveSignalsResponse](ctx, c.cc, ShardService_ReceiveSignals_FullMethodName, in, opts...)
}

// ShardServiceServer is the server API for the shard service.
type ShardServiceServer interface {
	IngestDocument(context.Context, *IngestDocumentRequest) (*IngestDocumentResponse, error)
	TickPhase(context.Context, *TickPhaseRequest) (*TickPhaseResponse, error)
	LocalQuery(context.Context, *LocalQueryRequest) (*LocalQueryResponse, error)
	GetTermFrequencies(context.Context, *TermFrequenciesRequest) (*TermFrequenciesResponse, error)
	GetNode(context.Context, *GetNodeRequest) (*GetNodeResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
	ResolveGhostNodes(context.Context, *ResolveGhostNodesRequest) (*ResolveGhostNodesResponse, error)
	InsertGhostNodes(context.Context, *InsertGhostNodesRequest) (*InsertGhostNodesResponse, error)
	TakePendingEdges(context.Context, *TakePendingEdgesRequest) (*TakePendingEdgesResponse, error)
	RequeuePendingEdges(context.Context, *RequeuePendingEdgesRequest) (*RequeuePendingEdgesResponse, error)
	GetNeighbors(context.Context, *GetNeighborsRequest) (*GetNeighborsResponse, error)
	ReceiveSignals(context.Context, *ReceiveSignalsRequest) (*ReceiveSignalsResponse, error)
}

var ShardServiceDesc = grpc.ServiceDesc{
	ServiceName: ShardServiceName,
	HandlerType: (*ShardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ShardServiceName, "IngestDocument", ShardServiceServer.IngestDocument),
		unary(ShardServiceName, "TickPhase", ShardServiceServer.TickPhase),
		unary(ShardServiceName, "LocalQuery", ShardServiceServer.LocalQuery),
		unary(ShardServiceName, "GetTermFrequencies", ShardServiceServer.GetTermFrequencies),
		unary(ShardServiceName, "GetNode", ShardServiceServer.GetNode),
		unary(ShardServiceName, "HealthCheck", ShardServiceServer.HealthCheck),
		unary(ShardServiceName, "ResolveGhostNodes", ShardServiceServer.ResolveGhostNodes),
		unary(ShardServiceName, "InsertGhostNodes", ShardServiceServer.InsertGhostNodes),
		unary(ShardServiceName, "TakePendingEdges", ShardServiceServer.TakePendingEdges),
		unary(ShardServiceName, "RequeuePendingEdges", ShardServiceServer.RequeuePendingEdges),
		unary(ShardServiceName, "GetNeighbors", ShardServiceServer.GetNeighbors),
		unary(ShardServiceName, "ReceiveSignals", ShardServiceServer.ReceiveSignals),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "phago/shard/v1/shard.proto",
}

func RegisterShardServiceServer(s grpc.ServiceRegistrar, srv ShardServiceServer) {
	s.RegisterService(&ShardServiceDesc, srv)
}
