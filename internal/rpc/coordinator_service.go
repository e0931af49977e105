package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const CoordinatorServiceName = "phago.coordinator.v1.CoordinatorService"

const (
	CoordinatorService_Register_FullMethodName      = "/" + CoordinatorServiceName + "/Register"
	CoordinatorService_Unregister_FullMethodName    = "/" + CoordinatorServiceName + "/Unregister"
	CoordinatorService_PhaseComplete_FullMethodName = "/" + CoordinatorServiceName + "/PhaseComplete"
	CoordinatorService_RouteDocument_FullMethodName = "/" + CoordinatorServiceName + "/RouteDocument"
	CoordinatorService_RouteNode_FullMethodName     = "/" + CoordinatorServiceName + "/RouteNode"
	CoordinatorService_GetGlobalDF_FullMethodName   = "/" + CoordinatorServiceName + "/GetGlobalDF"
	CoordinatorService_BarrierReady_FullMethodName  = "/" + CoordinatorServiceName + "/BarrierReady"
	CoordinatorService_CurrentTick_FullMethodName   = "/" + CoordinatorServiceName + "/CurrentTick"
	CoordinatorService_ListShards_FullMethodName    = "/" + CoordinatorServiceName + "/ListShards"
	CoordinatorService_StartTick_FullMethodName     = "/" + CoordinatorServiceName + "/StartTick"
	CoordinatorService_TickStatus_FullMethodName    = "/" + CoordinatorServiceName + "/TickStatus"
	CoordinatorService_Heartbeat_FullMethodName     = "/" + CoordinatorServiceName + "/Heartbeat"
)

// CoordinatorServiceClient is the client API for the coordinator service.
type CoordinatorServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Unregister(ctx context.Context, in *UnregisterRequest, opts ...grpc.CallOption) (*Empty, error)
	PhaseComplete(ctx context.Context, in *PhaseCompleteRequest, opts ...grpc.CallOption) (*Empty, error)
	RouteDocument(ctx context.Context, in *RouteDocumentRequest, opts ...grpc.CallOption) (*RouteResponse, error)
	RouteNode(ctx context.Context, in *RouteNodeRequest, opts ...grpc.CallOption) (*RouteResponse, error)
	GetGlobalDF(ctx context.Context, in *GlobalDFRequest, opts ...grpc.CallOption) (*GlobalDFResponse, error)
	BarrierReady(ctx context.Context, in *BarrierReadyRequest, opts ...grpc.CallOption) (*BarrierReadyResponse, error)
	CurrentTick(ctx context.Context, in *CurrentTickRequest, opts ...grpc.CallOption) (*TickResponse, error)
	ListShards(ctx context.Context, in *ListShardsRequest, opts ...grpc.CallOption) (*ListShardsResponse, error)
	StartTick(ctx context.Context, in *StartTickRequest, opts ...grpc.CallOption) (*TickResponse, error)
	TickStatus(ctx context.Context, in *TickStatusRequest, opts ...grpc.CallOption) (*TickStatusResponse, error)
	Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error)
}

type coordinatorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCoordinatorServiceClient(cc grpc.ClientConnInterface) CoordinatorServiceClient {
	return &coordinatorServiceClient{cc: cc}
}

func (c *coordinatorServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, CoordinatorService_Register_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) Unregister(ctx context.Context, in *UnregisterRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, CoordinatorService_Unregister_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) PhaseComplete(ctx context.Context, in *PhaseCompleteRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, CoordinatorService_PhaseComplete_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) RouteDocument(ctx context.Context, in *RouteDocumentRequest, opts ...grpc.CallOption) (*RouteResponse, error) {
	return invoke[RouteResponse](ctx, c.cc, CoordinatorService_RouteDocument_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) RouteNode(ctx context.Context, in *RouteNodeRequest, opts ...grpc.CallOption) (*RouteResponse, error) {
	return invoke[RouteResponse](ctx, c.cc, CoordinatorService_RouteNode_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) GetGlobalDF(ctx context.Context, in *GlobalDFRequest, opts ...grpc.CallOption) (*GlobalDFResponse, error) {
	return invoke[GlobalDFResponse](ctx, c.cc, CoordinatorService_GetGlobalDF_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) BarrierReady(ctx context.Context, in *BarrierReadyRequest, opts ...grpc.CallOption) (*BarrierReadyResponse, error) {
	return invoke[BarrierReadyResponse](ctx, c.cc, CoordinatorService_BarrierReady_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) CurrentTick(ctx context.Context, in *CurrentTickRequest, opts ...grpc.CallOption) (*TickResponse, error) {
	return invoke[TickResponse](ctx, c.cc, CoordinatorService_CurrentTick_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) ListShards(ctx context.Context, in *ListShardsRequest, opts ...grpc.CallOption) (*ListShardsResponse, error) {
	return invoke[ListShardsResponse](ctx, c.cc, CoordinatorService_ListShards_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) StartTick(ctx context.Context, in *StartTickRequest, opts ...grpc.CallOption) (*TickResponse, error) {
	return invoke[TickResponse](ctx, c.cc, CoordinatorService_StartTick_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) TickStatus(ctx context.Context, in *TickStatusRequest, opts ...grpc.CallOption) (*TickStatusResponse, error) {
	return invoke[TickStatusResponse](ctx, c.cc, CoordinatorService_TickStatus_FullMethodName, in, opts...)
}

func (c *coordinatorServiceClient) Heartbeat(ctx context.Context, in *HeartbeatRequest, opts ...grpc.CallOption) (*HeartbeatResponse, error) {
	return invoke[HeartbeatResponse](ctx, c.cc, CoordinatorService_Heartbeat_FullMethodName, in, opts...)
}

// CoordinatorServiceServer is the server API for the coordinator service.
type CoordinatorServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Unregister(context.Context, *UnregisterRequest) (*Empty, error)
	PhaseComplete(context.Context, *PhaseCompleteRequest) (*Empty, error)
	RouteDocument(context.Context, *RouteDocumentRequest) (*RouteResponse, error)
	RouteNode(context.Context, *RouteNodeRequest) (*RouteResponse, error)
	GetGlobalDF(context.Context, *GlobalDFRequest) (*GlobalDFResponse, error)
	BarrierReady(context.Context, *BarrierReadyRequest) (*BarrierReadyResponse, error)
	CurrentTick(context.Context, *CurrentTickRequest) (*TickResponse, error)
	ListShards(context.Context, *ListShardsRequest) (*ListShardsResponse, error)
	StartTick(context.Context, *StartTickRequest) (*TickResponse, error)
	TickStatus(context.Context, *TickStatusRequest) (*TickStatusResponse, error)
	Heartbeat(context.Context, *HeartbeatRequest) (*HeartbeatResponse, error)
}

var CoordinatorServiceDesc = grpc.ServiceDesc{
	ServiceName: CoordinatorServiceName,
	HandlerType: (*CoordinatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CoordinatorServiceName, "Register", CoordinatorServiceServer.Register),
		unary(CoordinatorServiceName, "Unregister", CoordinatorServiceServer.Unregister),
		unary(CoordinatorServiceName, "PhaseComplete", CoordinatorServiceServer.PhaseComplete),
		unary(CoordinatorServiceName, "RouteDocument", CoordinatorServiceServer.RouteDocument),
		unary(CoordinatorServiceName, "RouteNode", CoordinatorServiceServer.RouteNode),
		unary(CoordinatorServiceName, "GetGlobalDF", CoordinatorServiceServer.GetGlobalDF),
		unary(CoordinatorServiceName, "BarrierReady", CoordinatorServiceServer.BarrierReady),
		unary(CoordinatorServiceName, "CurrentTick", CoordinatorServiceServer.CurrentTick),
		unary(CoordinatorServiceName, "ListShards", CoordinatorServiceServer.ListShards),
		unary(CoordinatorServiceName, "StartTick", CoordinatorServiceServer.StartTick),
		unary(CoordinatorServiceName, "TickStatus", CoordinatorServiceServer.TickStatus),
		unary(CoordinatorServiceName, "Heartbeat", CoordinatorServiceServer.Heartbeat),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "phago/coordinator/v1/coordinator.proto",
}

func RegisterCoordinatorServiceServer(s grpc.ServiceRegistrar, srv CoordinatorServiceServer) {
	s.RegisterService(&CoordinatorServiceDesc, srv)
}
