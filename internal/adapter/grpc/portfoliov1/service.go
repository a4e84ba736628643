package portfoliov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "portfolio.v1.PortfolioService"

const (
	PortfolioService_ListTracked_FullMethodName         = "/portfolio.v1.PortfolioService/ListTracked"
	PortfolioService_UpdateAll_FullMethodName           = "/portfolio.v1.PortfolioService/UpdateAll"
	PortfolioService_UpdateSome_FullMethodName          = "/portfolio.v1.PortfolioService/UpdateSome"
	PortfolioService_AddStock_FullMethodName            = "/portfolio.v1.PortfolioService/AddStock"
	PortfolioService_SetPosition_FullMethodName         = "/portfolio.v1.PortfolioService/SetPosition"
	PortfolioService_GetPortfolioSummary_FullMethodName = "/portfolio.v1.PortfolioService/GetPortfolioSummary"
	PortfolioService_CreateSnapshot_FullMethodName      = "/portfolio.v1.PortfolioService/CreateSnapshot"
	PortfolioService_ListSnapshots_FullMethodName       = "/portfolio.v1.PortfolioService/ListSnapshots"
	PortfolioService_HealthCheck_FullMethodName         = "/portfolio.v1.PortfolioService/HealthCheck"
)

// PortfolioServiceServer is the server API for PortfolioService.
type PortfolioServiceServer interface {
	ListTracked(context.Context, *ListTrackedRequest) (*ListTrackedResponse, error)
	UpdateAll(context.Context, *UpdateAllRequest) (*UpdateResponse, error)
	UpdateSome(context.Context, *UpdateSomeRequest) (*UpdateResponse, error)
	AddStock(context.Context, *AddStockRequest) (*AddStockResponse, error)
	SetPosition(context.Context, *SetPositionRequest) (*SetPositionResponse, error)
	GetPortfolioSummary(context.Context, *GetPortfolioSummaryRequest) (*GetPortfolioSummaryResponse, error)
	CreateSnapshot(context.Context, *CreateSnapshotRequest) (*CreateSnapshotResponse, error)
	ListSnapshots(context.Context, *ListSnapshotsRequest) (*ListSnapshotsResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// UnimplementedPortfolioServiceServer should be embedded for forward compatibility.
type UnimplementedPortfolioServiceServer struct{}

func (UnimplementedPortfolioServiceServer) ListTracked(context.Context, *ListTrackedRequest) (*ListTrackedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTracked not implemented")
}
func (UnimplementedPortfolioServiceServer) UpdateAll(context.Context, *UpdateAllRequest) (*UpdateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAll not implemented")
}
func (UnimplementedPortfolioServiceServer) UpdateSome(context.Context, *UpdateSomeRequest) (*UpdateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateSome not implemented")
}
func (UnimplementedPortfolioServiceServer) AddStock(context.Context, *AddStockRequest) (*AddStockResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddStock not implemented")
}
func (UnimplementedPortfolioServiceServer) SetPosition(context.Context, *SetPositionRequest) (*SetPositionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPosition not implemented")
}
func (UnimplementedPortfolioServiceServer) GetPortfolioSummary(context.Context, *GetPortfolioSummaryRequest) (*GetPortfolioSummaryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPortfolioSummary not implemented")
}
func (UnimplementedPortfolioServiceServer) CreateSnapshot(context.Context, *CreateSnapshotRequest) (*CreateSnapshotResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSnapshot not implemented")
}
func (UnimplementedPortfolioServiceServer) ListSnapshots(context.Context, *ListSnapshotsRequest) (*ListSnapshotsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSnapshots not implemented")
}
func (UnimplementedPortfolioServiceServer) HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method HealthCheck not implemented")
}

// RegisterPortfolioServiceServer registers srv on s.
func RegisterPortfolioServiceServer(s grpc.ServiceRegistrar, srv PortfolioServiceServer) {
	s.RegisterService(&PortfolioService_ServiceDesc, srv)
}

// unary builds the method handler for one RPC.
func unary[Req, Resp any](fullMethod string, call func(PortfolioServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PortfolioServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PortfolioServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PortfolioService_ServiceDesc is the grpc.ServiceDesc for PortfolioService.
var PortfolioService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PortfolioServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListTracked", Handler: unary(PortfolioService_ListTracked_FullMethodName, PortfolioServiceServer.ListTracked)},
		{MethodName: "UpdateAll", Handler: unary(PortfolioService_UpdateAll_FullMethodName, PortfolioServiceServer.UpdateAll)},
		{MethodName: "UpdateSome", Handler: unary(PortfolioService_UpdateSome_FullMethodName, PortfolioServiceServer.UpdateSome)},
		{MethodName: "AddStock", Handler: unary(PortfolioService_AddStock_FullMethodName, PortfolioServiceServer.AddStock)},
		{MethodName: "SetPosition", Handler: unary(PortfolioService_SetPosition_FullMethodName, PortfolioServiceServer.SetPosition)},
		{MethodName: "GetPortfolioSummary", Handler: unary(PortfolioService_GetPortfolioSummary_FullMethodName, PortfolioServiceServer.GetPortfolioSummary)},
		{MethodName: "CreateSnapshot", Handler: unary(PortfolioService_CreateSnapshot_FullMethodName, PortfolioServiceServer.CreateSnapshot)},
		{MethodName: "ListSnapshots", Handler: unary(PortfolioService_ListSnapshots_FullMethodName, PortfolioServiceServer.ListSnapshots)},
		{MethodName: "HealthCheck", Handler: unary(PortfolioService_HealthCheck_FullMethodName, PortfolioServiceServer.HealthCheck)},
	},
	Streams: []grpc.StreamDesc{},
}

// PortfolioServiceClient is the client API for PortfolioService.
type PortfolioServiceClient interface {
	ListTracked(ctx context.Context, in *ListTrackedRequest, opts ...grpc.CallOption) (*ListTrackedResponse, error)
	UpdateAll(ctx context.Context, in *UpdateAllRequest, opts ...grpc.CallOption) (*UpdateResponse, error)
	UpdateSome(ctx context.Context, in *UpdateSomeRequest, opts ...grpc.CallOption) (*UpdateResponse, error)
	AddStock(ctx context.Context, in *AddStockRequest, opts ...grpc.CallOption) (*AddStockResponse, error)
	SetPosition(ctx context.Context, in *SetPositionRequest, opts ...grpc.CallOption) (*SetPositionResponse, error)
	GetPortfolioSummary(ctx context.Context, in *GetPortfolioSummaryRequest, opts ...grpc.CallOption) (*GetPortfolioSummaryResponse, error)
	CreateSnapshot(ctx context.Context, in *CreateSnapshotRequest, opts ...grpc.CallOption) (*CreateSnapshotResponse, error)
	ListSnapshots(ctx context.Context, in *ListSnapshotsRequest, opts ...grpc.CallOption) (*ListSnapshotsResponse, error)
	HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error)
}

type portfolioServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPortfolioServiceClient returns a client whose calls use the JSON codec.
func NewPortfolioServiceClient(cc grpc.ClientConnInterface) PortfolioServiceClient {
	return &portfolioServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *portfolioServiceClient) ListTracked(ctx context.Context, in *ListTrackedRequest, opts ...grpc.CallOption) (*ListTrackedResponse, error) {
	return invoke[ListTrackedResponse](ctx, c.cc, PortfolioService_ListTracked_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) UpdateAll(ctx context.Context, in *UpdateAllRequest, opts ...grpc.CallOption) (*UpdateResponse, error) {
	return invoke[UpdateResponse](ctx, c.cc, PortfolioService_UpdateAll_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) UpdateSome(ctx context.Context, in *UpdateSomeRequest, opts ...grpc.CallOption) (*UpdateResponse, error) {
	return invoke[UpdateResponse](ctx, c.cc, PortfolioService_UpdateSome_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) AddStock(ctx context.Context, in *AddStockRequest, opts ...grpc.CallOption) (*AddStockResponse, error) {
	return invoke[AddStockResponse](ctx, c.cc, PortfolioService_AddStock_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) SetPosition(ctx context.Context, in *SetPositionRequest, opts ...grpc.CallOption) (*SetPositionResponse, error) {
	return invoke[SetPositionResponse](ctx, c.cc, PortfolioService_SetPosition_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) GetPortfolioSummary(ctx context.Context, in *GetPortfolioSummaryRequest, opts ...grpc.CallOption) (*GetPortfolioSummaryResponse, error) {
	return invoke[GetPortfolioSummaryResponse](ctx, c.cc, PortfolioService_GetPortfolioSummary_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) CreateSnapshot(ctx context.Context, in *CreateSnapshotRequest, opts ...grpc.CallOption) (*CreateSnapshotResponse, error) {
	return invoke[CreateSnapshotResponse](ctx, c.cc, PortfolioService_CreateSnapshot_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) ListSnapshots(ctx context.Context, in *ListSnapshotsRequest, opts ...grpc.CallOption) (*ListSnapshotsResponse, error) {
	return invoke[ListSnapshotsResponse](ctx, c.cc, PortfolioService_ListSnapshots_FullMethodName, in, opts)
}

func (c *portfolioServiceClient) HealthCheck(ctx context.Context, in *HealthCheckRequest, opts ...grpc.CallOption) (*HealthCheckResponse, error) {
	return invoke[HealthCheckResponse](ctx, c.cc, PortfolioService_HealthCheck_FullMethodName, in, opts)
}
