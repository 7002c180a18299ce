package api

import (
	"context"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/dispatch"
	"github.com/aegis-sign/governance/internal/notify"
	"github.com/aegis-sign/governance/pkg/apierrors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ActionServiceName 是 gRPC 服务全名。
	ActionServiceName = "governance.v1.ActionService"
	sendFullMethod    = "/" + ActionServiceName + "/Send"
)

// ActionServiceServer 是 ActionService 的服务端接口，请求/响应均为 structpb.Struct：
// 请求 {space, action, app?, lang?, payload?}，响应 {ok, receipt}。
type ActionServiceServer interface {
	Send(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ActionServiceDesc 手工注册的服务描述。
var ActionServiceDesc = grpc.ServiceDesc{
	ServiceName: ActionServiceName,
	HandlerType: (*ActionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Send", Handler: sendHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "docs/proto/governance.proto",
}

func sendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ActionServiceServer).Send(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: sendFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ActionServiceServer).Send(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterActionServiceServer 把实现注册到 gRPC server。
func RegisterActionServiceServer(s grpc.ServiceRegistrar, srv ActionServiceServer) {
	s.RegisterService(&ActionServiceDesc, srv)
}

// ActionServiceClient 是 ActionService 的客户端。
type ActionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewActionServiceClient 构造客户端。
func NewActionServiceClient(cc grpc.ClientConnInterface) *ActionServiceClient {
	return &ActionServiceClient{cc: cc}
}

// Send 调用远端 Send。
func (c *ActionServiceClient) Send(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, sendFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GRPCServer 实现 ActionService。
type GRPCServer struct {
	sender Sender
}

// NewGRPCServer 构造 gRPC server。
func NewGRPCServer(sender Sender) *GRPCServer {
	if sender == nil {
		panic("dispatch sender is required")
	}
	return &GRPCServer{sender: sender}
}

// Send 解析请求并调用 dispatcher。
func (s *GRPCServer) Send(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	fields := req.GetFields()
	spaceID := fields["space"].GetStringValue()
	if spaceID == "" {
		return nil, status.Error(codes.InvalidArgument, "space is required")
	}
	tag := action.Tag(fields["action"].GetStringValue())
	payload := action.Payload{}
	if p := fields["payload"].GetStructValue(); p != nil {
		payload = action.Payload(p.AsMap())
	}
	ctx = dispatch.WithApp(ctx, fields["app"].GetStringValue())
	ctx = dispatch.WithLocale(ctx, notify.ResolveLocale(fields["lang"].GetStringValue()))

	value := s.sender.Send(ctx, action.Space{ID: spaceID}, tag, payload)
	receipt, apiErr := classify(ctx, tag, value)
	if apiErr != nil {
		return nil, status.Error(apierrors.GRPCStatus(apiErr.Code), apiErr.Error())
	}
	resp, err := structpb.NewStruct(map[string]any{
		"ok": true,
		"receipt": map[string]any{
			"id":      receipt.ID,
			"ipfs":    receipt.IPFS,
			"relayer": relayerOrEmpty(receipt.Relayer),
		},
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return resp, nil
}

func relayerOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
