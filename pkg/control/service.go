package control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// RoleSchemaServiceName is the fully qualified gRPC service name
const RoleSchemaServiceName = "hsu.roles.v1.RoleSchemaService"

// RoleSchemaServer is the server API for the role schema service.
// Messages are protobuf well-known types: role records travel as Struct
// values shaped like the JSON representation.
type RoleSchemaServer interface {
	Status(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetRoot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetRole(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetChildren(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetDocument(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RoleSchemaClient is the client API for the role schema service
type RoleSchemaClient interface {
	Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetRoot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRole(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetChildren(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetDocument(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

func fullMethod(name string) string {
	return "/" + RoleSchemaServiceName + "/" + name
}

func unaryMethod[Req, Resp proto.Message](
	name string,
	newRequest func() Req,
	call func(RoleSchemaServer, context.Context, Req) (Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := newRequest()
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(RoleSchemaServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(server, ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newEmpty() *emptypb.Empty { return &emptypb.Empty{} }

func newStringValue() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }

// RoleSchemaServiceDesc describes the role schema service for grpc.Server
var RoleSchemaServiceDesc = grpc.ServiceDesc{
	ServiceName: RoleSchemaServiceName,
	HandlerType: (*RoleSchemaServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Status", newEmpty, RoleSchemaServer.Status),
		unaryMethod("GetRoot", newEmpty, RoleSchemaServer.GetRoot),
		unaryMethod("GetRole", newStringValue, RoleSchemaServer.GetRole),
		unaryMethod("GetChildren", newStringValue, RoleSchemaServer.GetChildren),
		unaryMethod("GetDocument", newEmpty, RoleSchemaServer.GetDocument),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hsu/roles/v1/role_schema.proto",
}

// RegisterRoleSchemaServer attaches srv to a gRPC server
func RegisterRoleSchemaServer(registrar grpc.ServiceRegistrar, srv RoleSchemaServer) {
	registrar.RegisterService(&RoleSchemaServiceDesc, srv)
}

// NewRoleSchemaClient wraps a client connection
func NewRoleSchemaClient(cc grpc.ClientConnInterface) RoleSchemaClient {
	return &roleSchemaClient{cc: cc}
}

type roleSchemaClient struct {
	cc grpc.ClientConnInterface
}

func (c *roleSchemaClient) Status(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, fullMethod("Status"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roleSchemaClient) GetRoot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetRoot"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roleSchemaClient) GetRole(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetRole"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roleSchemaClient) GetChildren(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("GetChildren"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *roleSchemaClient) GetDocument(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetDocument"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
