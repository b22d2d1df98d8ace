package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "veil.v1.VeilService"

const (
	VeilService_Ping_FullMethodName                    = "/veil.v1.VeilService/Ping"
	VeilService_SignUp_FullMethodName                  = "/veil.v1.VeilService/SignUp"
	VeilService_SignIn_FullMethodName                  = "/veil.v1.VeilService/SignIn"
	VeilService_RefreshToken_FullMethodName            = "/veil.v1.VeilService/RefreshToken"
	VeilService_GetUser_FullMethodName                 = "/veil.v1.VeilService/GetUser"
	VeilService_SignOut_FullMethodName                 = "/veil.v1.VeilService/SignOut"
	VeilService_InsertTransaction_FullMethodName       = "/veil.v1.VeilService/InsertTransaction"
	VeilService_ListTransactions_FullMethodName        = "/veil.v1.VeilService/ListTransactions"
	VeilService_UpdateTransactionStatus_FullMethodName = "/veil.v1.VeilService/UpdateTransactionStatus"
)

// VeilServiceClient is the client API for veil.v1.VeilService.
type VeilServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SignUp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SignOut(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	InsertTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListTransactions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateTransactionStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type veilServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVeilServiceClient(cc grpc.ClientConnInterface) VeilServiceClient {
	return &veilServiceClient{cc: cc}
}

func (c *veilServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *veilServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_Ping_FullMethodName, in, opts...)
}

func (c *veilServiceClient) SignUp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_SignUp_FullMethodName, in, opts...)
}

func (c *veilServiceClient) SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_SignIn_FullMethodName, in, opts...)
}

func (c *veilServiceClient) RefreshToken(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_RefreshToken_FullMethodName, in, opts...)
}

func (c *veilServiceClient) GetUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_GetUser_FullMethodName, in, opts...)
}

func (c *veilServiceClient) SignOut(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_SignOut_FullMethodName, in, opts...)
}

func (c *veilServiceClient) InsertTransaction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_InsertTransaction_FullMethodName, in, opts...)
}

func (c *veilServiceClient) ListTransactions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_ListTransactions_FullMethodName, in, opts...)
}

func (c *veilServiceClient) UpdateTransactionStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VeilService_UpdateTransactionStatus_FullMethodName, in, opts...)
}

// VeilServiceServer is the server API for veil.v1.VeilService.
type VeilServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InsertTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTransactionStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedVeilServiceServer answers every method with codes.Unimplemented.
// Embed it to stay forward compatible with new methods.
type UnimplementedVeilServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedVeilServiceServer) Ping(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("Ping")
}
func (UnimplementedVeilServiceServer) SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SignUp")
}
func (UnimplementedVeilServiceServer) SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SignIn")
}
func (UnimplementedVeilServiceServer) RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedVeilServiceServer) GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("GetUser")
}
func (UnimplementedVeilServiceServer) SignOut(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("SignOut")
}
func (UnimplementedVeilServiceServer) InsertTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("InsertTransaction")
}
func (UnimplementedVeilServiceServer) ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("ListTransactions")
}
func (UnimplementedVeilServiceServer) UpdateTransactionStatus(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented("UpdateTransactionStatus")
}

func RegisterVeilServiceServer(s grpc.ServiceRegistrar, srv VeilServiceServer) {
	s.RegisterService(&VeilService_ServiceDesc, srv)
}

type unaryCall func(VeilServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VeilServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VeilServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VeilService_ServiceDesc is the grpc.ServiceDesc for veil.v1.VeilService.
var VeilService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VeilServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(VeilService_Ping_FullMethodName, VeilServiceServer.Ping)},
		{MethodName: "SignUp", Handler: unaryHandler(VeilService_SignUp_FullMethodName, VeilServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unaryHandler(VeilService_SignIn_FullMethodName, VeilServiceServer.SignIn)},
		{MethodName: "RefreshToken", Handler: unaryHandler(VeilService_RefreshToken_FullMethodName, VeilServiceServer.RefreshToken)},
		{MethodName: "GetUser", Handler: unaryHandler(VeilService_GetUser_FullMethodName, VeilServiceServer.GetUser)},
		{MethodName: "SignOut", Handler: unaryHandler(VeilService_SignOut_FullMethodName, VeilServiceServer.SignOut)},
		{MethodName: "InsertTransaction", Handler: unaryHandler(VeilService_InsertTransaction_FullMethodName, VeilServiceServer.InsertTransaction)},
		{MethodName: "ListTransactions", Handler: unaryHandler(VeilService_ListTransactions_FullMethodName, VeilServiceServer.ListTransactions)},
		{MethodName: "UpdateTransactionStatus", Handler: unaryHandler(VeilService_UpdateTransactionStatus_FullMethodName, VeilServiceServer.UpdateTransactionStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "veil/v1/veil.proto",
}
