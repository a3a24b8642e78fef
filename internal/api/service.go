package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "loadout.auth.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	MethodSignUp          = "/" + ServiceName + "/SignUp"
	MethodLogin           = "/" + ServiceName + "/Login"
	MethodRefresh         = "/" + ServiceName + "/Refresh"
	MethodLogout          = "/" + ServiceName + "/Logout"
	MethodIssueTokens     = "/" + ServiceName + "/IssueTokens"
	MethodLogoutAll       = "/" + ServiceName + "/LogoutAll"
	MethodWhoAmI          = "/" + ServiceName + "/WhoAmI"
	MethodGetUser         = "/" + ServiceName + "/GetUser"
	MethodGrantPermission = "/" + ServiceName + "/GrantPermission"
)

// AuthServiceServer is implemented by the transport layer.
type AuthServiceServer interface {
	SignUp(context.Context, *SignUpRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenPairResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	IssueTokens(context.Context, *Empty) (*TokenPairResponse, error)
	LogoutAll(context.Context, *Empty) (*LogoutAllResponse, error)
	WhoAmI(context.Context, *Empty) (*UserResponse, error)
	GetUser(context.Context, *GetUserRequest) (*UserResponse, error)
	GrantPermission(context.Context, *GrantPermissionRequest) (*Empty, error)
}

func unaryHandler[Req, Resp any](method string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceDesc describes the service for grpc.Server.RegisterService.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unaryHandler(MethodSignUp, AuthServiceServer.SignUp)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, AuthServiceServer.Login)},
		{MethodName: "Refresh", Handler: unaryHandler(MethodRefresh, AuthServiceServer.Refresh)},
		{MethodName: "Logout", Handler: unaryHandler(MethodLogout, AuthServiceServer.Logout)},
		{MethodName: "IssueTokens", Handler: unaryHandler(MethodIssueTokens, AuthServiceServer.IssueTokens)},
		{MethodName: "LogoutAll", Handler: unaryHandler(MethodLogoutAll, AuthServiceServer.LogoutAll)},
		{MethodName: "WhoAmI", Handler: unaryHandler(MethodWhoAmI, AuthServiceServer.WhoAmI)},
		{MethodName: "GetUser", Handler: unaryHandler(MethodGetUser, AuthServiceServer.GetUser)},
		{MethodName: "GrantPermission", Handler: unaryHandler(MethodGrantPermission, AuthServiceServer.GrantPermission)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "loadout/auth/v1",
}

// RegisterAuthServiceServer registers srv on s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}
