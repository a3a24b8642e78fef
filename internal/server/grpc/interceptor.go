package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/dmitrijs2005/loadout/internal/server/access"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.metrics.RequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	s.metrics.RequestDuration.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())

	s.logger.Info(ctx, "grpc call", "method", info.FullMethod, "code", code.String(), "duration", elapsed)
	return resp, err
}

func (s *GRPCServer) authenticationInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.policyFor(info.FullMethod).Public {
		return handler(ctx, req)
	}

	token := bearerToken(ctx)
	if token == "" {
		s.metrics.RecordDenial("authn")
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		s.metrics.RecordDenial("authn")
		return nil, s.toStatus(ctx, err)
	}

	return handler(access.WithPrincipal(ctx, user), req)
}

func (s *GRPCServer) accessInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	policy := s.policyFor(info.FullMethod)
	if policy.Public {
		return handler(ctx, req)
	}

	user := access.Principal(ctx)

	ok, err := access.HasRole(user, policy.Roles)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !ok {
		s.metrics.RecordDenial("role")
		s.logger.Warn(ctx, "access denied", "method", info.FullMethod, "check", "role", "user_id", user.ID)
		return nil, status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	}

	ok, err = access.HasAnyPermission(user, policy.Permissions)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if !ok {
		s.metrics.RecordDenial("permission")
		s.logger.Warn(ctx, "access denied", "method", info.FullMethod, "check", "permission", "user_id", user.ID)
		return nil, status.Error(codes.PermissionDenied, common.ErrorForbidden.Error())
	}

	return handler(ctx, req)
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	v := values[0]
	if len(v) < len(common.BearerPrefix) || !strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(common.BearerPrefix):])
}

// remoteIP prefers the first X-Forwarded-For hop, then the peer address.
func remoteIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(common.ForwardedForHeaderName); len(v) > 0 {
			first, _, _ := strings.Cut(v[0], ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}

func botToken(ctx context.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(common.BotTokenHeaderName); len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
