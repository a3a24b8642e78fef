// Package grpc exposes the auth service over gRPC and applies authentication
// and access checks per method.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/loadout/internal/api"
	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/dmitrijs2005/loadout/internal/server/models"
	"github.com/dmitrijs2005/loadout/internal/server/observability"
	"github.com/dmitrijs2005/loadout/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// AuthService is the business logic the transport calls into.
type AuthService interface {
	SignUp(ctx context.Context, req services.SignUpRequest) (string, error)
	Login(ctx context.Context, req services.LoginRequest) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	IssueTokenPair(ctx context.Context, user *models.User) (*services.TokenPair, error)
	LogoutAll(ctx context.Context, user *models.User) (int64, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GrantPermission(ctx context.Context, userID, permission string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type GRPCServer struct {
	address  string
	auth     AuthService
	logger   logging.Logger
	metrics  *observability.Metrics
	policies map[string]Policy
	health   *health.Server
}

func NewGRPCServer(address string, l logging.Logger, svc AuthService, m *observability.Metrics) *GRPCServer {
	return &GRPCServer{
		address:  address,
		auth:     svc,
		logger:   l.With("module", "grpc_server"),
		metrics:  m,
		policies: DefaultPolicies(),
		health:   health.NewServer(),
	}
}

// NewServer builds a grpc.Server with the interceptor chain and the auth and
// health services registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.authenticationInterceptor,
		s.accessInterceptor,
	))
	srv := grpc.NewServer(opts...)

	api.RegisterAuthServiceServer(srv, &handler{s: s})
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		s.health.Shutdown()

		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
