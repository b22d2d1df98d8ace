// Package grpc exposes the backend services over the veil.v1.VeilService
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/veil/internal/logging"
	pb "github.com/dmitrijs2005/veil/internal/proto"
	"github.com/dmitrijs2005/veil/internal/server/models"
	"github.com/dmitrijs2005/veil/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	SignUp(ctx context.Context, email, password string) (*services.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
}

type transactionSvc interface {
	Insert(ctx context.Context, userID string, t *models.Transaction) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, userID string, id int64, status string) (*models.Transaction, error)
}

type GRPCServer struct {
	pb.UnimplementedVeilServiceServer
	address      string
	users        userSvc
	transactions transactionSvc
	logger       logging.Logger
	jwtSecret    []byte
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ts transactionSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		users:        us,
		transactions: ts,
		jwtSecret:    []byte(secretKey),
	}
}

// NewServer builds the *grpc.Server with the access-token interceptor and
// the service registered. Run uses it; tests serve it over bufconn.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterVeilServiceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
