package delivery_grpc

import (
	"fmt"
	"log/slog"
	"net"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/infrastructure/logger"
)

// Server exposes grpc.health.v1 for orchestrators. Service status is
// driven by HealthMonitor.
type Server struct {
	health  *health.Server
	server  *grpc.Server
	address string
	port    int
	log     *logger.Logger
	metrics ports.MetricsProvider
}

func NewServer(healthServer *health.Server, address string, port int, log *logger.Logger, metrics ports.MetricsProvider) *Server {
	s := &Server{
		health:  healthServer,
		address: address,
		port:    port,
		log:     log,
		metrics: metrics,
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			UnaryLoggerInterceptor(log),
			UnaryMetricsInterceptor(metrics),
			grpc_recovery.UnaryServerInterceptor(grpc_recovery.WithRecoveryHandler(func(p any) error {
				log.Error("Recovered from panic in gRPC handler", slog.Any("panic", p))
				return status.Error(codes.Internal, "internal error")
			})),
		)),
	)
	healthpb.RegisterHealthServer(s.server, healthServer)
	return s
}

func (s *Server) Run() error {
	address := fmt.Sprintf("%s:%d", s.address, s.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen: %v", err)
	}

	s.log.Info("Starting gRPC server", slog.Int("port", s.port))
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *Server) Shutdown() error {
	s.health.Shutdown()
	s.server.GracefulStop()
	return nil
}
