package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Server exposes the standard gRPC health service so orchestrators can probe
// the notification service without going through HTTP.
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

func NewServer(logger *zap.Logger) *Server {
	s := &Server{
		health: health.NewServer(),
		logger: logger,
	}
	s.server = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))

	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.SetServing(false)
	return s
}

// SetServing flips the overall health status reported to probes.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *Server) Run(port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", zap.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info("gRPC server stopped")
}

func (s *Server) logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	l := s.logger.With(
		zap.String("rpc_method", info.FullMethod),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		l.Warn("RPC failed", zap.Stringer("code", status.Code(err)), zap.Error(err))
	} else {
		l.Debug("RPC handled")
	}
	return resp, err
}
