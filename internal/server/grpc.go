package server

import (
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer registers the Analyzer and health services on a new grpc.Server.
// The overall health status starts as SERVING. Reflection is registered only when the
// Analyzer descriptor is, so grpcurl can both list and describe the service.
func NewGRPCServer(svc AnalyzerServer, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(opts...)
	RegisterAnalyzerServer(grpcServer, svc)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if err := registerDescriptor(); err != nil {
		slog.Warn("grpc.reflection.disabled", "error", err)
	} else {
		reflection.Register(grpcServer)
	}
	return grpcServer, healthServer
}
