package handler

import (
	"net"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// ProbeService is the health service name reported alongside the overall status.
const ProbeService = "doclens-api"

// ProbeServer exposes grpc.health.v1.Health for orchestrator probes.
type ProbeServer struct {
	grpcServer *grpc.Server
	health     *health.Server
}

func NewProbeServer() *ProbeServer {
	grpcServer := grpc.NewServer(probeServerOptions()...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	p := &ProbeServer{grpcServer: grpcServer, health: healthServer}
	p.SetServing(false)
	return p
}

func (p *ProbeServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	p.health.SetServingStatus("", status)
	p.health.SetServingStatus(ProbeService, status)
}

// Serve blocks until lis fails or the server is stopped.
func (p *ProbeServer) Serve(lis net.Listener) error {
	logger.Info("Probe server listening", zap.String("addr", lis.Addr().String()))
	return p.grpcServer.Serve(lis)
}

// Stop reports NOT_SERVING and drains in-flight checks.
func (p *ProbeServer) Stop() {
	p.health.Shutdown()
	p.grpcServer.GracefulStop()
}

func probeServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     30 * time.Second,
			MaxConnectionAge:      5 * time.Minute,
			MaxConnectionAgeGrace: 10 * time.Second,
			Time:                  30 * time.Second,
			Timeout:               5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             10 * time.Second,
			PermitWithoutStream: true,
		}),
	}
}
