package grpc

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/dashboard"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
)

// HealthServer reports the backend collections through the standard gRPC
// health service, one service name per collection.
type HealthServer struct {
	Health           *health.Server
	RateLimiterStore *dashboard.RateLimiterStore
}

var allCollections = append(append([]gateway.Collection{}, gateway.CoreCollections...), gateway.CollectionCncTimeLogs)

func NewHealthServer(limiters *dashboard.RateLimiterStore) *HealthServer {
	h := health.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, c := range allCollections {
		h.SetServingStatus(string(c), healthpb.HealthCheckResponse_UNKNOWN)
	}
	return &HealthServer{Health: h, RateLimiterStore: limiters}
}

// Observe applies the collection outcomes of a settled cycle. Collections
// that failed for other reasons keep their last status.
func (hs *HealthServer) Observe(s dashboard.Snapshot) {
	for c, st := range s.Collections {
		switch st {
		case dashboard.CollectionOK:
			hs.Health.SetServingStatus(string(c), healthpb.HealthCheckResponse_SERVING)
		case dashboard.CollectionMissing:
			hs.Health.SetServingStatus(string(c), healthpb.HealthCheckResponse_NOT_SERVING)
		}
	}
}

func (hs *HealthServer) CheckLimiter(peer, method string) bool {
	if hs.RateLimiterStore == nil {
		return true
	}
	return hs.RateLimiterStore.Allow(peer, method)
}

// NewServer builds a gRPC server with the health service registered behind
// the logging and rate limit interceptors.
func (hs *HealthServer) NewServer(limitedMethods []string) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		CreateLoggingInterceptor(),
		hs.CreateRateLimitInterceptor(limitedMethods),
	))
	healthpb.RegisterHealthServer(s, hs.Health)

	common.GetLoggerWith(common.LoggerNameGrpcServer).Info("gRPC health service registered",
		zap.Int("collections", len(allCollections)),
		zap.Strings("limited_methods", limitedMethods))
	return s
}

// Shutdown marks every service as not serving.
func (hs *HealthServer) Shutdown() {
	hs.Health.Shutdown()
}
