package delivery_grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	ports "feed-service/internal/domain/ports/output"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "feed.v1.FeedService"

// Probe reports whether one dependency is usable.
type Probe func(ctx context.Context) error

// HealthMonitor polls the probes and publishes the combined result on the
// health server and the service health gauge. Any failing probe makes the
// whole service NOT_SERVING.
type HealthMonitor struct {
	server   *health.Server
	probes   map[string]Probe
	interval time.Duration
	timeout  time.Duration
	log      ports.Logger
	metrics  ports.MetricsProvider
}

func NewHealthMonitor(server *health.Server, probes map[string]Probe, interval time.Duration, log ports.Logger, metrics ports.MetricsProvider) *HealthMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthMonitor{
		server:   server,
		probes:   probes,
		interval: interval,
		timeout:  interval / 2,
		log:      log,
		metrics:  metrics,
	}
}

// Run checks once immediately and then on every tick until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.set(false)
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check runs every probe once and returns whether all passed.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	healthy := true
	for name, probe := range m.probes {
		probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := probe(probeCtx)
		cancel()
		if err != nil {
			healthy = false
			m.log.Warn("Health probe failed", slog.String("dependency", name), slog.String("error", err.Error()))
		}
	}
	m.set(healthy)
	return healthy
}

func (m *HealthMonitor) set(healthy bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		status = healthpb.HealthCheckResponse_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
	m.metrics.SetServiceHealth(healthy)
}
