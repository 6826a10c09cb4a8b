package workers

import (
	"context"

	httphandler "github.com/MKhiriev/go-photo-sync/internal/handler/http"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/metrics"
	"github.com/MKhiriev/go-photo-sync/internal/server"
	"github.com/MKhiriev/go-photo-sync/models"
)

// MetricsServer exposes /metrics, /healthz and /version over HTTP for as
// long as the workers run.
type MetricsServer struct {
	server *server.HTTPServer
}

func NewMetricsServer(address string, m *metrics.Metrics, info models.AppBuildInfo, log *logger.Logger) *MetricsServer {
	handler := httphandler.NewHandler(m, info, log)
	return &MetricsServer{server: server.NewHTTPServer(address, handler.Init(), log)}
}

func (s *MetricsServer) Name() string { return "metrics" }

func (s *MetricsServer) Run(ctx context.Context) error {
	return s.server.Run(ctx)
}
