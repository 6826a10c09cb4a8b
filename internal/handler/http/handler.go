package http

import (
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/metrics"
	"github.com/MKhiriev/go-photo-sync/models"
)

type Handler struct {
	metrics *metrics.Metrics
	info    models.AppBuildInfo

	logger *logger.Logger
}

func NewHandler(m *metrics.Metrics, info models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Debug().Msg("http handler created")
	return &Handler{
		metrics: m,
		info:    info,
		logger:  logger,
	}
}
