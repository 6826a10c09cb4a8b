// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/metrics"
	"github.com/MKhiriev/go-photo-sync/internal/notify"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/telemetry"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/internal/workers"
	"github.com/MKhiriev/go-photo-sync/models"
)

// App is the composition root of the client. Everything it opens is
// released by Close, in reverse construction order.
type App struct {
	cfg  *config.ClientConfig
	info models.AppBuildInfo
	log  *logger.Logger

	storages  *store.ClientStorages
	remote    adapter.RemoteCatalog
	metrics   *metrics.Metrics
	telemetry *telemetry.Telemetry
	publisher notify.Publisher

	Services *service.ClientServices
}

// NewApp opens storage and connects the optional tracing and event
// backends. On error everything opened so far is closed again.
func NewApp(ctx context.Context, cfg *config.ClientConfig, info models.AppBuildInfo, log *logger.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, info: info, log: log, metrics: metrics.New()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.storages, err = store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	a.remote, err = adapter.NewHTTPRemoteCatalog(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	a.telemetry, err = telemetry.Init(ctx, cfg.Telemetry, info.BuildVersion(), log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	a.publisher, err = notify.New(cfg.Events, log)
	if err != nil {
		return nil, fmt.Errorf("connect event broker: %w", err)
	}

	a.Services = service.NewClientServices(a.storages, a.remote, utils.NewUUIDGenerator(), service.SyncOptions{
		RetryBudget: cfg.Sync.RetryBudget,
		Metrics:     a.metrics,
		Publisher:   a.publisher,
		Tracer:      telemetry.Tracer(),
	}, log)

	return a, nil
}

// Identity returns the signed-in identity or an auth error when there is
// none.
func (a *App) Identity(ctx context.Context) (string, error) {
	identity, ok, err := a.Services.SessionService.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return "", app.NewError(app.KindAuth, app.MsgNoIdentity, nil)
	}
	return identity, nil
}

// Workers assembles the background workers enabled by the configuration.
// The sync worker always runs; the inbox watcher and the metrics server
// only when their settings are present.
func (a *App) Workers() *workers.Workers {
	list := []workers.Worker{
		workers.NewSyncWorker(
			a.Services.SyncService,
			a.Services.SyncJob,
			a.Services.SessionService.Identity,
			a.cfg.Workers.SyncInterval,
			a.log,
		),
	}

	if a.cfg.Workers.InboxDir != "" {
		list = append(list, workers.NewInboxWatcher(
			a.cfg.Workers.InboxDir,
			a.cfg.Workers.InboxPattern,
			a.Services.MutationService,
			a.log,
		))
	}

	if a.cfg.Workers.MetricsAddress != "" {
		list = append(list, workers.NewMetricsServer(a.cfg.Workers.MetricsAddress, a.metrics, a.info, a.log))
	}

	return workers.NewWorkers(a.log, list...)
}

// Close flushes spans, drains the broker connection and closes the
// catalog database.
func (a *App) Close() error {
	var errs []error

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := a.telemetry.Shutdown(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("shutdown telemetry: %w", err))
	}
	if err := a.storages.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}

	return errors.Join(errs...)
}
