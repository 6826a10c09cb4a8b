package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
)

// SyncWorker runs one sync on start and then keeps the periodic sync job
// running until the context is done.
type SyncWorker struct {
	sync     service.ClientSyncService
	job      service.ClientSyncJob
	identity service.IdentityFunc
	interval time.Duration
	logger   *logger.Logger
}

func NewSyncWorker(
	sync service.ClientSyncService,
	job service.ClientSyncJob,
	identity service.IdentityFunc,
	interval time.Duration,
	log *logger.Logger,
) *SyncWorker {
	return &SyncWorker{sync: sync, job: job, identity: identity, interval: interval, logger: log}
}

func (w *SyncWorker) Name() string { return "sync" }

func (w *SyncWorker) Run(ctx context.Context) error {
	if id := w.identity(ctx); id != "" {
		report, err := w.sync.Sync(ctx, id)
		if err != nil {
			w.logger.Warn().Err(err).Str("func", "SyncWorker.Run").Msg("initial sync finished with errors")
		} else {
			w.logger.Info().Str("func", "SyncWorker.Run").Stringer("report", report).Msg("initial sync finished")
		}
	}

	w.job.Start(ctx, w.identity, w.interval)
	<-ctx.Done()
	w.job.Stop()

	return nil
}
