package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

const defaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.Sync on a
// ticker. The job is idle until Start is called.
func NewClientSyncJob(syncService ClientSyncService, log *logger.Logger) ClientSyncJob {
	return &clientSyncJob{syncService: syncService, logger: log}
}

// Start implements ClientSyncJob. On every tick the identity is resolved
// anew, so signing in or out takes effect without restarting the job; a
// blank identity skips the tick.
func (j *clientSyncJob) Start(ctx context.Context, identity IdentityFunc, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx, identity)
			}
		}
	}()
}

func (j *clientSyncJob) tick(ctx context.Context, identity IdentityFunc) {
	id := identity(ctx)
	if isBlank(id) {
		return
	}

	report, err := j.syncService.Sync(ctx, id)
	if err != nil {
		j.logger.Warn().Err(err).Str("func", "clientSyncJob.tick").Msg("background sync finished with errors")
		return
	}
	j.logger.Debug().Str("func", "clientSyncJob.tick").Stringer("report", report).Msg("background sync finished")
}

// Stop implements ClientSyncJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
