package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
	logger  *logger.Logger
}

func NewWorkers(log *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: log}
}

// Run starts every worker and waits for all of them. The first failing
// worker cancels the others, and its error is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, worker := range w.workers {
		worker := worker
		g.Go(func() error {
			w.logger.Info().Str("func", "Workers.Run").Str("worker", worker.Name()).Msg("worker started")
			if err := worker.Run(ctx); err != nil {
				return fmt.Errorf("worker %s: %w", worker.Name(), err)
			}
			w.logger.Info().Str("func", "Workers.Run").Str("worker", worker.Name()).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
