package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/migrations"
)

const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// DB is the single-connection SQLite handle shared by every client
// repository.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate brings the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}

// execContext runs a write statement, retrying while the database is locked
// by another process. The wait grows linearly and stops with ctx.
func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := db.DB.ExecContext(ctx, query, args...)
	for attempt := 1; err != nil && attempt <= busyRetries && db.retryable(err); attempt++ {
		db.logger.Warn().Err(err).Str("func", "DB.execContext").
			Int("attempt", attempt).Msg("database is locked, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * busyBackoff):
		}

		res, err = db.DB.ExecContext(ctx, query, args...)
	}
	return res, err
}

func (db *DB) retryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}
