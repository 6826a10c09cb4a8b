package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

type catalogRepository struct {
	*DB
	hub    *snapshotHub
	logger *logger.Logger
}

// NewCatalogRepository returns the SQLite-backed [CatalogStore].
func NewCatalogRepository(db *DB, log *logger.Logger) CatalogStore {
	r := &catalogRepository{
		DB:     db,
		logger: log,
	}
	r.hub = newSnapshotHub(r.ListVisible, func(err error) {
		log.Err(err).Str("func", "catalogRepository.publish").Msg("failed to load visible snapshot")
	})
	return r
}

func (r *catalogRepository) ObserveVisible(ctx context.Context) <-chan []models.PhotoRecord {
	return r.hub.subscribe(ctx)
}

func (r *catalogRepository) ListVisible(ctx context.Context) ([]models.PhotoRecord, error) {
	query, args, err := buildListVisible()
	if err != nil {
		return nil, localIO(ErrBuildingSQLQuery, err)
	}

	return r.queryPhotos(ctx, "catalogRepository.ListVisible", query, args)
}

func (r *catalogRepository) ListPending(ctx context.Context) ([]models.PhotoRecord, error) {
	query, args, err := buildListPending()
	if err != nil {
		return nil, localIO(ErrBuildingSQLQuery, err)
	}

	return r.queryPhotos(ctx, "catalogRepository.ListPending", query, args)
}

func (r *catalogRepository) queryPhotos(ctx context.Context, fn, query string, args []any) ([]models.PhotoRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", fn).Msg("failed to execute query for photos")
		return nil, localIO(ErrExecutingQuery, err)
	}
	defer rows.Close()

	photos := make([]models.PhotoRecord, 0)
	for rows.Next() {
		rec, scanErr := scanPhoto(rows)
		if scanErr != nil {
			r.logger.Err(scanErr).Str("func", fn).Msg("failed to scan photo row")
			return nil, localIO(ErrScanningRow, scanErr)
		}
		photos = append(photos, rec)
	}

	if err = rows.Err(); err != nil {
		r.logger.Err(err).Str("func", fn).Msg("error iterating photo rows")
		return nil, localIO(ErrExecutingQuery, err)
	}

	return photos, nil
}

func (r *catalogRepository) Find(ctx context.Context, localKey string) (models.PhotoRecord, bool, error) {
	query, args, err := buildFindPhoto(localKey)
	if err != nil {
		return models.PhotoRecord{}, false, localIO(ErrBuildingSQLQuery, err)
	}

	rec, err := scanPhoto(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.PhotoRecord{}, false, nil
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "catalogRepository.Find").
			Str("local_key", localKey).
			Msg("failed to read photo row")
		return models.PhotoRecord{}, false, localIO(ErrScanningRow, err)
	}

	return rec, true, nil
}

func (r *catalogRepository) Upsert(ctx context.Context, rec models.PhotoRecord) error {
	if rec.LocalKey == "" {
		return localIO(ErrInvalidRecord, nil)
	}

	query, args, err := buildUpsertPhoto(rec)
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.execContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "catalogRepository.Upsert").
			Str("local_key", rec.LocalKey).
			Msg("failed to upsert photo")
		return localIO(ErrExecutingStatement, err)
	}

	r.hub.publish()
	return nil
}

func (r *catalogRepository) UpsertBatch(ctx context.Context, recs []models.PhotoRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).Str("func", "catalogRepository.UpsertBatch").Msg("failed to begin transaction")
		return localIO(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if rec.LocalKey == "" {
			return localIO(ErrInvalidRecord, nil)
		}

		query, args, buildErr := buildUpsertPhoto(rec)
		if buildErr != nil {
			return localIO(ErrBuildingSQLQuery, buildErr)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Err(err).
				Str("func", "catalogRepository.UpsertBatch").
				Str("local_key", rec.LocalKey).
				Msg("failed to upsert photo in batch")
			return localIO(ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Err(err).Str("func", "catalogRepository.UpsertBatch").Msg("failed to commit transaction")
		return localIO(ErrCommitingTransaction, err)
	}

	r.logger.Debug().
		Str("func", "catalogRepository.UpsertBatch").
		Int("count", len(recs)).
		Msg("photos upserted")
	r.hub.publish()
	return nil
}

func (r *catalogRepository) SetStatus(ctx context.Context, localKey string, state models.SyncState, lastError *string) error {
	query, args, err := buildSetStatus(localKey, state, lastError)
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "catalogRepository.SetStatus", localKey, query, args)
}

func (r *catalogRepository) RecordAttempt(ctx context.Context, localKey string) error {
	query, args, err := buildRecordAttempt(localKey)
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "catalogRepository.RecordAttempt", localKey, query, args)
}

func (r *catalogRepository) Delete(ctx context.Context, localKey string) error {
	query, args, err := buildDeletePhoto(localKey)
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	return r.exec(ctx, "catalogRepository.Delete", localKey, query, args)
}

// exec runs a single-row statement. A statement that matches no row is not
// an error; nothing is published in that case.
func (r *catalogRepository) exec(ctx context.Context, fn, localKey, query string, args []any) error {
	res, err := r.DB.execContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", fn).Str("local_key", localKey).Msg("failed to execute statement")
		return localIO(ErrExecutingStatement, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	r.hub.publish()
	return nil
}
