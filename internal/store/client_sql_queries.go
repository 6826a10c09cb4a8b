package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-photo-sync/models"
)

const photosTable = "photos"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// photoColumns is the column order used by every SELECT and INSERT.
var photoColumns = []string{
	"local_key",
	"remote_key",
	"owner_identity",
	"title",
	"description",
	"local_content_ref",
	"remote_content_ref",
	"sync_state",
	"pending_delete",
	"created_at",
	"modified_at",
	"last_error",
	"attempts",
}

const upsertPhotoSuffix = `ON CONFLICT(local_key) DO UPDATE SET
	remote_key = excluded.remote_key,
	owner_identity = excluded.owner_identity,
	title = excluded.title,
	description = excluded.description,
	local_content_ref = excluded.local_content_ref,
	remote_content_ref = excluded.remote_content_ref,
	sync_state = excluded.sync_state,
	pending_delete = excluded.pending_delete,
	created_at = excluded.created_at,
	modified_at = excluded.modified_at,
	last_error = excluded.last_error,
	attempts = excluded.attempts`

func buildUpsertPhoto(rec models.PhotoRecord) (string, []any, error) {
	return psql.Insert(photosTable).
		Columns(photoColumns...).
		Values(
			rec.LocalKey,
			rec.RemoteKey,
			rec.OwnerIdentity,
			rec.Title,
			rec.Description,
			rec.LocalContentRef,
			rec.RemoteContentRef,
			string(rec.SyncState),
			rec.PendingDelete,
			toMillis(rec.CreatedAt),
			toMillis(rec.ModifiedAt),
			rec.LastError,
			rec.Attempts,
		).
		Suffix(upsertPhotoSuffix).
		ToSql()
}

func buildListVisible() (string, []any, error) {
	return psql.Select(photoColumns...).
		From(photosTable).
		Where(sq.Eq{"pending_delete": false}).
		OrderBy("created_at DESC", "local_key DESC").
		ToSql()
}

func buildListPending() (string, []any, error) {
	return psql.Select(photoColumns...).
		From(photosTable).
		Where(sq.Or{
			sq.NotEq{"sync_state": string(models.Synced)},
			sq.Eq{"pending_delete": true},
		}).
		OrderBy("created_at ASC", "local_key ASC").
		ToSql()
}

func buildFindPhoto(localKey string) (string, []any, error) {
	return psql.Select(photoColumns...).
		From(photosTable).
		Where(sq.Eq{"local_key": localKey}).
		ToSql()
}

func buildSetStatus(localKey string, state models.SyncState, lastError *string) (string, []any, error) {
	q := psql.Update(photosTable).
		Set("sync_state", string(state)).
		Set("last_error", lastError)
	if state == models.Synced {
		q = q.Set("attempts", 0)
	}
	return q.Where(sq.Eq{"local_key": localKey}).ToSql()
}

func buildRecordAttempt(localKey string) (string, []any, error) {
	return psql.Update(photosTable).
		Set("attempts", sq.Expr("attempts + 1")).
		Where(sq.Eq{"local_key": localKey}).
		ToSql()
}

func buildDeletePhoto(localKey string) (string, []any, error) {
	return psql.Delete(photosTable).
		Where(sq.Eq{"local_key": localKey}).
		ToSql()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (models.PhotoRecord, error) {
	var (
		rec                                           models.PhotoRecord
		remoteKey, owner, remoteContentRef, lastError sql.NullString
		createdAt, modifiedAt                         int64
	)

	err := row.Scan(
		&rec.LocalKey,
		&remoteKey,
		&owner,
		&rec.Title,
		&rec.Description,
		&rec.LocalContentRef,
		&remoteContentRef,
		&rec.SyncState,
		&rec.PendingDelete,
		&createdAt,
		&modifiedAt,
		&lastError,
		&rec.Attempts,
	)
	if err != nil {
		return models.PhotoRecord{}, err
	}

	rec.RemoteKey = fromNull(remoteKey)
	rec.OwnerIdentity = fromNull(owner)
	rec.RemoteContentRef = fromNull(remoteContentRef)
	rec.LastError = fromNull(lastError)
	rec.CreatedAt = fromMillis(createdAt)
	rec.ModifiedAt = fromMillis(modifiedAt)

	return rec, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
