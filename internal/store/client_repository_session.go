package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

const sessionTable = "session"

type sessionRepository struct {
	*DB
	logger *logger.Logger
}

// NewSessionRepository returns the SQLite-backed [SessionRepository]. The
// session table holds at most one row.
func NewSessionRepository(db *DB, log *logger.Logger) SessionRepository {
	return &sessionRepository{DB: db, logger: log}
}

func (r *sessionRepository) Save(ctx context.Context, identity string) error {
	query, args, err := psql.Insert(sessionTable).
		Columns("id", "identity", "signed_in").
		Values(1, identity, time.Now().UnixMilli()).
		Suffix("ON CONFLICT(id) DO UPDATE SET identity = excluded.identity, signed_in = excluded.signed_in").
		ToSql()
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.execContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "sessionRepository.Save").Msg("failed to save session")
		return localIO(ErrExecutingStatement, err)
	}

	return nil
}

func (r *sessionRepository) Current(ctx context.Context) (string, bool, error) {
	query, args, err := psql.Select("identity").From(sessionTable).Where(sq.Eq{"id": 1}).ToSql()
	if err != nil {
		return "", false, localIO(ErrBuildingSQLQuery, err)
	}

	var identity string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&identity)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Err(err).Str("func", "sessionRepository.Current").Msg("failed to read session")
		return "", false, localIO(ErrScanningRow, err)
	}

	return identity, identity != "", nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	query, args, err := psql.Delete(sessionTable).ToSql()
	if err != nil {
		return localIO(ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.execContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "sessionRepository.Clear").Msg("failed to clear session")
		return localIO(ErrExecutingStatement, err)
	}

	return nil
}
