package store

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/app"
)

// Low-level database operation errors. Repository methods wrap them (inside
// an [app.KindLocalIO] error) when a SQL-level operation fails before any
// domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query with
	// squirrel fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing an INSERT, UPDATE
	// or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a catalog row fails.
	ErrScanningRow = errors.New("failed to scan photo row")

	// ErrInvalidRecord is returned when a record without a local key is
	// written.
	ErrInvalidRecord = errors.New("photo record has no local key")
)

// localIO classifies a storage failure so upper layers can branch on
// [app.KindLocalIO] while errors.Is still matches the store sentinel.
func localIO(sentinel, err error) error {
	if err == nil {
		return app.NewError(app.KindLocalIO, "", sentinel)
	}
	return app.NewError(app.KindLocalIO, "", fmt.Errorf("%w: %w", sentinel, err))
}
