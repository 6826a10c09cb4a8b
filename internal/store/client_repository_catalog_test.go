package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := NewConnectSQLite(ctx, config.ClientDB{DSN: filepath.Join(t.TempDir(), "catalog.db")}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestCatalog(t *testing.T) CatalogStore {
	t.Helper()
	return NewCatalogRepository(newTestDB(t), logger.Nop())
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func photo(key string, state models.SyncState, createdOffset time.Duration) models.PhotoRecord {
	return models.PhotoRecord{
		LocalKey:        key,
		Title:           "title " + key,
		Description:     "desc " + key,
		LocalContentRef: "file:///photos/" + key + ".jpg",
		SyncState:       state,
		CreatedAt:       baseTime.Add(createdOffset),
		ModifiedAt:      baseTime.Add(createdOffset),
	}
}

func keys(recs []models.PhotoRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.LocalKey)
	}
	return out
}

func receive(t *testing.T, ch <-chan []models.PhotoRecord) []models.PhotoRecord {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

// ── Upsert / Find ─────────────────────────────────────────────────────────────

func TestCatalog_UpsertAndFind_RoundTrip(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	rec := photo("a", models.PendingUpdate, 0)
	rec.RemoteKey = models.StringPtr("17")
	rec.OwnerIdentity = models.StringPtr("ann@example.com")
	rec.RemoteContentRef = models.StringPtr("https://cdn.example/17.jpg")
	rec.LastError = models.StringPtr("boom")
	rec.Attempts = 2

	require.NoError(t, catalog.Upsert(ctx, rec))

	got, ok, err := catalog.Find(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestCatalog_Find_Missing(t *testing.T) {
	_, ok, err := newTestCatalog(t).Find(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_Upsert_ReplacesWholeRow(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	first := photo("a", models.Failed, 0)
	first.LastError = models.StringPtr("old error")
	require.NoError(t, catalog.Upsert(ctx, first))

	second := photo("a", models.Synced, 0)
	second.Title = "renamed"
	require.NoError(t, catalog.Upsert(ctx, second))

	got, ok, err := catalog.Find(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, models.Synced, got.SyncState)
	assert.Nil(t, got.LastError)
}

func TestCatalog_Upsert_RejectsEmptyKey(t *testing.T) {
	err := newTestCatalog(t).Upsert(context.Background(), models.PhotoRecord{})
	assert.ErrorIs(t, err, ErrInvalidRecord)
	assert.ErrorIs(t, err, app.ErrLocalIO)
}

// ── UpsertBatch ───────────────────────────────────────────────────────────────

func TestCatalog_UpsertBatch_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	err := catalog.UpsertBatch(ctx, []models.PhotoRecord{
		photo("remote-1", models.Synced, 0),
		{}, // invalid, aborts the transaction
	})
	require.Error(t, err)

	visible, err := catalog.ListVisible(ctx)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestCatalog_UpsertBatch_Idempotent(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)
	batch := []models.PhotoRecord{
		photo("remote-1", models.Synced, time.Minute),
		photo("remote-2", models.Synced, 2*time.Minute),
	}

	require.NoError(t, catalog.UpsertBatch(ctx, batch))
	require.NoError(t, catalog.UpsertBatch(ctx, batch))

	visible, err := catalog.ListVisible(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"remote-2", "remote-1"}, keys(visible))
}

func TestCatalog_UpsertBatch_Empty(t *testing.T) {
	assert.NoError(t, newTestCatalog(t).UpsertBatch(context.Background(), nil))
}

// ── ListVisible / ListPending ─────────────────────────────────────────────────

func TestCatalog_ListVisible_OrderAndTombstones(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	tomb := photo("c", models.PendingDelete, 3*time.Minute)
	tomb.PendingDelete = true
	require.NoError(t, catalog.UpsertBatch(ctx, []models.PhotoRecord{
		photo("a", models.Synced, time.Minute),
		photo("b", models.PendingCreate, 2*time.Minute),
		tomb,
		photo("z", models.Synced, time.Minute), // same createdAt as "a"
	}))

	visible, err := catalog.ListVisible(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "z", "a"}, keys(visible))
}

func TestCatalog_ListPending(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	tomb := photo("d", models.PendingDelete, 4*time.Minute)
	tomb.PendingDelete = true
	require.NoError(t, catalog.UpsertBatch(ctx, []models.PhotoRecord{
		photo("synced", models.Synced, 0),
		photo("c", models.Failed, 3*time.Minute),
		photo("a", models.PendingCreate, time.Minute),
		photo("b", models.PendingUpdate, 2*time.Minute),
		tomb,
	}))

	pending, err := catalog.ListPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys(pending))
}

// ── SetStatus / RecordAttempt / Delete ────────────────────────────────────────

func TestCatalog_SetStatus_TouchesOnlyStateAndError(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)

	rec := photo("a", models.PendingCreate, 0)
	rec.Attempts = 3
	require.NoError(t, catalog.Upsert(ctx, rec))

	require.NoError(t, catalog.SetStatus(ctx, "a", models.Failed, models.StringPtr("nope")))
	got, _, err := catalog.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.Failed, got.SyncState)
	assert.Equal(t, "nope", *got.LastError)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, 3, got.Attempts)

	require.NoError(t, catalog.SetStatus(ctx, "a", models.Synced, nil))
	got, _, err = catalog.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.Synced, got.SyncState)
	assert.Nil(t, got.LastError)
	assert.Zero(t, got.Attempts)
}

func TestCatalog_SetStatus_MissingRowIsNoOp(t *testing.T) {
	assert.NoError(t, newTestCatalog(t).SetStatus(context.Background(), "ghost", models.Synced, nil))
}

func TestCatalog_RecordAttempt(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Upsert(ctx, photo("a", models.Failed, 0)))

	require.NoError(t, catalog.RecordAttempt(ctx, "a"))
	require.NoError(t, catalog.RecordAttempt(ctx, "a"))

	got, _, err := catalog.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
}

func TestCatalog_Delete(t *testing.T) {
	ctx := context.Background()
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Upsert(ctx, photo("a", models.Synced, 0)))

	require.NoError(t, catalog.Delete(ctx, "a"))
	require.NoError(t, catalog.Delete(ctx, "a"))

	_, ok, err := catalog.Find(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

// ── ObserveVisible ────────────────────────────────────────────────────────────

func TestCatalog_ObserveVisible_InitialAndAfterWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Upsert(ctx, photo("a", models.Synced, 0)))

	ch := catalog.ObserveVisible(ctx)
	assert.Equal(t, []string{"a"}, keys(receive(t, ch)))

	require.NoError(t, catalog.Upsert(ctx, photo("b", models.PendingCreate, time.Minute)))
	assert.Equal(t, []string{"b", "a"}, keys(receive(t, ch)))

	tomb := photo("a", models.PendingDelete, 0)
	tomb.PendingDelete = true
	require.NoError(t, catalog.Upsert(ctx, tomb))
	assert.Equal(t, []string{"b"}, keys(receive(t, ch)))
}

func TestCatalog_ObserveVisible_SlowSubscriberGetsLatest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := newTestCatalog(t)

	ch := catalog.ObserveVisible(ctx)
	// nobody reads while three writes land
	for i, k := range []string{"a", "b", "c"} {
		require.NoError(t, catalog.Upsert(ctx, photo(k, models.PendingCreate, time.Duration(i)*time.Minute)))
	}

	assert.Equal(t, []string{"c", "b", "a"}, keys(receive(t, ch)))
	select {
	case snap := <-ch:
		t.Fatalf("unexpected extra snapshot %v", keys(snap))
	default:
	}
}

func TestCatalog_ObserveVisible_IndependentSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := newTestCatalog(t)

	first := catalog.ObserveVisible(ctx)
	second := catalog.ObserveVisible(ctx)
	assert.Empty(t, receive(t, first))
	assert.Empty(t, receive(t, second))

	require.NoError(t, catalog.Upsert(ctx, photo("a", models.Synced, 0)))
	assert.Equal(t, []string{"a"}, keys(receive(t, first)))
	assert.Equal(t, []string{"a"}, keys(receive(t, second)))
}

func TestCatalog_ObserveVisible_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	catalog := newTestCatalog(t)

	ch := catalog.ObserveVisible(ctx)
	receive(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	// writes after unsubscribe must not block or panic
	require.NoError(t, catalog.Upsert(context.Background(), photo("a", models.Synced, 0)))
}

func TestCatalog_ObserveVisible_ConcurrentWriters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := newTestCatalog(t)
	ch := catalog.ObserveVisible(ctx)
	receive(t, ch)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := string(rune('a' + i))
			assert.NoError(t, catalog.Upsert(ctx, photo(k, models.PendingCreate, time.Duration(i)*time.Second)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, receive(t, ch), 20)
}

// ── SQL failures (sqlmock) ────────────────────────────────────────────────────

func newMockCatalog(t *testing.T) (CatalogStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCatalogRepository(&DB{DB: db, logger: logger.Nop()}, logger.Nop()), mock
}

func TestCatalog_ListPending_QueryError(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectQuery("SELECT .* FROM photos").WillReturnError(errors.New("disk I/O error"))

	_, err := catalog.ListPending(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.Equal(t, app.KindLocalIO, app.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_UpsertBatch_CommitError(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO photos").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	err := catalog.UpsertBatch(context.Background(), []models.PhotoRecord{photo("a", models.Synced, 0)})
	assert.ErrorIs(t, err, ErrCommitingTransaction)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_UpsertBatch_ExecErrorRollsBack(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO photos").WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := catalog.UpsertBatch(context.Background(), []models.PhotoRecord{photo("a", models.Synced, 0)})
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_SetStatus_ExecError(t *testing.T) {
	catalog, mock := newMockCatalog(t)
	mock.ExpectExec("UPDATE photos SET sync_state").
		WithArgs("failed", "boom", "a").
		WillReturnError(errors.New("readonly database"))

	err := catalog.SetStatus(context.Background(), "a", models.Failed, models.StringPtr("boom"))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}
