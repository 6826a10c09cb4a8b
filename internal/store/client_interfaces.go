package store

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// CatalogStore is the durable local photo catalog. Every write is atomic and
// publishes a fresh visible snapshot to all ObserveVisible subscribers.
type CatalogStore interface {
	// ObserveVisible streams the visible catalog (rows not marked for
	// deletion, newest first). The first value is the current snapshot;
	// later values follow every write. A slow reader only sees the latest
	// snapshot. The channel is closed when ctx is done.
	ObserveVisible(ctx context.Context) <-chan []models.PhotoRecord
	// ListVisible returns the visible catalog once.
	ListVisible(ctx context.Context) ([]models.PhotoRecord, error)
	// Upsert inserts rec or replaces the row with the same LocalKey.
	Upsert(ctx context.Context, rec models.PhotoRecord) error
	// UpsertBatch upserts all records in one transaction.
	UpsertBatch(ctx context.Context, recs []models.PhotoRecord) error
	// Find returns the row for localKey; ok is false when it does not exist.
	Find(ctx context.Context, localKey string) (rec models.PhotoRecord, ok bool, err error)
	// ListPending returns rows that still need a push, oldest first.
	ListPending(ctx context.Context) ([]models.PhotoRecord, error)
	// SetStatus updates only the sync state and last error of a row.
	SetStatus(ctx context.Context, localKey string, state models.SyncState, lastError *string) error
	// RecordAttempt increments the failed push attempt counter of a row.
	RecordAttempt(ctx context.Context, localKey string) error
	// Delete removes the row for localKey.
	Delete(ctx context.Context, localKey string) error
}

// ImageStorage owns the image bytes of locally created photos.
type ImageStorage interface {
	// Save persists image bytes and returns a file:// reference to them.
	Save(ctx context.Context, image []byte) (string, error)
	// Load reads the bytes behind a local reference.
	Load(ctx context.Context, ref string) ([]byte, error)
	// Remove deletes a local file; remote references are ignored.
	Remove(ctx context.Context, ref string) error
}

// SessionRepository persists the signed-in identity.
type SessionRepository interface {
	Save(ctx context.Context, identity string) error
	Current(ctx context.Context) (identity string, ok bool, err error)
	Clear(ctx context.Context) error
}
