package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

// ClientStorages groups all client-side storage into a single value owned by
// the application root. It is constructed once with [NewClientStorages] and
// released with Close; nothing else opens the database.
type ClientStorages struct {
	// Catalog is the SQLite-backed photo catalog.
	Catalog CatalogStore
	// Images holds the bytes of locally created photos.
	Images ImageStorage
	// Sessions holds the signed-in identity.
	Sessions SessionRepository

	db *DB
}

// NewClientStorages initialises the client storage layer:
//  1. opens the SQLite catalog at cfg.DB.DSN, creating the file if needed;
//  2. runs pending schema migrations;
//  3. prepares the photo directory.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	images, err := NewFileImageStorage(cfg.Photos, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image storage error: %w", err)
	}

	return &ClientStorages{
		Catalog:  NewCatalogRepository(db, log),
		Images:   images,
		Sessions: NewSessionRepository(db, log),
		db:       db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
