package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/models"
)

type clientCatalogService struct {
	catalog store.CatalogStore
}

func NewClientCatalogService(catalog store.CatalogStore) ClientCatalogService {
	return &clientCatalogService{catalog: catalog}
}

func (s *clientCatalogService) Observe(ctx context.Context) <-chan []models.PhotoRecord {
	return s.catalog.ObserveVisible(ctx)
}

func (s *clientCatalogService) List(ctx context.Context) ([]models.PhotoRecord, error) {
	recs, err := s.catalog.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return recs, nil
}

func (s *clientCatalogService) Get(ctx context.Context, localKey string) (models.PhotoRecord, error) {
	rec, ok, err := s.catalog.Find(ctx, localKey)
	if err != nil {
		return models.PhotoRecord{}, fmt.Errorf("find photo %s: %w", localKey, err)
	}
	if !ok || rec.PendingDelete {
		return models.PhotoRecord{}, app.NewError(app.KindNotFound, app.MsgRecordNotFound, nil)
	}
	return rec, nil
}
