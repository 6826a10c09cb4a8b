package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/models"
)

type clientMutationService struct {
	catalog  store.CatalogStore
	images   store.ImageStorage
	sessions store.SessionRepository
	keys     KeyGenerator
	logger   *logger.Logger

	now func() time.Time
}

func NewClientMutationService(
	catalog store.CatalogStore,
	images store.ImageStorage,
	sessions store.SessionRepository,
	keys KeyGenerator,
	log *logger.Logger,
) ClientMutationService {
	return &clientMutationService{
		catalog:  catalog,
		images:   images,
		sessions: sessions,
		keys:     keys,
		logger:   log,
		now:      time.Now,
	}
}

func (s *clientMutationService) Create(ctx context.Context, draft models.PhotoDraft) (models.PhotoRecord, error) {
	if len(draft.Image) == 0 {
		return models.PhotoRecord{}, ErrEmptyImage
	}

	ref, err := s.images.Save(ctx, draft.Image)
	if err != nil {
		return models.PhotoRecord{}, fmt.Errorf("save image: %w", err)
	}

	now := s.now().UTC()
	rec := models.PhotoRecord{
		LocalKey:        s.keys.Generate(),
		OwnerIdentity:   s.owner(ctx),
		Title:           draft.Title,
		Description:     draft.Description,
		LocalContentRef: ref,
		SyncState:       models.PendingCreate,
		CreatedAt:       now,
		ModifiedAt:      now,
	}

	if err = s.catalog.Upsert(ctx, rec); err != nil {
		s.discard(ctx, ref)
		return models.PhotoRecord{}, fmt.Errorf("insert photo: %w", err)
	}

	s.logger.Debug().Str("func", "clientMutationService.Create").
		Str("local_key", rec.LocalKey).Msg("photo created locally")

	return rec, nil
}

func (s *clientMutationService) Edit(ctx context.Context, localKey, title, description string, image []byte) error {
	rec, ok, err := s.catalog.Find(ctx, localKey)
	if err != nil {
		return fmt.Errorf("find photo %s: %w", localKey, err)
	}
	if !ok || rec.PendingDelete {
		s.logger.Debug().Str("func", "clientMutationService.Edit").
			Str("local_key", localKey).Bool("found", ok).Msg("nothing to edit")
		return nil
	}

	oldRef := rec.LocalContentRef
	if len(image) > 0 {
		ref, err := s.images.Save(ctx, image)
		if err != nil {
			return fmt.Errorf("save image: %w", err)
		}
		rec.LocalContentRef = ref
	}

	rec.Title = title
	rec.Description = description
	rec.LastError = nil
	rec.Attempts = 0
	rec.ModifiedAt = s.now().UTC()
	if rec.RemoteKey != nil {
		rec.SyncState = models.PendingUpdate
	} else {
		rec.SyncState = models.PendingCreate
	}

	if err = s.catalog.Upsert(ctx, rec); err != nil {
		if rec.LocalContentRef != oldRef {
			s.discard(ctx, rec.LocalContentRef)
		}
		return fmt.Errorf("update photo %s: %w", localKey, err)
	}

	if rec.LocalContentRef != oldRef {
		s.discard(ctx, oldRef)
	}

	return nil
}

func (s *clientMutationService) Delete(ctx context.Context, localKey string) error {
	rec, ok, err := s.catalog.Find(ctx, localKey)
	if err != nil {
		return fmt.Errorf("find photo %s: %w", localKey, err)
	}
	if !ok {
		return nil
	}

	if rec.RemoteKey == nil {
		if err = s.catalog.Delete(ctx, localKey); err != nil {
			return fmt.Errorf("delete photo %s: %w", localKey, err)
		}
		s.discard(ctx, rec.LocalContentRef)
		return nil
	}

	rec.PendingDelete = true
	rec.SyncState = models.PendingDelete
	rec.ModifiedAt = s.now().UTC()

	if err = s.catalog.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("mark photo %s deleted: %w", localKey, err)
	}
	return nil
}

func (s *clientMutationService) owner(ctx context.Context) *string {
	identity, ok, err := s.sessions.Current(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "clientMutationService.owner").Msg("error reading session")
		return nil
	}
	if !ok || isBlank(identity) {
		return nil
	}
	return &identity
}

// discard removes an image that no row references any more. Remote URLs
// are ignored by the storage.
func (s *clientMutationService) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Remove(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("func", "clientMutationService.discard").
			Str("ref", ref).Msg("error removing image")
	}
}
