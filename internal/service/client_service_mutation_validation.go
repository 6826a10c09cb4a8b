package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
)

// MutationValidationService rejects malformed drafts and edits before they
// reach the catalog.
type MutationValidationService struct {
	inner     ClientMutationService
	validator validators.Validator
}

func NewMutationValidationService(inner ClientMutationService) ClientMutationService {
	return &MutationValidationService{
		inner:     inner,
		validator: validators.NewPhotoValidator(),
	}
}

func (v *MutationValidationService) Create(ctx context.Context, draft models.PhotoDraft) (models.PhotoRecord, error) {
	if err := v.validator.Validate(ctx, draft); err != nil {
		return models.PhotoRecord{}, fmt.Errorf("error during photo validation before saving: %w", err)
	}

	return v.inner.Create(ctx, draft)
}

func (v *MutationValidationService) Edit(ctx context.Context, localKey, title, description string, image []byte) error {
	edit := models.PhotoEdit{LocalKey: localKey, Title: title, Description: description, Image: image}
	if err := v.validator.Validate(ctx, edit); err != nil {
		return fmt.Errorf("error during photo validation before editing: %w", err)
	}

	return v.inner.Edit(ctx, localKey, title, description, image)
}

func (v *MutationValidationService) Delete(ctx context.Context, localKey string) error {
	if err := v.validator.Validate(ctx, models.PhotoEdit{LocalKey: localKey}, validators.FieldLocalKey); err != nil {
		return fmt.Errorf("error during photo validation before deleting: %w", err)
	}

	return v.inner.Delete(ctx, localKey)
}
