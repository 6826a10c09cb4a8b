package validators

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MKhiriev/go-photo-sync/models"
)

const (
	// FieldLocalKey targets the catalog primary key.
	FieldLocalKey = "local_key"
	// FieldTitle targets the user-visible title.
	FieldTitle = "title"
	// FieldDescription targets the free-text description.
	FieldDescription = "description"
	// FieldImage targets the image bytes of a draft.
	FieldImage = "image"
	// FieldRemoteID targets the backend identifier of a pulled photo.
	FieldRemoteID = "remote_id"
)

// MaxImageSize bounds the bytes accepted for a single photo.
const MaxImageSize = 50 << 20

// PhotoValidator validates photo drafts, edits and pulled photos.
type PhotoValidator struct{}

func NewPhotoValidator() Validator {
	return &PhotoValidator{}
}

// Validate accepts models.PhotoDraft, models.PhotoEdit and
// models.RemotePhoto, by value or by pointer.
func (v *PhotoValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.PhotoDraft:
		return v.validateDraft(value, fields...)
	case *models.PhotoDraft:
		return v.validateDraft(*value, fields...)

	case models.PhotoEdit:
		return v.validateEdit(value, fields...)
	case *models.PhotoEdit:
		return v.validateEdit(*value, fields...)

	case models.RemotePhoto:
		return v.validateRemote(value, fields...)
	case *models.RemotePhoto:
		return v.validateRemote(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *PhotoValidator) validateDraft(draft models.PhotoDraft, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldDescription, FieldImage}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if !validTitle(draft.Title) {
				return ErrInvalidTitle
			}
		case FieldDescription:
			if !utf8.ValidString(draft.Description) {
				return ErrInvalidTitle
			}
		case FieldImage:
			if err := validImage(draft.Image, true); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *PhotoValidator) validateEdit(edit models.PhotoEdit, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLocalKey, FieldTitle, FieldDescription, FieldImage}
	}

	for _, f := range fields {
		switch f {
		case FieldLocalKey:
			if strings.TrimSpace(edit.LocalKey) == "" {
				return ErrEmptyLocalKey
			}
		case FieldTitle:
			if !validTitle(edit.Title) {
				return ErrInvalidTitle
			}
		case FieldDescription:
			if !utf8.ValidString(edit.Description) {
				return ErrInvalidTitle
			}
		case FieldImage:
			// an edit without image keeps the current one
			if err := validImage(edit.Image, false); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *PhotoValidator) validateRemote(photo models.RemotePhoto, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRemoteID}
	}

	for _, f := range fields {
		switch f {
		case FieldRemoteID:
			if strings.TrimSpace(string(photo.ID)) == "" {
				return ErrEmptyRemoteID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validTitle(title string) bool {
	if !utf8.ValidString(title) {
		return false
	}
	for _, r := range title {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func validImage(image []byte, required bool) error {
	if len(image) == 0 {
		if required {
			return ErrEmptyImage
		}
		return nil
	}
	if len(image) > MaxImageSize {
		return ErrImageTooLarge
	}
	return nil
}
