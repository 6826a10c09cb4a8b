package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestPhotoValidator_Draft(t *testing.T) {
	v := NewPhotoValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{name: "valid value", obj: models.PhotoDraft{Title: "Cat", Image: []byte("img")}},
		{name: "valid pointer", obj: &models.PhotoDraft{Title: "Кот", Image: []byte("img")}},
		{name: "empty image", obj: models.PhotoDraft{Title: "Cat"}, wantErr: ErrEmptyImage},
		{name: "image too large", obj: models.PhotoDraft{Image: make([]byte, MaxImageSize+1)}, wantErr: ErrImageTooLarge},
		{name: "control char in title", obj: models.PhotoDraft{Title: "a\x00b", Image: []byte("img")}, wantErr: ErrInvalidTitle},
		{name: "invalid utf8 description", obj: models.PhotoDraft{Description: "\xff", Image: []byte("img")}, wantErr: ErrInvalidTitle},
		{name: "only title checked", obj: models.PhotoDraft{Title: "Cat"}, fields: []string{FieldTitle}},
		{name: "unknown field", obj: models.PhotoDraft{}, fields: []string{"owner"}, wantErr: ErrUnknownField},
		{name: "local key is not a draft field", obj: models.PhotoDraft{}, fields: []string{FieldLocalKey}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPhotoValidator_Edit(t *testing.T) {
	v := NewPhotoValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{name: "without image", obj: models.PhotoEdit{LocalKey: "a", Title: "new"}},
		{name: "with image", obj: &models.PhotoEdit{LocalKey: "a", Image: []byte("img")}},
		{name: "blank key", obj: models.PhotoEdit{LocalKey: "  "}, wantErr: ErrEmptyLocalKey},
		{name: "key only", obj: models.PhotoEdit{LocalKey: "a", Title: "\x07"}, fields: []string{FieldLocalKey}},
		{name: "bad title", obj: models.PhotoEdit{LocalKey: "a", Title: "\x07"}, wantErr: ErrInvalidTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPhotoValidator_Remote(t *testing.T) {
	v := NewPhotoValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, models.RemotePhoto{ID: "1"}))
	assert.ErrorIs(t, v.Validate(ctx, &models.RemotePhoto{ID: models.RemoteID(strings.Repeat(" ", 3))}), ErrEmptyRemoteID)
	assert.ErrorIs(t, v.Validate(ctx, models.RemotePhoto{ID: "1"}, FieldImage), ErrUnknownField)
}

func TestPhotoValidator_UnsupportedType(t *testing.T) {
	v := NewPhotoValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), "photo"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(context.Background(), models.PhotoRecord{}), ErrUnsupportedType)
}
