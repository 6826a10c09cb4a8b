package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/mock"
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestClientCatalogService_Get(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.PhotoRecord
		ok       bool
		findErr  error
		wantKind app.Kind
		wantErr  bool
	}{
		{name: "visible", rec: models.PhotoRecord{LocalKey: "a", Title: "Cat"}, ok: true},
		{name: "missing", ok: false, wantErr: true, wantKind: app.KindNotFound},
		{name: "tombstoned", rec: models.PhotoRecord{LocalKey: "a", PendingDelete: true}, ok: true, wantErr: true, wantKind: app.KindNotFound},
		{name: "store error", findErr: errors.New("locked"), wantErr: true, wantKind: app.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			catalog := mock.NewMockCatalogStore(ctrl)
			catalog.EXPECT().Find(gomock.Any(), "a").Return(tt.rec, tt.ok, tt.findErr)

			rec, err := NewClientCatalogService(catalog).Get(context.Background(), "a")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, app.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rec, rec)
		})
	}
}

func TestClientCatalogService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mock.NewMockCatalogStore(ctrl)
	svc := NewClientCatalogService(catalog)

	catalog.EXPECT().ListVisible(gomock.Any()).Return([]models.PhotoRecord{{LocalKey: "a"}}, nil)
	recs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	catalog.EXPECT().ListVisible(gomock.Any()).Return(nil, errors.New("closed"))
	_, err = svc.List(context.Background())
	assert.ErrorContains(t, err, "list photos")
}

func TestClientCatalogService_Observe(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mock.NewMockCatalogStore(ctrl)

	ch := make(chan []models.PhotoRecord, 1)
	ch <- []models.PhotoRecord{{LocalKey: "a"}}
	catalog.EXPECT().ObserveVisible(gomock.Any()).Return((<-chan []models.PhotoRecord)(ch))

	got := NewClientCatalogService(catalog).Observe(context.Background())
	assert.Equal(t, []models.PhotoRecord{{LocalKey: "a"}}, <-got)
}
