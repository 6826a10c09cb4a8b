package service

import (
	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
)

type ClientServices struct {
	CatalogService  ClientCatalogService
	MutationService ClientMutationService
	SyncService     ClientSyncService
	SessionService  ClientSessionService
	SyncJob         ClientSyncJob
	Notices         *NoticeBoard
}

func NewClientServices(
	storages *store.ClientStorages,
	remote adapter.RemoteCatalog,
	keys KeyGenerator,
	opts SyncOptions,
	log *logger.Logger,
) *ClientServices {
	if opts.Notices == nil {
		opts.Notices = NewNoticeBoard()
	}

	syncSvc := NewClientSyncService(storages.Catalog, storages.Images, remote, opts, log)

	return &ClientServices{
		CatalogService: NewClientCatalogService(storages.Catalog),
		MutationService: NewMutationValidationService(
			NewClientMutationService(storages.Catalog, storages.Images, storages.Sessions, keys, log),
		),
		SyncService:    syncSvc,
		SessionService: NewClientSessionService(storages.Sessions, syncSvc, log),
		SyncJob:        NewClientSyncJob(syncSvc, log),
		Notices:        opts.Notices,
	}
}
