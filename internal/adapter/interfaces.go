// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client of the gallery backend REST API.
//
// The primary abstraction is [RemoteCatalog], which decouples the sync engine
// from the wire protocol. The package ships an HTTP implementation
// ([NewHTTPRemoteCatalog]) built on resty.
//
// Every failure is classified into the closed kinds of package app so that
// callers can use [errors.Is] against app.ErrTransport, app.ErrAuth and
// app.ErrRemoteRejection. A mutation the backend refused with a readable
// {status, message} body is not an error: it is returned as a
// [models.OpStatus] whose Succeeded reports false.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_catalog_mock.go -package=mock

// RemoteCatalog is the gallery backend. Each call is a single round-trip
// without retries; identity is sent as the Authorization header value.
type RemoteCatalog interface {
	// List returns every photo the backend holds for identity.
	List(ctx context.Context, identity string) ([]models.RemotePhoto, error)

	// Create uploads a new photo.
	Create(ctx context.Context, identity string, draft models.PhotoDraft) (models.OpStatus, error)

	// Update changes an uploaded photo. Omitted fields keep their server
	// value.
	Update(ctx context.Context, identity string, update models.PhotoUpdate) (models.OpStatus, error)

	// Delete removes the photo with remoteKey.
	Delete(ctx context.Context, identity string, remoteKey string) (models.OpStatus, error)
}
