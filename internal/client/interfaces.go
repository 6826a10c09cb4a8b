// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-photo-sync/internal/service"
)

// Viewer is the interactive front end started by the ui command.
type Viewer interface {
	// Run blocks until the user quits or ctx is done.
	Run(ctx context.Context) error
}

// ViewerFactory builds the viewer over the wired services.
type ViewerFactory func(services *service.ClientServices) Viewer
