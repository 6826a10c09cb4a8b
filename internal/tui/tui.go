// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal gallery viewer. It renders the visible
// catalog as it changes and lets the user sync, delete and copy image
// references.
package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services *service.ClientServices
	info     models.AppBuildInfo
}

func New(services *service.ClientServices, info models.AppBuildInfo) *TUI {
	return &TUI{services: services, info: info}
}

// Run blocks until the user quits or ctx is done.
func (t *TUI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := newGalleryModel(ctx, t.services, t.info)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("gallery viewer: %w", err)
	}
	return nil
}
