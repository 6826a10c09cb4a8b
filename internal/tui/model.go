// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	noticePollInterval = 500 * time.Millisecond
	titleWidth         = 40
)

// writeClipboard is swapped in tests; headless machines have no clipboard.
var writeClipboard = clipboard.WriteAll

type galleryModel struct {
	ctx      context.Context
	services *service.ClientServices
	info     models.AppBuildInfo
	updates  <-chan []models.PhotoRecord

	photos  []models.PhotoRecord
	idx     int
	loading bool
	syncing bool
	confirm bool
	about   bool
	spinner spinner.Model
	status  string
	errMsg  string
}

func newGalleryModel(ctx context.Context, services *service.ClientServices, info models.AppBuildInfo) galleryModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return galleryModel{
		ctx:      ctx,
		services: services,
		info:     info,
		updates:  services.CatalogService.Observe(ctx),
		loading:  true,
		spinner:  s,
	}
}

func (m galleryModel) Init() tea.Cmd {
	return tea.Batch(waitForPhotos(m.updates), m.spinner.Tick, pollNotices())
}

func waitForPhotos(updates <-chan []models.PhotoRecord) tea.Cmd {
	return func() tea.Msg {
		photos, ok := <-updates
		return photosMsg{photos: photos, closed: !ok}
	}
}

func pollNotices() tea.Cmd {
	return tea.Tick(noticePollInterval, func(time.Time) tea.Msg { return noticeTickMsg{} })
}

func (m galleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case photosMsg:
		if msg.closed {
			return m, nil
		}
		m.photos = msg.photos
		m.loading = false
		m.clampCursor()
		return m, waitForPhotos(m.updates)

	case noticeTickMsg:
		if notice, ok := m.services.Notices.Take(); ok {
			m.status = notice
		}
		return m, pollNotices()

	case syncDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = "synced: " + msg.report.String()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "clipboard unavailable: " + msg.err.Error()
			return m, nil
		}
		m.status = "image reference copied"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m galleryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm {
		switch {
		case key.Matches(msg, keys.yes):
			m.confirm = false
			rec, ok := m.current()
			if !ok {
				return m, nil
			}
			return m, m.cmdDelete(rec.LocalKey)
		case key.Matches(msg, keys.no):
			m.confirm = false
		}
		return m, nil
	}

	if m.about {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.info) {
			m.about = false
		}
		if key.Matches(msg, keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit

	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}

	case key.Matches(msg, keys.down):
		if m.idx < len(m.photos)-1 {
			m.idx++
		}

	case key.Matches(msg, keys.sync):
		if m.syncing {
			return m, nil
		}
		identity := m.services.SessionService.Identity(m.ctx)
		if identity == "" {
			m.errMsg = errNotSignedIn.Error()
			return m, nil
		}
		m.syncing = true
		m.errMsg = ""
		return m, m.cmdSync(identity)

	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); ok {
			m.confirm = true
		}

	case key.Matches(msg, keys.copy):
		if rec, ok := m.current(); ok {
			return m, cmdCopy(rec.DisplayRef())
		}

	case key.Matches(msg, keys.info):
		m.about = true
	}

	return m, nil
}

func (m galleryModel) cmdSync(identity string) tea.Cmd {
	return func() tea.Msg {
		report, err := m.services.SyncService.Sync(m.ctx, identity)
		return syncDoneMsg{report: report, err: err}
	}
}

func (m galleryModel) cmdDelete(localKey string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{err: m.services.MutationService.Delete(m.ctx, localKey)}
	}
}

func cmdCopy(ref string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(ref)}
	}
}

func (m galleryModel) current() (models.PhotoRecord, bool) {
	if len(m.photos) == 0 || m.idx < 0 || m.idx >= len(m.photos) {
		return models.PhotoRecord{}, false
	}
	return m.photos[m.idx], true
}

func (m *galleryModel) clampCursor() {
	if m.idx >= len(m.photos) {
		m.idx = len(m.photos) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m galleryModel) View() string {
	if m.about {
		return appStyle.Render(overlayBoxStyle.Render(renderBuildInfoWindow(m.info)))
	}

	title := fmt.Sprintf("GALLERY (%d)", len(m.photos))
	if m.syncing || m.loading {
		title += "  " + m.spinner.View()
	}

	var b strings.Builder
	switch {
	case m.loading:
		b.WriteString("Loading...\n")
	case len(m.photos) == 0:
		b.WriteString("No photos\n")
	default:
		for i, p := range m.photos {
			line := fmt.Sprintf("%s %s", fitText(p.Title, titleWidth), stateBadge(p.SyncState))
			if i == m.idx {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if rec, ok := m.current(); ok {
			b.WriteString("\n")
			b.WriteString(renderDetail(rec))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.errMsg) + "\n")
	}

	hotKeys := "↑/↓ move  s sync  d delete  c copy ref  i about  q quit"
	if m.confirm {
		hotKeys = "delete this photo? y yes  n no"
	}

	return appStyle.Render(renderPage(title, b.String(), hotKeys))
}

func renderDetail(rec models.PhotoRecord) string {
	var b strings.Builder
	b.WriteString("Key: " + rec.LocalKey + "\n")
	b.WriteString("Description: " + valueOrDash(&rec.Description) + "\n")
	b.WriteString("Image: " + rec.DisplayRef() + "\n")
	b.WriteString("Last error: " + valueOrDash(rec.LastError))
	return b.String()
}
