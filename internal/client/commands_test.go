// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

const user = "u@x.com"

// gallery — минимальный бэкенд: список и создание фотографий.
type gallery struct {
	mu     sync.Mutex
	photos []models.RemotePhoto
	srv    *httptest.Server
}

func newGallery(t *testing.T) *gallery {
	t.Helper()
	g := &gallery{}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != user {
				_, _ = utils.WriteJSON(w, models.OpStatus{Status: "error", Message: "unauthorized"}, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/api/photos/list.php", func(w http.ResponseWriter, _ *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		_, _ = utils.WriteJSON(w, g.photos, http.StatusOK)
	})
	r.Post("/api/photos/create.php", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		id := strconv.Itoa(len(g.photos) + 1)
		g.photos = append(g.photos, models.RemotePhoto{
			ID:       models.RemoteID(id),
			Title:    r.FormValue("title"),
			ImageURL: fmt.Sprintf("https://cdn.example/%s.jpg", id),
		})
		_, _ = utils.WriteJSON(w, models.OpStatus{Status: "success"}, http.StatusOK)
	})

	g.srv = httptest.NewServer(r)
	t.Cleanup(g.srv.Close)
	return g
}

func (g *gallery) titles() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.photos))
	for _, p := range g.photos {
		out = append(out, p.Title)
	}
	return out
}

type cli struct {
	dir     string
	gallery *gallery
	viewer  ViewerFactory
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	return &cli{dir: t.TempDir(), gallery: newGallery(t)}
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand(models.NewAppBuildInfo("v1.0.0", "2026-10-19", "abc123"), c.viewer)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args,
		"--db", filepath.Join(c.dir, "gallery.db"),
		"--photos-dir", filepath.Join(c.dir, "photos"),
		"--base-url", c.gallery.srv.URL,
		"--env-file", filepath.Join(c.dir, "missing.env"),
		"--log-level", "disabled",
	))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 60, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestCommands_Version(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "version v1.0.0")
	assert.Contains(t, out, "commit abc123")
}

func TestCommands_OfflineLifecycle(t *testing.T) {
	c := newCLI(t)
	img := writeImage(t, c.dir, "beach.png")

	out, err := c.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no photos")

	out, err = c.run(t, "create", img)
	require.NoError(t, err)
	key := strings.TrimSpace(out)
	require.NotEmpty(t, key)

	out, err = c.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, key)
	assert.Contains(t, out, "beach")
	assert.Contains(t, out, string(models.PendingCreate))

	_, err = c.run(t, "edit", key, "--title", "Sunset")
	require.NoError(t, err)

	out, err = c.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sunset")

	// без входа сеть не трогается
	_, err = c.run(t, "push")
	assert.Equal(t, app.KindAuth, app.KindOf(err))
	assert.Empty(t, c.gallery.titles())

	_, err = c.run(t, "delete", key)
	require.NoError(t, err)

	out, err = c.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "no photos")
}

func TestCommands_LoginPushesPendingCreates(t *testing.T) {
	c := newCLI(t)
	img := writeImage(t, c.dir, "cat.png")

	_, err := c.run(t, "create", img, "--title", "Cat", "--description", "black")
	require.NoError(t, err)

	out, err := c.run(t, "login", user)
	require.NoError(t, err)
	assert.Contains(t, out, "synced=1")
	assert.Equal(t, []string{"Cat"}, c.gallery.titles())

	out, err = c.run(t, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "total=0")

	_, err = c.run(t, "pull")
	require.NoError(t, err)

	_, err = c.run(t, "logout")
	require.NoError(t, err)

	_, err = c.run(t, "pull")
	assert.Equal(t, app.KindAuth, app.KindOf(err))
}

func TestCommands_LoginWrongIdentity(t *testing.T) {
	c := newCLI(t)

	// 401 при pull поглощается, кэш остаётся
	out, err := c.run(t, "login", "stranger@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "total=0")
}

func TestCommands_EditMissing(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "edit", "nope", "--title", "x")
	require.Error(t, err)
	assert.Equal(t, app.KindNotFound, app.KindOf(err))
}

func TestCommands_CreateMissingFile(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "create", filepath.Join(c.dir, "nope.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read image")
}

func TestCommands_InvalidConfig(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "list", "--jpeg-quality", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

type stubViewer struct{ ran bool }

func (v *stubViewer) Run(context.Context) error {
	v.ran = true
	return nil
}

func TestCommands_UI(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "ui")
	require.Error(t, err, "ui is not registered without a viewer")

	viewer := &stubViewer{}
	c.viewer = func(*service.ClientServices) Viewer { return viewer }

	_, err = c.run(t, "ui")
	require.NoError(t, err)
	assert.True(t, viewer.ran)
}

func TestRenderCatalog(t *testing.T) {
	assert.Equal(t, "no photos", renderCatalog(nil))

	out := renderCatalog([]models.PhotoRecord{
		{LocalKey: "a", Title: "First", SyncState: models.Synced},
		{LocalKey: "b", Title: "Second", SyncState: models.Failed, LastError: models.StringPtr("quota exceeded")},
	})
	for _, want := range []string{"KEY", "TITLE", "First", "Second", "failed", "quota exceeded"} {
		assert.Contains(t, out, want)
	}
}
