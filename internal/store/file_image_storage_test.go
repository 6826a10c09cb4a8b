package store

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func newTestImageStorage(t *testing.T, maxDim int) (*fileImageStorage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "photos")
	s, err := NewFileImageStorage(config.ClientPhotos{Dir: dir, JPEGQuality: 90, MaxDimension: maxDim}, logger.Nop())
	require.NoError(t, err)
	fs := s.(*fileImageStorage)
	fs.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return fs, fs.dir
}

var localNamePattern = regexp.MustCompile(`^local_1700000000000_[0-9a-f]{16}\.jpg$`)

func TestImageStorage_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestImageStorage(t, 0)

	ref, err := s.Save(ctx, pngBytes(t, 40, 30))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "file://"))

	path := strings.TrimPrefix(ref, "file://")
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, localNamePattern, filepath.Base(path))

	data, err := s.Load(ctx, ref)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	// plain paths are accepted too
	same, err := s.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, data, same)
}

func TestImageStorage_Save_FitsMaxDimension(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestImageStorage(t, 20)

	ref, err := s.Save(ctx, pngBytes(t, 80, 40))
	require.NoError(t, err)

	data, err := s.Load(ctx, ref)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestImageStorage_Save_RejectsGarbage(t *testing.T) {
	s, dir := newTestImageStorage(t, 0)

	_, err := s.Save(context.Background(), []byte("definitely not an image"))
	assert.ErrorIs(t, err, app.ErrLocalIO)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImageStorage_Load_RemoteRefIsLocalIO(t *testing.T) {
	s, _ := newTestImageStorage(t, 0)

	_, err := s.Load(context.Background(), "https://cdn.example/1.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrLocalIO)
	assert.Equal(t, app.MsgImageNotLocal, app.Message(err))
}

func TestImageStorage_Load_MissingFile(t *testing.T) {
	s, dir := newTestImageStorage(t, 0)

	_, err := s.Load(context.Background(), "file://"+filepath.Join(dir, "gone.jpg"))
	assert.ErrorIs(t, err, app.ErrLocalIO)
	assert.Equal(t, app.MsgImageUnreadable, app.Message(err))
}

func TestImageStorage_Remove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestImageStorage(t, 0)

	ref, err := s.Save(ctx, pngBytes(t, 4, 4))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(strings.TrimPrefix(ref, "file://"))
	assert.True(t, os.IsNotExist(err))

	// second removal and remote refs are no-ops
	assert.NoError(t, s.Remove(ctx, ref))
	assert.NoError(t, s.Remove(ctx, "https://cdn.example/1.jpg"))
}

func TestImageStorage_Remove_LeavesForeignFiles(t *testing.T) {
	s, _ := newTestImageStorage(t, 0)

	foreign := filepath.Join(t.TempDir(), "mine.jpg")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0o600))

	require.NoError(t, s.Remove(context.Background(), "file://"+foreign))
	_, err := os.Stat(foreign)
	assert.NoError(t, err)
}
