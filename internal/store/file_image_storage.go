package store

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/crypto/blake2b"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

const (
	fileScheme         = "file://"
	defaultJPEGQuality = 90
)

// fileImageStorage keeps re-encoded JPEG files in a single directory.
type fileImageStorage struct {
	dir          string
	quality      int
	maxDimension int
	now          func() time.Time
	logger       *logger.Logger
}

// NewFileImageStorage constructs an [ImageStorage] rooted at cfg.Dir. The
// directory is created if it does not exist.
func NewFileImageStorage(cfg config.ClientPhotos, log *logger.Logger) (ImageStorage, error) {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("error resolving photos dir: %w", err)
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating photos dir: %w", err)
	}

	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = defaultJPEGQuality
	}

	return &fileImageStorage{
		dir:          dir,
		quality:      quality,
		maxDimension: cfg.MaxDimension,
		now:          time.Now,
		logger:       log,
	}, nil
}

// Save decodes the image (honouring EXIF orientation), optionally shrinks
// it to fit maxDimension, and writes it as JPEG named
// local_<unix millis>_<blake2b prefix>.jpg.
func (s *fileImageStorage) Save(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		s.logger.Err(err).Str("func", "fileImageStorage.Save").Int("size", len(image)).Msg("failed to decode image")
		return "", app.NewError(app.KindLocalIO, "image could not be decoded", err)
	}

	if s.maxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > s.maxDimension || b.Dy() > s.maxDimension {
			img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		s.logger.Err(err).Str("func", "fileImageStorage.Save").Msg("failed to encode jpeg")
		return "", app.NewError(app.KindLocalIO, "image could not be encoded", err)
	}

	sum := blake2b.Sum256(buf.Bytes())
	name := fmt.Sprintf("local_%d_%s.jpg", s.now().UnixMilli(), hex.EncodeToString(sum[:8]))
	path := filepath.Join(s.dir, name)

	if err = writeFileAtomic(path, buf.Bytes()); err != nil {
		s.logger.Err(err).Str("func", "fileImageStorage.Save").Str("path", path).Msg("failed to write image file")
		return "", app.NewError(app.KindLocalIO, "image could not be written", err)
	}

	return fileScheme + path, nil
}

func (s *fileImageStorage) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := localPath(ref)
	if !ok {
		return nil, app.NewError(app.KindLocalIO, app.MsgImageNotLocal, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, app.NewError(app.KindLocalIO, app.MsgImageUnreadable, err)
	}

	return data, nil
}

// Remove deletes a file this storage owns. References outside the storage
// directory and remote URLs are left alone.
func (s *fileImageStorage) Remove(_ context.Context, ref string) error {
	path, ok := localPath(ref)
	if !ok {
		return nil
	}

	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}

	if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Err(err).Str("func", "fileImageStorage.Remove").Str("path", path).Msg("failed to remove image file")
		return app.NewError(app.KindLocalIO, "image could not be removed", err)
	}

	return nil
}

// localPath resolves a file:// URI or a plain path. Anything with another
// scheme is not local.
func localPath(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}

	if strings.HasPrefix(ref, fileScheme) {
		u, err := url.Parse(ref)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}

	if strings.Contains(ref, "://") {
		return "", false
	}

	return ref, true
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
