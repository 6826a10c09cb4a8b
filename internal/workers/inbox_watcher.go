// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const (
	importedDirName  = ".imported"
	defaultSettleFor = 500 * time.Millisecond
)

// InboxWatcher turns image files dropped into a directory into local photo
// creates. The title is the file name without its extension. Imported files
// are moved into the .imported subdirectory; files that fail to import are
// left in place.
type InboxWatcher struct {
	dir       string
	pattern   string
	mutations service.ClientMutationService
	logger    *logger.Logger

	// settle is how long a file must stay quiet before it is imported, so
	// that partially copied files are not picked up.
	settle time.Duration

	pendingMu sync.Mutex
	pending   map[string]time.Time
}

func NewInboxWatcher(dir, pattern string, mutations service.ClientMutationService, log *logger.Logger) *InboxWatcher {
	return &InboxWatcher{
		dir:       dir,
		pattern:   pattern,
		mutations: mutations,
		logger:    log,
		settle:    defaultSettleFor,
		pending:   make(map[string]time.Time),
	}
}

func (w *InboxWatcher) Name() string { return "inbox" }

func (w *InboxWatcher) Run(ctx context.Context) error {
	if !doublestar.ValidatePattern(w.pattern) {
		return fmt.Errorf("invalid inbox pattern %q", w.pattern)
	}
	if err := os.MkdirAll(filepath.Join(w.dir, importedDirName), 0o755); err != nil {
		return fmt.Errorf("error creating inbox directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}
	defer fsw.Close()

	if err = w.scan(ctx, fsw); err != nil {
		return err
	}

	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Err(err).Str("func", "InboxWatcher.Run").Msg("file watcher error")

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// scan watches every visible directory below the inbox and queues the
// files that are already there.
func (w *InboxWatcher) scan(ctx context.Context, fsw *fsnotify.Watcher) error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}

		if d.IsDir() {
			if path != w.dir && hidden(d.Name()) {
				return filepath.SkipDir
			}
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("error watching %s: %w", path, err)
			}
			return nil
		}

		if w.matches(path) {
			w.enqueue(path)
		}
		return nil
	})
}

func (w *InboxWatcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if !hidden(info.Name()) {
			if err = fsw.Add(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("func", "InboxWatcher.handleEvent").
					Str("path", event.Name).Msg("error watching new directory")
			}
		}
		return
	}

	if w.matches(event.Name) {
		w.enqueue(event.Name)
	}
}

func (w *InboxWatcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if hidden(part) {
			return false
		}
	}

	ok, err := doublestar.Match(w.pattern, strings.ToLower(rel))
	return err == nil && ok
}

func (w *InboxWatcher) enqueue(path string) {
	w.pendingMu.Lock()
	w.pending[path] = time.Now()
	w.pendingMu.Unlock()
}

// flush imports every queued file that has been quiet for the settle
// period.
func (w *InboxWatcher) flush(ctx context.Context) {
	now := time.Now()

	w.pendingMu.Lock()
	ready := make([]string, 0, len(w.pending))
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		w.importFile(ctx, path)
	}
}

func (w *InboxWatcher) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn().Err(err).Str("func", "InboxWatcher.importFile").Str("path", path).Msg("error reading inbox file")
		}
		return
	}

	base := filepath.Base(path)
	rec, err := w.mutations.Create(ctx, models.PhotoDraft{
		Title: strings.TrimSuffix(base, filepath.Ext(base)),
		Image: data,
	})
	if err != nil {
		w.logger.Warn().Err(err).Str("func", "InboxWatcher.importFile").Str("path", path).Msg("error importing inbox file")
		return
	}

	target := filepath.Join(w.dir, importedDirName, base)
	if _, err = os.Stat(target); err == nil {
		target = filepath.Join(w.dir, importedDirName, fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base))
	}
	if err = os.Rename(path, target); err != nil {
		w.logger.Warn().Err(err).Str("func", "InboxWatcher.importFile").Str("path", path).Msg("error moving imported file")
	}

	w.logger.Info().Str("func", "InboxWatcher.importFile").
		Str("path", path).Str("local_key", rec.LocalKey).Msg("inbox file imported")
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
