package store

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-photo-sync/models"
)

// snapshotHub fans visible-catalog snapshots out to subscribers. Each
// subscriber owns a one-slot channel; a newer snapshot replaces an unread
// older one, so writers never wait on a slow reader.
//
// load and the sends both run under mu. Snapshots therefore reach every
// subscriber in the order they were read from the database.
type snapshotHub struct {
	mu    sync.Mutex
	subs  map[*subscriber]struct{}
	load  func(ctx context.Context) ([]models.PhotoRecord, error)
	onErr func(err error)
}

type subscriber struct {
	ch chan []models.PhotoRecord
}

func newSnapshotHub(load func(ctx context.Context) ([]models.PhotoRecord, error), onErr func(error)) *snapshotHub {
	return &snapshotHub{
		subs:  make(map[*subscriber]struct{}),
		load:  load,
		onErr: onErr,
	}
}

func (h *snapshotHub) subscribe(ctx context.Context) <-chan []models.PhotoRecord {
	sub := &subscriber{ch: make(chan []models.PhotoRecord, 1)}

	h.mu.Lock()
	if ctx.Err() != nil {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	h.subs[sub] = struct{}{}
	if snap, err := h.load(context.WithoutCancel(ctx)); err != nil {
		h.onErr(err)
	} else {
		sub.offer(snap)
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		close(sub.ch)
		h.mu.Unlock()
	}()

	return sub.ch
}

// publish reloads the visible catalog and offers it to every subscriber.
func (h *snapshotHub) publish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.subs) == 0 {
		return
	}

	snap, err := h.load(context.Background())
	if err != nil {
		h.onErr(err)
		return
	}

	for sub := range h.subs {
		sub.offer(snap)
	}
}

func (h *snapshotHub) subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer delivers snap, dropping a pending unread snapshot if necessary.
// Callers hold the hub lock.
func (s *subscriber) offer(snap []models.PhotoRecord) {
	select {
	case s.ch <- snap:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}
