// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/adapter"
	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/metrics"
	"github.com/MKhiriev/go-photo-sync/internal/notify"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/telemetry"
	"github.com/MKhiriev/go-photo-sync/internal/validators"
	"github.com/MKhiriev/go-photo-sync/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// SyncOptions tunes and observes the sync engine. Zero values are valid.
type SyncOptions struct {
	// RetryBudget is the number of failed attempts after which a Failed
	// item is skipped by push passes. Zero means unlimited.
	RetryBudget int

	Metrics   *metrics.Metrics
	Publisher notify.Publisher
	Notices   *NoticeBoard
	Tracer    trace.Tracer
}

type clientSyncService struct {
	catalog store.CatalogStore
	images  store.ImageStorage
	remote  adapter.RemoteCatalog

	validator   validators.Validator
	retryBudget int
	metrics     *metrics.Metrics
	publisher   notify.Publisher
	notices     *NoticeBoard
	tracer      trace.Tracer
	logger      *logger.Logger

	flight singleflight.Group
	now    func() time.Time
}

func NewClientSyncService(
	catalog store.CatalogStore,
	images store.ImageStorage,
	remote adapter.RemoteCatalog,
	opts SyncOptions,
	log *logger.Logger,
) ClientSyncService {
	if opts.Publisher == nil {
		opts.Publisher = notify.Nop{}
	}
	if opts.Tracer == nil {
		opts.Tracer = telemetry.Tracer()
	}

	return &clientSyncService{
		catalog:     catalog,
		images:      images,
		remote:      remote,
		validator:   validators.NewPhotoValidator(),
		retryBudget: opts.RetryBudget,
		metrics:     opts.Metrics,
		publisher:   opts.Publisher,
		notices:     opts.Notices,
		tracer:      opts.Tracer,
		logger:      log,
		now:         time.Now,
	}
}

func (s *clientSyncService) Sync(ctx context.Context, identity string) (models.PushReport, error) {
	if isBlank(identity) {
		return models.PushReport{}, nil
	}

	s.notices.SetStatus(StatusLoading)

	pullErr := s.PullFromRemote(ctx, identity)
	if pullErr != nil {
		s.notices.Fail(app.MsgSyncFailedPrefix + app.Message(pullErr))
	}

	report, pushErr := s.PushPending(ctx, identity)
	if pushErr != nil {
		s.notices.Fail(app.MsgSyncFailedPrefix + app.Message(pushErr))
	}

	if pullErr == nil && pushErr == nil {
		s.notices.SetStatus(StatusSuccess)
	}

	return report, errors.Join(pullErr, pushErr)
}

func (s *clientSyncService) PullFromRemote(ctx context.Context, identity string) error {
	if isBlank(identity) {
		return nil
	}

	ctx, span := s.tracer.Start(ctx, "sync.pull")
	defer span.End()
	defer s.metrics.ObservePass("pull", time.Now())

	remote, err := s.remote.List(ctx, identity)
	if err != nil {
		if errors.Is(err, app.ErrAuth) {
			s.logger.Warn().Err(err).Str("func", "clientSyncService.PullFromRemote").
				Msg("identity rejected by backend, keeping cached catalog")
			span.SetAttributes(attribute.Bool("sync.cached", true))
			return nil
		}
		return s.pullFailed(span, fmt.Errorf("list remote catalog: %w", err))
	}

	recs, err := s.mapRemote(ctx, identity, remote)
	if err != nil {
		return s.pullFailed(span, err)
	}

	if err = s.catalog.UpsertBatch(ctx, recs); err != nil {
		return s.pullFailed(span, fmt.Errorf("save remote catalog: %w", err))
	}

	s.metrics.AddPulled(len(recs))
	span.SetAttributes(attribute.Int("sync.pulled", len(recs)))
	s.logger.Debug().Str("func", "clientSyncService.PullFromRemote").
		Int("pulled", len(recs)).Msg("remote catalog pulled")

	return nil
}

// mapRemote converts the remote list into catalog rows. Rows already in the
// catalog keep their CreatedAt so that the visible order is stable across
// pulls. A remote-derived row carrying an unpushed local change keeps that
// change and is left out of the batch.
func (s *clientSyncService) mapRemote(ctx context.Context, identity string, remote []models.RemotePhoto) ([]models.PhotoRecord, error) {
	now := s.now().UTC()
	recs := make([]models.PhotoRecord, 0, len(remote))
	seen := make(map[string]struct{}, len(remote))

	for _, p := range remote {
		if err := s.validator.Validate(ctx, p, validators.FieldRemoteID); err != nil {
			s.logger.Warn().Err(err).Str("func", "clientSyncService.mapRemote").
				Str("title", p.Title).Msg("skipping remote photo")
			continue
		}
		id := string(p.ID)

		key := models.RemoteLocalKey(id)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		createdAt := now
		existing, ok, err := s.catalog.Find(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("find catalog row %s: %w", key, err)
		}
		if ok {
			if existing.SyncState != models.Synced || existing.PendingDelete {
				continue
			}
			createdAt = existing.CreatedAt
		}

		description := ""
		if p.Description != nil {
			description = *p.Description
		}

		recs = append(recs, models.PhotoRecord{
			LocalKey:         key,
			RemoteKey:        models.StringPtr(id),
			OwnerIdentity:    models.StringPtr(identity),
			Title:            p.Title,
			Description:      description,
			LocalContentRef:  p.ImageURL,
			RemoteContentRef: models.StringPtr(p.ImageURL),
			SyncState:        models.Synced,
			CreatedAt:        createdAt,
			ModifiedAt:       now,
		})
	}

	return recs, nil
}

func (s *clientSyncService) pullFailed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, app.Message(err))
	s.metrics.PassFailed("pull", app.KindOf(err).String())
	s.logger.Err(err).Str("func", "clientSyncService.PullFromRemote").Msg("pull failed")
	return err
}

func (s *clientSyncService) PushPending(ctx context.Context, identity string) (models.PushReport, error) {
	if isBlank(identity) {
		return models.PushReport{}, nil
	}

	v, err, shared := s.flight.Do(identity, func() (any, error) {
		return s.push(ctx, identity)
	})
	if shared {
		s.logger.Debug().Str("func", "clientSyncService.PushPending").Msg("joined in-flight push pass")
	}

	report, ok := v.(models.PushReport)
	if !ok {
		return models.PushReport{}, ErrUnexpectedPassValue
	}
	return report, err
}

func (s *clientSyncService) push(ctx context.Context, identity string) (models.PushReport, error) {
	ctx, span := s.tracer.Start(ctx, "sync.push")
	defer span.End()
	defer s.metrics.ObservePass("push", time.Now())

	var report models.PushReport

	pending, err := s.catalog.ListPending(ctx)
	if err != nil {
		err = fmt.Errorf("list pending records: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, app.Message(err))
		s.metrics.PassFailed("push", app.KindOf(err).String())
		return report, err
	}

	report.Total = len(pending)
	s.metrics.SetPending(len(pending))
	span.SetAttributes(attribute.Int("sync.pending", len(pending)))

	for _, rec := range pending {
		if err = ctx.Err(); err != nil {
			s.logger.Warn().Err(err).Str("func", "clientSyncService.push").Msg("push pass interrupted")
			break
		}

		if s.exhausted(rec) {
			report.Skipped++
			s.metrics.ObserveItem(opFor(rec), metrics.OutcomeSkipped)
			continue
		}

		out := s.pushItem(ctx, identity, rec)
		switch {
		case out.removed:
			report.Deleted++
		case out.state == models.Synced:
			report.Synced++
		default:
			report.Failed++
		}
		s.observe(ctx, rec, out)
	}

	if report.Skipped > 0 {
		s.logger.Info().Str("func", "clientSyncService.push").
			Int("skipped", report.Skipped).Int("retry_budget", s.retryBudget).
			Msg("failed items over retry budget skipped")
	}

	span.SetAttributes(
		attribute.Int("sync.synced", report.Synced),
		attribute.Int("sync.deleted", report.Deleted),
		attribute.Int("sync.failed", report.Failed),
		attribute.Int("sync.skipped", report.Skipped),
	)
	s.logger.Info().Str("func", "clientSyncService.push").Stringer("report", report).Msg("push pass finished")

	return report, err
}

// exhausted reports whether rec spent its retry budget. Tombstones and
// items that never failed are always attempted.
func (s *clientSyncService) exhausted(rec models.PhotoRecord) bool {
	return s.retryBudget > 0 &&
		!rec.PendingDelete &&
		rec.SyncState == models.Failed &&
		rec.Attempts >= s.retryBudget
}

type itemOutcome struct {
	op      models.SyncOp
	state   models.SyncState
	removed bool
	message string
}

func (s *clientSyncService) pushItem(ctx context.Context, identity string, rec models.PhotoRecord) (out itemOutcome) {
	op := opFor(rec)

	ctx, span := s.tracer.Start(ctx, "sync.push.item", trace.WithAttributes(
		attribute.String("photo.local_key", rec.LocalKey),
		attribute.String("sync.op", string(op)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("func", "clientSyncService.pushItem").
				Str("local_key", rec.LocalKey).Interface("panic", r).Msg("recovered from panic while pushing item")
			out = s.fail(ctx, rec, op, app.NewError(app.KindUnknown, app.MsgUnexpectedFailure, fmt.Errorf("panic: %v", r)))
		}
		if out.state != models.Synced && !out.removed {
			span.SetStatus(codes.Error, out.message)
		}
	}()

	switch op {
	case models.OpDelete:
		return s.pushDelete(ctx, identity, rec)
	case models.OpCreate:
		return s.pushCreate(ctx, identity, rec)
	default:
		return s.pushUpdate(ctx, identity, rec)
	}
}

func (s *clientSyncService) pushDelete(ctx context.Context, identity string, rec models.PhotoRecord) itemOutcome {
	if rec.RemoteKey != nil {
		status, err := s.remote.Delete(ctx, identity, *rec.RemoteKey)
		if err == nil {
			err = rejection(status)
		}
		if err != nil {
			return s.fail(ctx, rec, models.OpDelete, err)
		}
	}

	if err := s.catalog.Delete(ctx, rec.LocalKey); err != nil {
		return s.fail(ctx, rec, models.OpDelete, err)
	}
	s.removeImage(ctx, rec.LocalContentRef)

	return itemOutcome{op: models.OpDelete, state: models.PendingDelete, removed: true}
}

func (s *clientSyncService) pushCreate(ctx context.Context, identity string, rec models.PhotoRecord) itemOutcome {
	image, err := s.images.Load(ctx, rec.LocalContentRef)
	if err != nil {
		return s.fail(ctx, rec, models.OpCreate, err)
	}

	status, err := s.remote.Create(ctx, identity, models.PhotoDraft{
		Title:       rec.Title,
		Description: rec.Description,
		Image:       image,
	})
	if err == nil {
		err = rejection(status)
	}
	if err != nil {
		return s.fail(ctx, rec, models.OpCreate, err)
	}

	return s.markSynced(ctx, identity, rec, models.OpCreate)
}

func (s *clientSyncService) pushUpdate(ctx context.Context, identity string, rec models.PhotoRecord) itemOutcome {
	image, err := s.images.Load(ctx, rec.LocalContentRef)
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "clientSyncService.pushUpdate").
			Str("local_key", rec.LocalKey).Msg("updating without image")
		image = nil
	}

	status, err := s.remote.Update(ctx, identity, models.PhotoUpdate{
		RemoteKey:   *rec.RemoteKey,
		Title:       models.StringPtr(rec.Title),
		Description: models.StringPtr(rec.Description),
		Image:       image,
	})
	if err == nil {
		err = rejection(status)
	}
	if err != nil {
		return s.fail(ctx, rec, models.OpUpdate, err)
	}

	return s.markSynced(ctx, identity, rec, models.OpUpdate)
}

// markSynced refreshes the catalog from the backend and then marks the
// pushed row Synced. A failed refresh is logged; the next pull repairs it.
func (s *clientSyncService) markSynced(ctx context.Context, identity string, rec models.PhotoRecord, op models.SyncOp) itemOutcome {
	if err := s.PullFromRemote(ctx, identity); err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSyncService.markSynced").
			Str("local_key", rec.LocalKey).Msg("refresh after push failed")
	}

	if err := s.catalog.SetStatus(ctx, rec.LocalKey, models.Synced, nil); err != nil {
		s.logger.Err(err).Str("func", "clientSyncService.markSynced").
			Str("local_key", rec.LocalKey).Msg("error marking record synced")
		return itemOutcome{op: op, state: models.Failed, message: app.Message(err)}
	}

	return itemOutcome{op: op, state: models.Synced}
}

// fail records err on rec. A tombstone stays PendingDelete so the delete is
// retried; every other item becomes Failed.
func (s *clientSyncService) fail(ctx context.Context, rec models.PhotoRecord, op models.SyncOp, err error) itemOutcome {
	msg := app.Message(err)
	state := models.Failed
	if rec.PendingDelete {
		state = models.PendingDelete
	}

	s.logger.Warn().Err(err).Str("func", "clientSyncService.fail").
		Str("local_key", rec.LocalKey).Str("op", string(op)).Str("kind", app.KindOf(err).String()).
		Msg("push item failed")

	if serr := s.catalog.SetStatus(ctx, rec.LocalKey, state, &msg); serr != nil {
		s.logger.Err(serr).Str("func", "clientSyncService.fail").
			Str("local_key", rec.LocalKey).Msg("error recording item failure")
	}
	if serr := s.catalog.RecordAttempt(ctx, rec.LocalKey); serr != nil {
		s.logger.Err(serr).Str("func", "clientSyncService.fail").
			Str("local_key", rec.LocalKey).Msg("error recording attempt")
	}

	return itemOutcome{op: op, state: state, message: msg}
}

func (s *clientSyncService) removeImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Remove(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSyncService.removeImage").
			Str("ref", ref).Msg("error removing local image")
	}
}

func (s *clientSyncService) observe(ctx context.Context, rec models.PhotoRecord, out itemOutcome) {
	outcome := metrics.OutcomeFailed
	switch {
	case out.removed:
		outcome = metrics.OutcomeDeleted
	case out.state == models.Synced:
		outcome = metrics.OutcomeSynced
	}
	s.metrics.ObserveItem(out.op, outcome)

	event := models.SyncEvent{
		LocalKey:  rec.LocalKey,
		RemoteKey: rec.RemoteKey,
		Op:        out.op,
		State:     out.state,
		Removed:   out.removed,
		Message:   out.message,
		At:        s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSyncService.observe").
			Str("local_key", rec.LocalKey).Msg("error publishing sync event")
	}
}

// rejection turns a refused mutation into a RemoteRejection error.
func rejection(status models.OpStatus) error {
	if status.Succeeded() {
		return nil
	}
	msg := status.Message
	if msg == "" {
		msg = app.MsgRemoteRejected
	}
	return app.NewError(app.KindRemoteRejection, msg, nil)
}

func opFor(rec models.PhotoRecord) models.SyncOp {
	switch {
	case rec.PendingDelete:
		return models.OpDelete
	case rec.RemoteKey == nil:
		return models.OpCreate
	default:
		return models.OpUpdate
	}
}

func isBlank(identity string) bool {
	return strings.TrimSpace(identity) == ""
}
