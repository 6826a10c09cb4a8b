package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/models"
)

type clientSessionService struct {
	sessions    store.SessionRepository
	syncService ClientSyncService
	logger      *logger.Logger
}

func NewClientSessionService(sessions store.SessionRepository, syncService ClientSyncService, log *logger.Logger) ClientSessionService {
	return &clientSessionService{
		sessions:    sessions,
		syncService: syncService,
		logger:      log,
	}
}

func (s *clientSessionService) SignIn(ctx context.Context, identity string) (models.PushReport, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return models.PushReport{}, app.NewError(app.KindAuth, app.MsgNoIdentity, nil)
	}

	if err := s.sessions.Save(ctx, identity); err != nil {
		return models.PushReport{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info().Str("func", "clientSessionService.SignIn").Msg("signed in, syncing")

	return s.syncService.Sync(ctx, identity)
}

func (s *clientSessionService) SignOut(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *clientSessionService) Current(ctx context.Context) (string, bool, error) {
	return s.sessions.Current(ctx)
}

func (s *clientSessionService) Identity(ctx context.Context) string {
	identity, ok, err := s.sessions.Current(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "clientSessionService.Identity").Msg("error reading session")
		return ""
	}
	if !ok {
		return ""
	}
	return identity
}
