// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notify announces sync outcomes to interested listeners outside
// the process. Publishing is best effort: a failed publish is reported to
// the caller but never changes the outcome of the sync step itself.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
	"github.com/nats-io/nats.go"
)

// Publisher delivers one event per push item outcome.
type Publisher interface {
	Publish(ctx context.Context, event models.SyncEvent) error
	Close() error
}

// New returns a NATS publisher when a broker URL is configured and a
// no-op publisher otherwise.
func New(cfg config.ClientEvents, log *logger.Logger) (Publisher, error) {
	if cfg.NATSURL == "" {
		return Nop{}, nil
	}
	return NewNATSPublisher(cfg, log)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, models.SyncEvent) error { return nil }

func (Nop) Close() error { return nil }

type natsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *logger.Logger
}

// NewNATSPublisher connects to the broker at cfg.NATSURL. Events are
// published on "<subject>.<op>" as JSON.
func NewNATSPublisher(cfg config.ClientEvents, log *logger.Logger) (Publisher, error) {
	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("go-photo-sync"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Str("func", "notify.DisconnectErrHandler").Msg("event broker disconnected")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error connecting to event broker: %w", err)
	}

	return &natsPublisher{conn: conn, subject: cfg.Subject, logger: log}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, event models.SyncEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error encoding sync event: %w", err)
	}

	if err = p.conn.Publish(Subject(p.subject, event.Op), data); err != nil {
		return fmt.Errorf("error publishing sync event: %w", err)
	}
	return nil
}

func (p *natsPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return fmt.Errorf("error draining event broker connection: %w", err)
	}
	return nil
}

// Subject builds the subject an event of op is published on.
func Subject(base string, op models.SyncOp) string {
	return base + "." + string(op)
}
