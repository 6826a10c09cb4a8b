// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable the client reads.
const EnvPrefix = "GALLERY_"

// StructuredConfig is the top-level configuration container for the gallery
// client. It is populated by merging defaults, environment variables (and a
// .env file), command-line flags and an optional JSON or YAML file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-level settings: logging and the reported version.
	App App `envPrefix:"APP_"`

	// Storage holds the local catalog database and photo file settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the gallery backend connection settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds push pass tuning.
	Sync Sync `envPrefix:"SYNC_"`

	// Telemetry holds OpenTelemetry exporter settings.
	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	// Events holds the sync event broker settings.
	Events Events `envPrefix:"EVENTS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Env: GALLERY_CONFIG
	FilePath string `env:"CONFIG"`

	// EnvFilePath is the .env file loaded before environment parsing.
	// Env: GALLERY_ENV_FILE
	EnvFilePath string `env:"ENV_FILE"`
}

// App holds application-level configuration values.
type App struct {
	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: GALLERY_APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile is the file the client appends JSON log lines to. Empty means
	// stderr.
	// Env: GALLERY_APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the configuration for all local storage backends.
type Storage struct {
	// DB holds the SQLite catalog settings.
	DB DB `envPrefix:"DB_"`

	// Photos holds the local image file settings.
	Photos Photos `envPrefix:"PHOTOS_"`
}

// DB holds connection settings for the local catalog database.
type DB struct {
	// DSN is the SQLite database file path.
	// Env: GALLERY_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Photos holds settings for image bytes owned by the client.
type Photos struct {
	// Dir is where re-encoded JPEG files are written.
	// Env: GALLERY_STORAGE_PHOTOS_DIR
	Dir string `env:"DIR"`

	// JPEGQuality is the re-encode quality, 1..100.
	// Env: GALLERY_STORAGE_PHOTOS_JPEG_QUALITY
	JPEGQuality int `env:"JPEG_QUALITY"`

	// MaxDimension caps the longest image side in pixels. Zero keeps the
	// original size.
	// Env: GALLERY_STORAGE_PHOTOS_MAX_DIMENSION
	MaxDimension int `env:"MAX_DIMENSION"`
}

// Adapter holds the gallery backend connection settings.
type Adapter struct {
	// BaseURL is the backend root, e.g. "https://gallery.example.com/".
	// Env: GALLERY_ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single round-trip to the backend.
	// Env: GALLERY_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the background sync ticker.
	// Env: GALLERY_WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// InboxDir is watched for new image files. Empty disables the watcher.
	// Env: GALLERY_WORKERS_INBOX_DIR
	InboxDir string `env:"INBOX_DIR"`

	// InboxPattern is a doublestar glob matched against file names.
	// Env: GALLERY_WORKERS_INBOX_PATTERN
	InboxPattern string `env:"INBOX_PATTERN"`

	// MetricsAddress is the listen address of the /metrics endpoint. Empty
	// disables the server.
	// Env: GALLERY_WORKERS_METRICS_ADDRESS
	MetricsAddress string `env:"METRICS_ADDRESS"`
}

// Sync holds push pass tuning.
type Sync struct {
	// RetryBudget is the number of failed attempts after which a Failed
	// item is skipped until it is edited again. Zero means unlimited.
	// Env: GALLERY_SYNC_RETRY_BUDGET
	RetryBudget int `env:"RETRY_BUDGET"`
}

// Telemetry holds OpenTelemetry exporter settings.
type Telemetry struct {
	// Enabled turns on the OTLP trace exporter.
	// Env: GALLERY_TELEMETRY_ENABLED
	Enabled bool `env:"ENABLED"`

	// Endpoint is the OTLP gRPC collector address (host:port).
	// Env: GALLERY_TELEMETRY_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// ServiceName is reported as the service.name resource attribute.
	// Env: GALLERY_TELEMETRY_SERVICE_NAME
	ServiceName string `env:"SERVICE_NAME"`
}

// Events holds the sync event broker settings.
type Events struct {
	// NATSURL is the broker URL. Empty disables event publishing.
	// Env: GALLERY_EVENTS_NATS_URL
	NATSURL string `env:"NATS_URL"`

	// Subject is the NATS subject sync outcomes are published on.
	// Env: GALLERY_EVENTS_SUBJECT
	Subject string `env:"SUBJECT"`
}

// Defaults returns the baseline configuration every other source is merged
// on top of.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			LogLevel: "info",
		},
		Storage: Storage{
			DB:     DB{DSN: "gallery.db"},
			Photos: Photos{Dir: "photos", JPEGQuality: 90},
		},
		Adapter: Adapter{
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			SyncInterval: 5 * time.Minute,
			InboxPattern: "*.{jpg,jpeg,png}",
		},
		Telemetry: Telemetry{
			ServiceName: "go-photo-sync",
		},
		Events: Events{
			Subject: "gallery.sync",
		},
		EnvFilePath: ".env",
	}
}
