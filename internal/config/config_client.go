package config

import (
	"fmt"
	"time"
)

// ClientApp holds client process settings.
type ClientApp struct {
	// LogLevel is a zerolog level name.
	LogLevel string `validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	// LogFile is the JSON log destination. Empty means stderr.
	LogFile string
}

// ClientAdapter holds network settings used by the gallery backend client.
type ClientAdapter struct {
	// BaseURL is the backend root URL.
	BaseURL string `validate:"required,http_url"`
	// RequestTimeout is the timeout of a single backend round-trip.
	RequestTimeout time.Duration `validate:"gt=0"`
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite database file.
	DSN string `validate:"required"`
}

// ClientPhotos contains settings for the image bytes the client owns.
type ClientPhotos struct {
	Dir          string `validate:"required"`
	JPEGQuality  int    `validate:"min=1,max=100"`
	MaxDimension int    `validate:"min=0"`
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// Photos holds local photo file settings.
	Photos ClientPhotos
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync runs.
	SyncInterval time.Duration `validate:"gt=0"`
	// InboxDir is the watched import directory, empty disables it.
	InboxDir string
	// InboxPattern is the doublestar glob import candidates must match.
	InboxPattern string `validate:"required_with=InboxDir"`
	// MetricsAddress is the metrics listen address, empty disables it.
	MetricsAddress string `validate:"omitempty,hostname_port"`
}

// ClientSync contains push pass tuning.
type ClientSync struct {
	// RetryBudget is the number of failed attempts after which a Failed
	// item is skipped; zero is unlimited.
	RetryBudget int `validate:"min=0"`
}

// ClientTelemetry contains tracing exporter settings.
type ClientTelemetry struct {
	Enabled     bool
	Endpoint    string `validate:"required_if=Enabled true"`
	ServiceName string
}

// ClientEvents contains sync event broker settings.
type ClientEvents struct {
	NATSURL string `validate:"omitempty,url"`
	Subject string `validate:"required_with=NATSURL"`
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains process-level client settings.
	App ClientApp
	// Adapter contains the backend URL and timeout.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Sync contains push pass tuning.
	Sync ClientSync
	// Telemetry contains tracing settings.
	Telemetry ClientTelemetry
	// Events contains sync event publishing settings.
	Events ClientEvents
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration. flags may be nil when no command line is
// involved.
func GetClientConfig(flags *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the fields relevant to the client runtime.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
			Photos: ClientPhotos{
				Dir:          cfg.Storage.Photos.Dir,
				JPEGQuality:  cfg.Storage.Photos.JPEGQuality,
				MaxDimension: cfg.Storage.Photos.MaxDimension,
			},
		},
		Workers: ClientWorkers{
			SyncInterval:   cfg.Workers.SyncInterval,
			InboxDir:       cfg.Workers.InboxDir,
			InboxPattern:   cfg.Workers.InboxPattern,
			MetricsAddress: cfg.Workers.MetricsAddress,
		},
		Sync: ClientSync{RetryBudget: cfg.Sync.RetryBudget},
		Telemetry: ClientTelemetry{
			Enabled:     cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "",
			Endpoint:    cfg.Telemetry.Endpoint,
			ServiceName: cfg.Telemetry.ServiceName,
		},
		Events: ClientEvents{
			NATSURL: cfg.Events.NATSURL,
			Subject: cfg.Events.Subject,
		},
	}
}
