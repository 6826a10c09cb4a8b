package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the configuration flags on fs and returns the config
// the parsed values are written into. The returned value is only meaningful
// after fs has been parsed (cobra does this before running a command).
//
// Flags:
//
//	-c/--config         JSON or YAML config file path
//	--env-file          .env file path
//	-u/--base-url       gallery backend base URL
//	--request-timeout   backend request timeout (e.g. "30s")
//	-d/--db             catalog database file
//	--photos-dir        local photo directory
//	--jpeg-quality      re-encode quality
//	--max-dimension     longest image side in pixels
//	--sync-interval     background sync period (e.g. "5m")
//	--inbox             watched inbox directory
//	--inbox-pattern     inbox file name glob
//	--metrics-address   metrics listen address host:port
//	--retry-budget      failed attempts before an item is skipped
//	--log-level         zerolog level
//	--log-file          log file path
//	--otlp-endpoint     OTLP gRPC collector, enables tracing
//	--nats-url          NATS broker URL, enables sync events
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVarP(&cfg.FilePath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVar(&cfg.EnvFilePath, "env-file", "", ".env file path")

	fs.StringVarP(&cfg.Adapter.BaseURL, "base-url", "u", "", "Gallery backend base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Backend request timeout (e.g. 30s)")

	fs.StringVarP(&cfg.Storage.DB.DSN, "db", "d", "", "Catalog database file")
	fs.StringVar(&cfg.Storage.Photos.Dir, "photos-dir", "", "Local photo directory")
	fs.IntVar(&cfg.Storage.Photos.JPEGQuality, "jpeg-quality", 0, "JPEG re-encode quality (1-100)")
	fs.IntVar(&cfg.Storage.Photos.MaxDimension, "max-dimension", 0, "Longest image side in pixels, 0 keeps size")

	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync period (e.g. 5m)")
	fs.StringVar(&cfg.Workers.InboxDir, "inbox", "", "Watched inbox directory")
	fs.StringVar(&cfg.Workers.InboxPattern, "inbox-pattern", "", "Inbox file name glob")
	fs.StringVar(&cfg.Workers.MetricsAddress, "metrics-address", "", "Metrics listen address host:port")

	fs.IntVar(&cfg.Sync.RetryBudget, "retry-budget", 0, "Failed attempts before an item is skipped, 0 is unlimited")

	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Log file path")

	fs.StringVar(&cfg.Telemetry.Endpoint, "otlp-endpoint", "", "OTLP gRPC collector host:port, enables tracing")
	fs.StringVar(&cfg.Events.NATSURL, "nats-url", "", "NATS URL, enables sync events")

	return cfg
}
