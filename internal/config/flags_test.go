package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags_ParsesValues(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := BindFlags(fs)

	err := fs.Parse([]string{
		"-c", "/etc/gallery.yaml",
		"-u", "https://gallery.example/",
		"--request-timeout", "10s",
		"-d", "/tmp/g.db",
		"--photos-dir", "/tmp/photos",
		"--jpeg-quality", "75",
		"--sync-interval", "2m",
		"--inbox", "/tmp/inbox",
		"--retry-budget", "3",
		"--log-level", "warn",
		"--otlp-endpoint", "collector:4317",
		"--nats-url", "nats://broker:4222",
	})
	require.NoError(t, err)

	assert.Equal(t, "/etc/gallery.yaml", cfg.FilePath)
	assert.Equal(t, "https://gallery.example/", cfg.Adapter.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/tmp/g.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "/tmp/photos", cfg.Storage.Photos.Dir)
	assert.Equal(t, 75, cfg.Storage.Photos.JPEGQuality)
	assert.Equal(t, 2*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, "/tmp/inbox", cfg.Workers.InboxDir)
	assert.Equal(t, 3, cfg.Sync.RetryBudget)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "collector:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "nats://broker:4222", cfg.Events.NATSURL)
}

func TestBindFlags_UnsetFlagsStayZero(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBindFlags_InvalidDuration(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)

	assert.Error(t, fs.Parse([]string{"--sync-interval", "often"}))
}
