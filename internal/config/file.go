package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk layout of a JSON or YAML configuration file.
type fileConfig struct {
	App struct {
		LogLevel string `json:"log_level" yaml:"log_level"`
		LogFile  string `json:"log_file" yaml:"log_file"`
	} `json:"app" yaml:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db" yaml:"db"`

		Photos struct {
			Dir          string `json:"dir" yaml:"dir"`
			JPEGQuality  int    `json:"jpeg_quality" yaml:"jpeg_quality"`
			MaxDimension int    `json:"max_dimension" yaml:"max_dimension"`
		} `json:"photos" yaml:"photos"`
	} `json:"storage" yaml:"storage"`

	Adapter struct {
		BaseURL        string   `json:"base_url" yaml:"base_url"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter" yaml:"adapter"`

	Workers struct {
		SyncInterval   Duration `json:"sync_interval" yaml:"sync_interval"`
		InboxDir       string   `json:"inbox_dir" yaml:"inbox_dir"`
		InboxPattern   string   `json:"inbox_pattern" yaml:"inbox_pattern"`
		MetricsAddress string   `json:"metrics_address" yaml:"metrics_address"`
	} `json:"workers" yaml:"workers"`

	Sync struct {
		RetryBudget int `json:"retry_budget" yaml:"retry_budget"`
	} `json:"sync" yaml:"sync"`

	Telemetry struct {
		Enabled     bool   `json:"enabled" yaml:"enabled"`
		Endpoint    string `json:"endpoint" yaml:"endpoint"`
		ServiceName string `json:"service_name" yaml:"service_name"`
	} `json:"telemetry" yaml:"telemetry"`

	Events struct {
		NATSURL string `json:"nats_url" yaml:"nats_url"`
		Subject string `json:"subject" yaml:"subject"`
	} `json:"events" yaml:"events"`
}

// parseFile reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	cfg := &StructuredConfig{
		App: App{
			LogLevel: fc.App.LogLevel,
			LogFile:  fc.App.LogFile,
		},
		Storage: Storage{
			DB: DB{DSN: fc.Storage.DB.DSN},
			Photos: Photos{
				Dir:          fc.Storage.Photos.Dir,
				JPEGQuality:  fc.Storage.Photos.JPEGQuality,
				MaxDimension: fc.Storage.Photos.MaxDimension,
			},
		},
		Adapter: Adapter{
			BaseURL:        fc.Adapter.BaseURL,
			RequestTimeout: time.Duration(fc.Adapter.RequestTimeout),
		},
		Workers: Workers{
			SyncInterval:   time.Duration(fc.Workers.SyncInterval),
			InboxDir:       fc.Workers.InboxDir,
			InboxPattern:   fc.Workers.InboxPattern,
			MetricsAddress: fc.Workers.MetricsAddress,
		},
		Sync: Sync{RetryBudget: fc.Sync.RetryBudget},
		Telemetry: Telemetry{
			Enabled:     fc.Telemetry.Enabled,
			Endpoint:    fc.Telemetry.Endpoint,
			ServiceName: fc.Telemetry.ServiceName,
		},
		Events: Events{
			NATSURL: fc.Events.NATSURL,
			Subject: fc.Events.Subject,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML, or from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if n, err := time.ParseDuration(s); err == nil {
		*d = Duration(n)
		return nil
	}

	var ns int64
	if err := node.Decode(&ns); err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	*d = Duration(time.Duration(ns))
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
