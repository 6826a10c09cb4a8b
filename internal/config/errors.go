package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid backend settings
	// (for example, a missing base URL or a zero request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, an empty DSN or a JPEG quality outside 1..100).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown log level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero sync interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidSyncConfigs indicates a negative retry budget.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidTelemetryConfigs indicates tracing was enabled without an
	// endpoint.
	ErrInvalidTelemetryConfigs = errors.New("invalid telemetry configuration")
	// ErrInvalidEventsConfigs indicates a malformed broker URL or a missing
	// subject.
	ErrInvalidEventsConfigs = errors.New("invalid events configuration")
)
