package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// isolateEnv points the .env lookup at an empty directory so a developer's
// local file cannot leak into the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GALLERY_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilder verifies that building with no configs returns a
// zero-value StructuredConfig.
func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceOverrides verifies that non-zero fields of a later
// source win while zero fields keep the earlier value.
func TestBuild_LaterSourceOverrides(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Adapter: Adapter{BaseURL: "http://a/", RequestTimeout: time.Second}},
		&StructuredConfig{Adapter: Adapter{BaseURL: "http://b/"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://b/", cfg.Adapter.BaseURL)
	assert.Equal(t, time.Second, cfg.Adapter.RequestTimeout)
}

// TestBuild_DefaultsFirst verifies that defaults survive when nothing else
// sets a field.
func TestBuild_DefaultsFirst(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{Sync: Sync{RetryBudget: 3}})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Storage.Photos.JPEGQuality)
	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 3, cfg.Sync.RetryBudget)
}

// ── withEnv ───────────────────────────────────────────────────────────────────

// TestWithEnv_ReturnsBuilder verifies the fluent interface.
func TestWithEnv_ReturnsBuilder(t *testing.T) {
	isolateEnv(t)
	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv(""))
}

// TestWithEnv_ReadsEnvVars verifies that prefixed environment variables are
// picked up.
func TestWithEnv_ReadsEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GALLERY_ADAPTER_BASE_URL", "http://env.example/")
	t.Setenv("GALLERY_SYNC_RETRY_BUDGET", "4")

	b := newConfigBuilder()
	b.withEnv("")

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "http://env.example/", b.configs[0].Adapter.BaseURL)
	assert.Equal(t, 4, b.configs[0].Sync.RetryBudget)
}

// TestWithEnv_LoadsDotEnvFile verifies that variables from the .env file are
// merged into the environment source.
func TestWithEnv_LoadsDotEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GALLERY_STORAGE_DB_DSN=from-dotenv.db\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GALLERY_STORAGE_DB_DSN") })

	b := newConfigBuilder()
	b.withEnv(path)

	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "from-dotenv.db", b.configs[0].Storage.DB.DSN)
}

// TestWithEnv_InvalidValue verifies that a malformed value sets b.err.
func TestWithEnv_InvalidValue(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GALLERY_WORKERS_SYNC_INTERVAL", "not-a-duration")

	b := newConfigBuilder()
	b.withEnv("")

	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

// TestWithFlags_NilIsNoOp verifies that a nil flag config adds nothing.
func TestWithFlags_NilIsNoOp(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withFlags(nil))
	assert.Empty(t, b.configs)
}

// ── withFile ──────────────────────────────────────────────────────────────────

// TestWithFile_NoOp_WhenNoPathSet verifies that withFile does nothing when
// no source names a config file.
func TestWithFile_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withFile()

	assert.Len(t, b.configs, 1)
	assert.NoError(t, b.err)
}

// TestWithFile_UsesLastPath verifies that the last non-empty FilePath wins.
func TestWithFile_UsesLastPath(t *testing.T) {
	first := writeTempJSONConfig(t, map[string]any{"sync": map[string]any{"retry_budget": 1}})
	last := writeTempJSONConfig(t, map[string]any{"sync": map[string]any{"retry_budget": 7}})

	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{FilePath: first},
		&StructuredConfig{FilePath: last},
	)
	b.withFile()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 3)
	assert.Equal(t, 7, b.configs[2].Sync.RetryBudget)
}

// TestWithFile_SetsError_WhenFileNotFound verifies that a missing file path
// sets b.err.
func TestWithFile_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{FilePath: "/nonexistent/config.json"})
	b.withFile()

	assert.Error(t, b.err)
}

// ── GetClientConfig ───────────────────────────────────────────────────────────

// TestGetClientConfig_FlagsOverrideEnv verifies the full source chain.
func TestGetClientConfig_FlagsOverrideEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GALLERY_ADAPTER_BASE_URL", "http://env.example/")
	t.Setenv("GALLERY_STORAGE_DB_DSN", "env.db")

	flags := &StructuredConfig{Storage: Storage{DB: DB{DSN: "flag.db"}}}

	cfg, err := GetClientConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/", cfg.Adapter.BaseURL)
	assert.Equal(t, "flag.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
}

// TestGetClientConfig_FileOverridesFlags verifies that the config file has
// the final word.
func TestGetClientConfig_FileOverridesFlags(t *testing.T) {
	isolateEnv(t)
	path := writeTempJSONConfig(t, map[string]any{
		"adapter": map[string]any{"base_url": "http://file.example/", "request_timeout": "5s"},
	})

	flags := &StructuredConfig{
		FilePath: path,
		Adapter:  Adapter{BaseURL: "http://flag.example/"},
	}

	cfg, err := GetClientConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example/", cfg.Adapter.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
}

// TestGetClientConfig_MissingBaseURL verifies that the adapter sentinel is
// returned when no source provides a backend URL.
func TestGetClientConfig_MissingBaseURL(t *testing.T) {
	isolateEnv(t)

	_, err := GetClientConfig(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAdapterConfigs)
}
