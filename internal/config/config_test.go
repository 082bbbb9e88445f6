package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logger.Logger {
	return logger.NewJSONLogger(io.Discard, logger.ErrorLevel)
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load(quietLogger(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "./data", cfg.Storage.Path)
	assert.False(t, cfg.Storage.InMemory)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "https://open.er-api.com/v6/latest/GBP", cfg.Providers.ExchangeRateURL)
	assert.Equal(t, "https://api.wise.com/v1/rates", cfg.Providers.WiseURL)
	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout)

	provider, err := cfg.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, entity.ExchangeRateAPI, provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("RATECALC_HTTP_ADDR", ":9090")
	t.Setenv("RATECALC_DEFAULT_PROVIDER", "Wise")
	t.Setenv("RATECALC_PROVIDER_TIMEOUT", "3s")

	cfg, err := Load(quietLogger(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.Providers.Timeout)

	provider, err := cfg.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, entity.Wise, provider)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":7070"
storage:
  path: "/var/lib/ratecalc"
log:
  level: debug
providers:
  default: "Wise"
`), 0o600))

	t.Setenv(PathEnv, path)
	t.Setenv("RATECALC_LOG_LEVEL", "warn")

	cfg, err := Load(quietLogger(), missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "/var/lib/ratecalc", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Log.Level, "environment should win over the file")
	assert.Equal(t, "Wise", cfg.Providers.Default)
	assert.Equal(t, 10*time.Second, cfg.Providers.Timeout)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("RATECALC_STORAGE_PATH", "")
	os.Unsetenv("RATECALC_STORAGE_PATH")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("RATECALC_STORAGE_PATH=/tmp/ratecalc\n"), 0o600))

	cfg, err := Load(quietLogger(), envFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ratecalc", cfg.Storage.Path)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("Unknown provider", func(t *testing.T) {
		t.Setenv(PathEnv, "")
		t.Setenv("RATECALC_DEFAULT_PROVIDER", "Bank")

		_, err := Load(quietLogger(), missingEnvFile(t))
		assert.ErrorContains(t, err, "unsupported default provider")
	})

	t.Run("Missing config file", func(t *testing.T) {
		t.Setenv(PathEnv, filepath.Join(t.TempDir(), "nope.yaml"))

		_, err := Load(quietLogger(), missingEnvFile(t))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestConfig_DefaultProvider(t *testing.T) {
	cfg := &Config{Providers: ProvidersConfig{Default: "Wise"}}
	provider, err := cfg.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, entity.Wise, provider)

	cfg.Providers.Default = "wise"
	_, err = cfg.DefaultProvider()
	assert.ErrorContains(t, err, `unsupported default provider "wise"`)
}
