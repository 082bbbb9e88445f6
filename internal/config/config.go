// Package config loads server settings from an optional YAML file, a .env file
// and the process environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/damon-houk/viable-rate-calculator/internal/domain/entity"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
)

// PathEnv names the variable holding the YAML config file path
const PathEnv = "RATECALC_CONFIG_PATH"

// Config is the server configuration
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Providers ProvidersConfig `yaml:"providers"`
}

// HTTPConfig configures the API listener
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"RATECALC_HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"RATECALC_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig locates the BadgerDB credential store
type StorageConfig struct {
	Path     string `yaml:"path" env:"RATECALC_STORAGE_PATH" env-default:"./data"`
	InMemory bool   `yaml:"in_memory" env:"RATECALC_STORAGE_IN_MEMORY" env-default:"false"`
}

// LogConfig sets the minimum log level
type LogConfig struct {
	Level string `yaml:"level" env:"RATECALC_LOG_LEVEL" env-default:"info"`
}

// ProvidersConfig holds provider endpoints, request timeout and the initial selection
type ProvidersConfig struct {
	Default         string        `yaml:"default" env:"RATECALC_DEFAULT_PROVIDER" env-default:"ExchangeRate-API"`
	ExchangeRateURL string        `yaml:"exchangerate_url" env:"RATECALC_EXCHANGERATE_URL" env-default:"https://open.er-api.com/v6/latest/GBP"`
	WiseURL         string        `yaml:"wise_url" env:"RATECALC_WISE_URL" env-default:"https://api.wise.com/v1/rates"`
	Timeout         time.Duration `yaml:"timeout" env:"RATECALC_PROVIDER_TIMEOUT" env-default:"10s"`
}

// DefaultProvider returns the configured provider
func (c *Config) DefaultProvider() (entity.Provider, error) {
	p, ok := entity.ParseProvider(c.Providers.Default)
	if !ok {
		return "", fmt.Errorf("unsupported default provider %q", c.Providers.Default)
	}
	return p, nil
}

// Load reads the configuration. Variables from envFile (or ./.env) are loaded
// first without overriding the environment; the YAML file named by
// RATECALC_CONFIG_PATH is read if set; environment variables win over both.
func Load(log logger.Logger, envFile ...string) (*Config, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if err := godotenv.Load(envFile...); err != nil {
		log.Debug("No .env file loaded, using process environment", map[string]interface{}{
			"error": err.Error(),
		})
	}

	var cfg Config
	if path := os.Getenv(PathEnv); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if _, err := cfg.DefaultProvider(); err != nil {
		return nil, err
	}
	if cfg.Providers.Timeout <= 0 {
		return nil, fmt.Errorf("provider timeout must be positive, got %s", cfg.Providers.Timeout)
	}

	return &cfg, nil
}
