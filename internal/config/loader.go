// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs.
//  2. Load .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate Config.
//  4. Populate BuildInfo from linker-injected variables.
//  5. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Linker-injected build metadata. Overridden via:
//
//	-ldflags "-X driftboard/internal/config.buildVersion=v1.2.3"
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Stage   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig loads and validates the Driftboard configuration. See the
// file header for the loading sequence.
func LoadConfig() (*Config, error) {
	// Enforce UTC. All timestamps (cache expiry, rate windows) compare
	// against UTC wall time.
	time.Local = time.UTC

	// .env is a development convenience; godotenv does not override
	// variables already present in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Stage:   "envconfig",
			Message: "failed to process environment variables",
			Err:     err,
		}
	}

	cfg.Build = BuildInfo{
		Version: buildVersion,
		Commit:  buildCommit,
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate runs struct-tag validation plus the cross-field checks that
// tags cannot express.
func validate(cfg *Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return &ConfigError{
			Stage:   "validate",
			Message: "configuration failed validation",
			Err:     err,
		}
	}

	if cfg.Mode.IdleTimeout <= 0 {
		return &ConfigError{
			Stage:   "validate",
			Message: "AMBIENT_IDLE_TIMEOUT must be positive",
		}
	}
	for _, rb := range []struct {
		name   string
		max    int
		window time.Duration
	}{
		{"news", cfg.Feeds.NewsMaxRequests, cfg.Feeds.NewsWindow},
		{"weather", cfg.Feeds.WeatherMaxRequests, cfg.Feeds.WeatherWindow},
		{"photos", cfg.Feeds.PhotosMaxRequests, cfg.Feeds.PhotosWindow},
	} {
		if rb.max <= 0 || rb.window <= 0 {
			return &ConfigError{
				Stage:   "validate",
				Message: fmt.Sprintf("%s rate budget must have positive max and window", rb.name),
			}
		}
	}

	return nil
}
