// Package config defines the global configuration for the Driftboard
// service. Configuration is loaded once at process start and is immutable
// thereafter. It follows 12-Factor principles: values are resolved from
// the OS environment, with a .env file as a development convenience.
//
// Any missing required value or invalid format fails the process
// immediately on startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct. It is populated once
// during process initialization and never modified. Sub-components
// receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"driftboard-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Database DatabaseConfig
	Feeds    FeedsConfig
	Mode     ModeConfig
	Voice    VoiceConfig
	Metrics  MetricsConfig

	// Build Metadata (injected via ldflags, not env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s"`
	// CORS is open by default: the dashboard client is served from an
	// arbitrary origin (kiosk, local file, dev server).
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" validate:"required"`

	MaxConns          int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns          int           `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
}

// FeedsConfig holds upstream credentials, cache TTLs, and rate budgets
// for the three data providers. Credentials are optional: a provider
// without one serves its static fallback payload instead of erroring.
type FeedsConfig struct {
	SerperAPIKey string `envconfig:"SERPER_API_KEY"`
	PexelsAPIKey string `envconfig:"PEXELS_API_KEY"`

	// TTLs bound upstream call volume against widget refresh intervals
	// that are equal to or longer than these values.
	NewsTTL    time.Duration `envconfig:"NEWS_CACHE_TTL" default:"15m"`
	WeatherTTL time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"30m"`
	PhotosTTL  time.Duration `envconfig:"PHOTOS_CACHE_TTL" default:"60m"`

	// Fixed-window request budgets, shared across all clients of one
	// provider (global, not per-session).
	NewsMaxRequests    int           `envconfig:"NEWS_RATE_MAX" default:"100"`
	NewsWindow         time.Duration `envconfig:"NEWS_RATE_WINDOW" default:"1h"`
	WeatherMaxRequests int           `envconfig:"WEATHER_RATE_MAX" default:"100"`
	WeatherWindow      time.Duration `envconfig:"WEATHER_RATE_WINDOW" default:"1h"`
	PhotosMaxRequests  int           `envconfig:"PHOTOS_RATE_MAX" default:"100"`
	PhotosWindow       time.Duration `envconfig:"PHOTOS_RATE_WINDOW" default:"1h"`

	DefaultNewsQuery    string `envconfig:"DEFAULT_NEWS_QUERY" default:"latest news"`
	DefaultLocation     string `envconfig:"DEFAULT_WEATHER_LOCATION" default:"San Francisco"`
	DefaultPhotosQuery  string `envconfig:"DEFAULT_PHOTOS_QUERY" default:"nature landscape"`
	UpstreamHTTPTimeout time.Duration `envconfig:"UPSTREAM_HTTP_TIMEOUT" default:"10s"`
}

// ModeConfig holds the display mode state machine tuning.
type ModeConfig struct {
	// IdleTimeout is how long the display stays in interaction mode
	// without activity before returning to ambient.
	IdleTimeout time.Duration `envconfig:"AMBIENT_IDLE_TIMEOUT" default:"90s"`
}

// VoiceConfig holds the realtime voice session broker settings. Unlike
// feed credentials, the API key here is required for the voice endpoint
// to function; there is no fallback voice agent.
type VoiceConfig struct {
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	Model        string `envconfig:"VOICE_MODEL" default:"gpt-4o-realtime-preview-2024-12-17"`
	Voice        string `envconfig:"VOICE_NAME" default:"verse"`
}

// MetricsConfig controls request metrics emission.
type MetricsConfig struct {
	// Enabled turns on the CloudWatch request-metrics collector. Off by
	// default for local development.
	Enabled   bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"Driftboard/API"`
	AWSRegion string `envconfig:"AWS_REGION" default:"us-east-1"`
}

// BuildInfo carries version metadata injected at link time.
type BuildInfo struct {
	Version string
	Commit  string
}
