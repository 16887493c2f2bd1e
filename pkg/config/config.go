package config

import "time"

// Config is the root configuration for the story service.
type Config struct {
	// Server contains HTTP listener, timeout and CORS settings.
	Server ServerConfig `yaml:"server"`

	// Provider selects the upstream tier and its credentials.
	Provider ProviderConfig `yaml:"provider"`

	// Limits contains the admission limits.
	Limits LimitsConfig `yaml:"limits"`

	// Costs contains per-tier pricing and token budget settings.
	Costs CostsConfig `yaml:"costs"`

	// Story contains generation settings.
	Story StoryConfig `yaml:"story"`

	// Usage configures the usage journal.
	Usage UsageConfig `yaml:"usage"`

	// Secrets configures where ${secret:name} references are looked up.
	Secrets SecretsConfig `yaml:"secrets"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: ":8000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing the response. Story generation can take
	// minutes, so this must exceed RequestTimeout.
	// Default: 180s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds handler execution.
	// Default: 150s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits request body size.
	// Default: 65536
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins. "*" allows all.
	// Default: ["http://localhost", "http://localhost:80", "http://localhost:8080"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed methods.
	// Default: ["GET", "POST"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists response headers visible to scripts.
	// Default: ["X-Request-ID", "Retry-After"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 0
	MaxAge int `yaml:"max_age"`

	// AllowCredentials allows cookies and auth headers.
	// Default: true
	AllowCredentials bool `yaml:"allow_credentials"`
}

// ProviderConfig selects the upstream provider.
type ProviderConfig struct {
	// Tier is one of "openai", "compatible", "ollama-cloud", "ollama-local".
	// Default: "openai"
	Tier string `yaml:"tier"`

	// BaseURL overrides the tier's API root.
	BaseURL string `yaml:"base_url"`

	// APIKey is the provider credential. Prefer the environment.
	APIKey string `yaml:"api_key"`

	// Model overrides the tier's default model.
	Model string `yaml:"model"`

	// Timeout bounds a single upstream attempt.
	// Default: 120s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries for 5xx and transport errors.
	// Default: 1
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the first retry delay; it doubles per attempt.
	// Default: 1s
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// LimitsConfig contains admission limits.
type LimitsConfig struct {
	// PerClientLimit is the number of requests per client per window.
	// Default: 10
	PerClientLimit int `yaml:"per_client_limit"`

	// Window is the sliding window for the per-client limit.
	// Default: 1h
	Window time.Duration `yaml:"window"`

	// GlobalDailyLimit caps admitted requests per day.
	// Default: 1000
	GlobalDailyLimit int `yaml:"global_daily_limit"`

	// MaxDailyCost caps estimated spend per day.
	// Default: 5.0
	MaxDailyCost float64 `yaml:"max_daily_cost"`

	// CostPerRequest is the flat estimate charged at admission.
	// Default: 0.0015
	CostPerRequest float64 `yaml:"cost_per_request"`

	// SweepSchedule is the cron schedule for removing idle clients.
	// Default: "*/15 * * * *"
	SweepSchedule string `yaml:"sweep_schedule"`
}

// CostsConfig contains pricing and token budget settings.
type CostsConfig struct {
	// Rates maps tier names to cost per 1000 tokens. Unlisted tiers use
	// the built-in rate.
	Rates map[string]float64 `yaml:"rates"`

	// WordRates maps age tiers ("12", "34") to reading speeds.
	WordRates map[string]WordRateConfig `yaml:"word_rates"`

	// WordsToTokens converts words to tokens.
	// Default: 1.3
	WordsToTokens float64 `yaml:"words_to_tokens"`

	// TokenOverhead is added to every token budget.
	// Default: 200
	TokenOverhead int `yaml:"token_overhead"`
}

// WordRateConfig is a words-per-minute range.
type WordRateConfig struct {
	MinWPM int `yaml:"min_wpm"`
	MaxWPM int `yaml:"max_wpm"`
}

// StoryConfig contains generation settings.
type StoryConfig struct {
	// MaxLength is the longest story in minutes of reading time.
	// Default: 15
	MaxLength int `yaml:"max_length"`

	// Temperature is the sampling temperature.
	// Default: 0.8
	Temperature float32 `yaml:"temperature"`
}

// UsageConfig configures the usage journal.
type UsageConfig struct {
	// Enabled controls whether outcomes are journaled.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend is "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains async recorder settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention contains pruning settings.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite settings.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/usage.db"
	Path string `yaml:"path"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains async recorder settings.
type RecorderConfig struct {
	// BufferSize is the async queue length.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// WriteTimeout bounds a single store write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig contains pruning settings.
type RetentionConfig struct {
	// Days is how long records are kept. Zero keeps them forever.
	// Default: 30
	Days int `yaml:"days"`

	// Schedule is the cron schedule for pruning.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// SecretsConfig configures secret references in provider.api_key and
// provider.base_url.
type SecretsConfig struct {
	// EnvPrefix is prepended to the upper-cased secret name to form the
	// environment variable, e.g. "openai-api-key" reads
	// MAIRCHEN_SECRET_OPENAI_API_KEY.
	// Default: "MAIRCHEN_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// Dir holds one file per secret, as mounted by Docker or Kubernetes.
	// Empty disables file lookup.
	Dir string `yaml:"dir"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII masks client addresses and credentials in logs.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for Prometheus scrapes.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler is "always", "never" or "ratio".
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled by "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP/gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "mairchen"
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the version reported in traces.
	ServiceVersion string `yaml:"service_version"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds a single export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
