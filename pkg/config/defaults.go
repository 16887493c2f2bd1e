package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = ":8000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 180 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 150 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = 65536

	// Provider defaults
	DefaultProviderTier         = "openai"
	DefaultProviderTimeout      = 120 * time.Second
	DefaultProviderMaxRetries   = 1
	DefaultProviderRetryBackoff = time.Second

	// Limits defaults
	DefaultPerClientLimit   = 10
	DefaultWindow           = time.Hour
	DefaultGlobalDailyLimit = 1000
	DefaultMaxDailyCost     = 5.0
	DefaultCostPerRequest   = 0.0015
	DefaultSweepSchedule    = "*/15 * * * *"

	// Costs defaults
	DefaultWordsToTokens = 1.3
	DefaultTokenOverhead = 200

	// Story defaults
	DefaultMaxStoryLength           = 15
	DefaultTemperature      float32 = 0.8

	// Usage defaults
	DefaultUsageBackend           = "sqlite"
	DefaultUsageSQLitePath        = "data/usage.db"
	DefaultUsageSQLiteDriver      = "sqlite"
	DefaultUsageSQLiteBusyTimeout = 5 * time.Second
	DefaultUsageBufferSize        = 1000
	DefaultUsageWriteTimeout      = 5 * time.Second
	DefaultUsageRetentionDays     = 30
	DefaultUsageRetentionSchedule = "0 3 * * *"

	// Secrets defaults
	DefaultSecretsEnvPrefix = "MAIRCHEN_SECRET_"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingService     = "mairchen"
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultAllowedOrigins are the frontend origins of a local deployment.
var DefaultAllowedOrigins = []string{"http://localhost", "http://localhost:80", "http://localhost:8080"}

// Default returns a configuration with every field at its default. YAML is
// decoded on top of it, so fields absent from the file keep these values
// and booleans can be switched off explicitly.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{
				Enabled:          true,
				AllowCredentials: true,
			},
		},
		Provider: ProviderConfig{
			MaxRetries: DefaultProviderMaxRetries,
		},
		Limits: LimitsConfig{
			CostPerRequest: DefaultCostPerRequest,
		},
		Usage: UsageConfig{
			Enabled: true,
			Retention: RetentionConfig{
				Days: DefaultUsageRetentionDays,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				RedactPII: true,
			},
			Metrics: MetricsConfig{
				Enabled: true,
			},
			Tracing: TracingConfig{
				Insecure: true,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields whose zero value is not meaningful.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS defaults
	cors := &cfg.Server.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = append([]string(nil), DefaultAllowedOrigins...)
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID", "Retry-After"}
	}

	// Provider defaults
	if cfg.Provider.Tier == "" {
		cfg.Provider.Tier = DefaultProviderTier
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = DefaultProviderTimeout
	}
	if cfg.Provider.RetryBackoff == 0 {
		cfg.Provider.RetryBackoff = DefaultProviderRetryBackoff
	}

	// Limits defaults
	if cfg.Limits.PerClientLimit == 0 {
		cfg.Limits.PerClientLimit = DefaultPerClientLimit
	}
	if cfg.Limits.Window == 0 {
		cfg.Limits.Window = DefaultWindow
	}
	if cfg.Limits.GlobalDailyLimit == 0 {
		cfg.Limits.GlobalDailyLimit = DefaultGlobalDailyLimit
	}
	if cfg.Limits.MaxDailyCost == 0 {
		cfg.Limits.MaxDailyCost = DefaultMaxDailyCost
	}
	if cfg.Limits.SweepSchedule == "" {
		cfg.Limits.SweepSchedule = DefaultSweepSchedule
	}

	// Costs defaults
	if cfg.Costs.WordsToTokens == 0 {
		cfg.Costs.WordsToTokens = DefaultWordsToTokens
	}
	if cfg.Costs.TokenOverhead == 0 {
		cfg.Costs.TokenOverhead = DefaultTokenOverhead
	}

	// Story defaults
	if cfg.Story.MaxLength == 0 {
		cfg.Story.MaxLength = DefaultMaxStoryLength
	}
	if cfg.Story.Temperature == 0 {
		cfg.Story.Temperature = DefaultTemperature
	}

	// Secrets defaults
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}

	// Usage defaults
	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = DefaultUsageBackend
	}
	if cfg.Usage.SQLite.Path == "" {
		cfg.Usage.SQLite.Path = DefaultUsageSQLitePath
	}
	if cfg.Usage.SQLite.Driver == "" {
		cfg.Usage.SQLite.Driver = DefaultUsageSQLiteDriver
	}
	if cfg.Usage.SQLite.BusyTimeout == 0 {
		cfg.Usage.SQLite.BusyTimeout = DefaultUsageSQLiteBusyTimeout
	}
	if cfg.Usage.Recorder.BufferSize == 0 {
		cfg.Usage.Recorder.BufferSize = DefaultUsageBufferSize
	}
	if cfg.Usage.Recorder.WriteTimeout == 0 {
		cfg.Usage.Recorder.WriteTimeout = DefaultUsageWriteTimeout
	}
	if cfg.Usage.Retention.Schedule == "" {
		cfg.Usage.Retention.Schedule = DefaultUsageRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}
