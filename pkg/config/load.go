package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file. An empty path yields the
// defaults. The result is validated; environment variables are not read,
// use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// overrides before validating.
//
// The loading sequence is:
// 1. Start from Default()
// 2. Decode YAML from path, if any
// 3. Apply the service's legacy variables (PORT, AI_PROVIDER, ...)
// 4. Apply MAIRCHEN_SECTION_FIELD variables, which take precedence
// 5. Validate
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}

	applyLegacyEnv(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyLegacyEnv reads the variable names of existing deployments.
func applyLegacyEnv(cfg *Config) {
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.ListenAddress = ":" + val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = strings.ToLower(val)
	}

	setInt(&cfg.Limits.PerClientLimit, "RATE_LIMIT_PER_IP")
	setInt(&cfg.Limits.GlobalDailyLimit, "GLOBAL_DAILY_LIMIT")
	setFloat(&cfg.Limits.MaxDailyCost, "MAX_DAILY_COST")
	setInt(&cfg.Story.MaxLength, "MAX_STORY_LENGTH")

	if val := os.Getenv("AI_PROVIDER"); val != "" {
		cfg.Provider.Tier = val
	}

	// Credentials and models are read from the variables of the selected tier.
	switch cfg.Provider.Tier {
	case "openai":
		setString(&cfg.Provider.APIKey, "OPENAI_API_KEY")
		setString(&cfg.Provider.Model, "OPENAI_MODEL")
	case "ollama-cloud":
		setString(&cfg.Provider.APIKey, "OLLAMA_API_KEY")
		setString(&cfg.Provider.Model, "OLLAMA_MODEL")
	case "ollama-local":
		setString(&cfg.Provider.BaseURL, "OLLAMA_BASE_URL")
		setString(&cfg.Provider.Model, "OLLAMA_MODEL")
	default:
		setString(&cfg.Provider.APIKey, "OPENAI_API_KEY")
		setString(&cfg.Provider.BaseURL, "OPENAI_BASE_URL")
		setString(&cfg.Provider.Model, "OPENAI_MODEL")
	}
}

// applyEnvOverrides applies MAIRCHEN_SECTION_FIELD variables.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	setString(&cfg.Server.ListenAddress, "MAIRCHEN_SERVER_LISTEN_ADDRESS")
	setDuration(&cfg.Server.RequestTimeout, "MAIRCHEN_SERVER_REQUEST_TIMEOUT")
	if val := os.Getenv("MAIRCHEN_SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}

	// Provider overrides
	setString(&cfg.Provider.Tier, "MAIRCHEN_PROVIDER_TIER")
	setString(&cfg.Provider.BaseURL, "MAIRCHEN_PROVIDER_BASE_URL")
	setString(&cfg.Provider.APIKey, "MAIRCHEN_PROVIDER_API_KEY")
	setString(&cfg.Provider.Model, "MAIRCHEN_PROVIDER_MODEL")
	setDuration(&cfg.Provider.Timeout, "MAIRCHEN_PROVIDER_TIMEOUT")
	setInt(&cfg.Provider.MaxRetries, "MAIRCHEN_PROVIDER_MAX_RETRIES")

	// Limits overrides
	setInt(&cfg.Limits.PerClientLimit, "MAIRCHEN_LIMITS_PER_CLIENT_LIMIT")
	setDuration(&cfg.Limits.Window, "MAIRCHEN_LIMITS_WINDOW")
	setInt(&cfg.Limits.GlobalDailyLimit, "MAIRCHEN_LIMITS_GLOBAL_DAILY_LIMIT")
	setFloat(&cfg.Limits.MaxDailyCost, "MAIRCHEN_LIMITS_MAX_DAILY_COST")
	setFloat(&cfg.Limits.CostPerRequest, "MAIRCHEN_LIMITS_COST_PER_REQUEST")

	// Story overrides
	setInt(&cfg.Story.MaxLength, "MAIRCHEN_STORY_MAX_LENGTH")

	// Usage overrides
	setBool(&cfg.Usage.Enabled, "MAIRCHEN_USAGE_ENABLED")
	setString(&cfg.Usage.Backend, "MAIRCHEN_USAGE_BACKEND")
	setString(&cfg.Usage.SQLite.Path, "MAIRCHEN_USAGE_SQLITE_PATH")
	setString(&cfg.Usage.SQLite.Driver, "MAIRCHEN_USAGE_SQLITE_DRIVER")
	setInt(&cfg.Usage.Retention.Days, "MAIRCHEN_USAGE_RETENTION_DAYS")

	// Secrets overrides
	setString(&cfg.Secrets.Dir, "MAIRCHEN_SECRETS_DIR")

	// Telemetry overrides
	setString(&cfg.Telemetry.Logging.Level, "MAIRCHEN_TELEMETRY_LOGGING_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, "MAIRCHEN_TELEMETRY_LOGGING_FORMAT")
	setBool(&cfg.Telemetry.Logging.RedactPII, "MAIRCHEN_TELEMETRY_LOGGING_REDACT_PII")
	setBool(&cfg.Telemetry.Metrics.Enabled, "MAIRCHEN_TELEMETRY_METRICS_ENABLED")
	setBool(&cfg.Telemetry.Tracing.Enabled, "MAIRCHEN_TELEMETRY_TRACING_ENABLED")
	setString(&cfg.Telemetry.Tracing.Endpoint, "MAIRCHEN_TELEMETRY_TRACING_ENDPOINT")
	setFloat(&cfg.Telemetry.Tracing.SampleRatio, "MAIRCHEN_TELEMETRY_TRACING_SAMPLE_RATIO")
}

// Unparseable values are ignored and the previous value is kept.

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setFloat(dst *float64, key string) {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
