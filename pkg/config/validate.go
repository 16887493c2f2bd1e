package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "limits.window").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a ValidationError
// listing every problem, or nil.
//
// The provider API key is not checked here; a missing key is reported when
// the provider client is created.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProvider(&cfg.Provider)...)
	errs = append(errs, validateLimits(&cfg.Limits)...)
	errs = append(errs, validateCosts(&cfg.Costs)...)
	errs = append(errs, validateStory(&cfg.Story)...)
	errs = append(errs, validateUsage(&cfg.Usage)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.request_timeout",
			Message: "request timeout must not be negative",
		})
	}
	if cfg.WriteTimeout > 0 && cfg.RequestTimeout > cfg.WriteTimeout {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: fmt.Sprintf("write timeout %s is shorter than request timeout %s", cfg.WriteTimeout, cfg.RequestTimeout),
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must not be negative",
		})
	}

	if cfg.CORS.Enabled {
		for _, origin := range cfg.CORS.AllowedOrigins {
			if origin == "*" && cfg.CORS.AllowCredentials {
				errs = append(errs, FieldError{
					Field:   "server.cors.allowed_origins",
					Message: "wildcard origin cannot be combined with allow_credentials",
				})
				break
			}
		}
	}

	return errs
}

func validateProvider(cfg *ProviderConfig) []FieldError {
	var errs []FieldError

	known := false
	for _, t := range providers.Tiers() {
		if cfg.Tier == string(t) {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, FieldError{
			Field:   "provider.tier",
			Message: fmt.Sprintf("unknown tier %q: must be one of %s", cfg.Tier, tierList()),
		})
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.timeout",
			Message: "timeout must not be negative",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "provider.max_retries",
			Message: "max retries must not be negative",
		})
	}

	return errs
}

func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	if cfg.PerClientLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.per_client_limit",
			Message: "per-client limit must be positive",
		})
	}
	if cfg.Window <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.window",
			Message: "window must be positive",
		})
	}
	if cfg.GlobalDailyLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.global_daily_limit",
			Message: "global daily limit must be positive",
		})
	}
	if cfg.MaxDailyCost <= 0 {
		errs = append(errs, FieldError{
			Field:   "limits.max_daily_cost",
			Message: "max daily cost must be positive",
		})
	}
	if cfg.CostPerRequest < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.cost_per_request",
			Message: "cost per request must not be negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "limits.sweep_schedule",
			Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.SweepSchedule, err),
		})
	}

	return errs
}

func validateCosts(cfg *CostsConfig) []FieldError {
	var errs []FieldError

	for tier, rate := range cfg.Rates {
		if rate < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("costs.rates.%s", tier),
				Message: "rate must not be negative",
			})
		}
	}
	for tier, wr := range cfg.WordRates {
		if tier != "12" && tier != "34" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("costs.word_rates.%s", tier),
				Message: "age tier must be \"12\" or \"34\"",
			})
		}
		if wr.MinWPM <= 0 || wr.MaxWPM < wr.MinWPM {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("costs.word_rates.%s", tier),
				Message: fmt.Sprintf("invalid range %d-%d", wr.MinWPM, wr.MaxWPM),
			})
		}
	}
	if cfg.WordsToTokens <= 0 {
		errs = append(errs, FieldError{
			Field:   "costs.words_to_tokens",
			Message: "words to tokens ratio must be positive",
		})
	}
	if cfg.TokenOverhead < 0 {
		errs = append(errs, FieldError{
			Field:   "costs.token_overhead",
			Message: "token overhead must not be negative",
		})
	}

	return errs
}

func validateStory(cfg *StoryConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxLength <= 0 {
		errs = append(errs, FieldError{
			Field:   "story.max_length",
			Message: "max length must be positive",
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "story.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	return errs
}

func validateUsage(cfg *UsageConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return nil
	}

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "usage.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
		if cfg.SQLite.Driver != "sqlite" && cfg.SQLite.Driver != "sqlite3" {
			errs = append(errs, FieldError{
				Field:   "usage.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.SQLite.Driver),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "usage.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}

	if cfg.Recorder.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "usage.recorder.buffer_size",
			Message: "buffer size must not be negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "usage.retention.days",
			Message: "retention days must not be negative",
		})
	}
	if cfg.Retention.Days > 0 {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "usage.retention.schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Retention.Schedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

func tierList() string {
	names := make([]string, 0, 4)
	for _, t := range providers.Tiers() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
