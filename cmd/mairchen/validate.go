package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

var validateFlags struct {
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and show effective settings",
	Long: `Load the configuration file and environment, validate them and print the
settings the server would run with.

The provider client is constructed as well, so a tier that needs an API key
without one configured fails here instead of at startup.

Examples:
  # Validate environment configuration
  mairchen validate

  # Validate a file and print JSON
  mairchen validate --config config.yaml --format json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
}

// effectiveSettings is the printable summary of a configuration.
type effectiveSettings struct {
	Tier             string  `json:"tier"`
	BaseURL          string  `json:"base_url"`
	Model            string  `json:"model"`
	APIKeySet        bool    `json:"api_key_set"`
	ListenAddress    string  `json:"listen_address"`
	PerClientLimit   int     `json:"per_client_limit"`
	Window           string  `json:"window"`
	GlobalDailyLimit int     `json:"global_daily_limit"`
	MaxDailyCost     float64 `json:"max_daily_cost"`
	CostPerRequest   float64 `json:"cost_per_request"`
	MaxLength        int     `json:"max_length"`
	UsageBackend     string  `json:"usage_backend"`
	MetricsPath      string  `json:"metrics_path,omitempty"`
	TracingEndpoint  string  `json:"tracing_endpoint,omitempty"`
}

func (s effectiveSettings) Table() cli.Table {
	rows := [][]string{
		{"provider.tier", s.Tier},
		{"provider.base_url", s.BaseURL},
		{"provider.model", s.Model},
		{"provider.api_key", map[bool]string{true: "set", false: "not set"}[s.APIKeySet]},
		{"server.listen_address", s.ListenAddress},
		{"limits.per_client_limit", strconv.Itoa(s.PerClientLimit)},
		{"limits.window", s.Window},
		{"limits.global_daily_limit", strconv.Itoa(s.GlobalDailyLimit)},
		{"limits.max_daily_cost", strconv.FormatFloat(s.MaxDailyCost, 'f', -1, 64)},
		{"limits.cost_per_request", strconv.FormatFloat(s.CostPerRequest, 'f', -1, 64)},
		{"story.max_length", strconv.Itoa(s.MaxLength)},
		{"usage.backend", s.UsageBackend},
	}
	if s.MetricsPath != "" {
		rows = append(rows, []string{"telemetry.metrics.path", s.MetricsPath})
	}
	if s.TracingEndpoint != "" {
		rows = append(rows, []string{"telemetry.tracing.endpoint", s.TracingEndpoint})
	}
	return cli.Table{Headers: []string{"SETTING", "VALUE"}, Rows: rows}
}

func newEffectiveSettings(cfg *config.Config, client *providers.Client) effectiveSettings {
	s := effectiveSettings{
		Tier:             string(client.Tier()),
		BaseURL:          client.BaseURL(),
		Model:            client.DefaultModel(),
		APIKeySet:        cfg.Provider.APIKey != "",
		ListenAddress:    cfg.Server.ListenAddress,
		PerClientLimit:   cfg.Limits.PerClientLimit,
		Window:           cfg.Limits.Window.String(),
		GlobalDailyLimit: cfg.Limits.GlobalDailyLimit,
		MaxDailyCost:     cfg.Limits.MaxDailyCost,
		CostPerRequest:   cfg.Limits.CostPerRequest,
		MaxLength:        cfg.Story.MaxLength,
		UsageBackend:     "disabled",
	}
	if cfg.Usage.Enabled {
		s.UsageBackend = cfg.Usage.Backend
	}
	if cfg.Telemetry.Metrics.Enabled {
		s.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	if cfg.Telemetry.Tracing.Enabled {
		s.TracingEndpoint = cfg.Telemetry.Tracing.Endpoint
	}
	return s
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := providers.NewClient(cfg.Provider.ClientConfig())
	if err != nil {
		return cli.NewConfigError("provider", err.Error())
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatText {
		fmt.Fprintln(out, "✓ Configuration valid")
	}
	return cli.NewFormatter(format).FormatTo(out, newEffectiveSettings(cfg, client))
}
