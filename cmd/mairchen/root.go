package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/secrets"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mairchen",
	Short: "mAIrchen - Märchen für Kinder",
	Long: `mAIrchen generates short German children's stories with an LLM.

Stories are sized to a reading time and grade level and use the
Grundwortschatz of primary school. A shared provider budget is protected
by per-client, global and cost limits.

Configuration comes from an optional YAML file (--config) and environment
variables. Both the MAIRCHEN_* names and the legacy names
(AI_PROVIDER, OPENAI_API_KEY, RATE_LIMIT_PER_IP, ...) are read.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file and environment, resolves secret
// references and makes the result the global configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if err := resolveSecrets(context.Background(), cfg); err != nil {
		return nil, err
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// resolveSecrets replaces ${secret:name} references in the provider
// credentials.
func resolveSecrets(ctx context.Context, cfg *config.Config) error {
	providers := []secrets.Provider{secrets.NewEnvProvider(cfg.Secrets.EnvPrefix)}
	if cfg.Secrets.Dir != "" {
		files, err := secrets.NewFileProvider(cfg.Secrets.Dir)
		if err != nil {
			return cli.NewConfigError("secrets.dir", err.Error())
		}
		providers = append(providers, files)
	}
	resolver := secrets.NewResolver(providers...)

	fields := []struct {
		name  string
		value *string
	}{
		{"provider.api_key", &cfg.Provider.APIKey},
		{"provider.base_url", &cfg.Provider.BaseURL},
	}
	for _, f := range fields {
		resolved, err := resolver.Resolve(ctx, *f.value)
		if err != nil {
			return cli.NewConfigError(f.name, err.Error())
		}
		*f.value = resolved
	}
	return nil
}
