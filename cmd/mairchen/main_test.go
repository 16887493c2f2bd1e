package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// providerEnv lists variables that would leak a developer's setup into
// command tests.
var providerEnv = []string{
	"AI_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	"OLLAMA_API_KEY", "OLLAMA_BASE_URL", "OLLAMA_MODEL",
	"MAX_STORY_LENGTH", "PORT", "LOG_LEVEL",
	"MAIRCHEN_PROVIDER_TIER", "MAIRCHEN_PROVIDER_API_KEY",
	"MAIRCHEN_USAGE_ENABLED", "MAIRCHEN_USAGE_BACKEND", "MAIRCHEN_USAGE_SQLITE_PATH",
	"MAIRCHEN_STORY_MAX_LENGTH", "MAIRCHEN_TELEMETRY_TRACING_ENABLED",
	"MAIRCHEN_SECRETS_DIR", "MAIRCHEN_SECRET_OPENAI_API_KEY", "MAIRCHEN_SECRET_MISSING_KEY",
}

// resetFlags restores flag variables to their defaults before and after a
// test, since rootCmd is shared.
func resetFlags(t *testing.T) {
	t.Helper()

	reset := func() {
		cfgFile = ""
		verbose = false
		runFlags.listenAddress, runFlags.logLevel, runFlags.dryRun = "", "", false
		validateFlags.format = "text"
		budgetFlags.length, budgetFlags.tier, budgetFlags.format = 5, "34", "text"
		usageFlags = usageOptions{limit: usage.DefaultQueryLimit, format: "text"}
	}
	reset()
	t.Cleanup(reset)

	for _, key := range providerEnv {
		t.Setenv(key, "")
	}
}

// writeConfig writes a YAML config to a temp dir and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// execute runs rootCmd with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

const localConfig = `
provider:
  tier: ollama-local
usage:
  backend: memory
telemetry:
  logging:
    level: error
`
