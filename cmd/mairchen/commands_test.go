package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/usage"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/storage"
)

func TestBudgetCommand(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, localConfig)

	out, err := execute(t, "budget", "--config", path, "--length", "5", "--tier", "34", "--format", "json")
	if err != nil {
		t.Fatalf("budget: %v", err)
	}

	var got budgetReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.MinWords != 400 || got.MaxWords != 500 || got.MaxTokens != 850 {
		t.Errorf("budget = %d-%d words, %d tokens, want 400-500, 850", got.MinWords, got.MaxWords, got.MaxTokens)
	}
	if got.ProviderTier != "ollama-local" {
		t.Errorf("provider_tier = %q, want ollama-local", got.ProviderTier)
	}
	if got.MaxCost != 0 {
		t.Errorf("max_cost = %v, want 0 on the local tier", got.MaxCost)
	}
}

func TestBudgetCommandText(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, localConfig)

	out, err := execute(t, "budget", "--config", path, "--length", "10", "--tier", "12")
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	for _, want := range []string{"SETTING", "600-700", "1110"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBudgetCommandRejectsLength(t *testing.T) {
	for _, length := range []string{"0", "16"} {
		t.Run(length, func(t *testing.T) {
			resetFlags(t)
			path := writeConfig(t, localConfig)

			_, err := execute(t, "budget", "--config", path, "--length", length)
			var cfgErr *cli.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("budget --length %s error = %v, want *cli.ConfigError", length, err)
			}
			if cfgErr.Field != "length" {
				t.Errorf("Field = %q, want length", cfgErr.Field)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, localConfig)

	out, err := execute(t, "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, want := range []string{"✓ Configuration valid", "ollama-local", "usage.backend", "memory"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommandJSON(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, localConfig)

	out, err := execute(t, "validate", "--config", path, "--format", "json")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	var got effectiveSettings
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Tier != "ollama-local" || got.PerClientLimit != 10 || got.MaxLength != 15 {
		t.Errorf("settings = %+v", got)
	}
}

func TestValidateCommandMissingAPIKey(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, "provider:\n  tier: openai\n")

	_, err := execute(t, "validate", "--config", path)
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("validate error = %v, want *cli.ConfigError", err)
	}
	if cfgErr.Field != "provider" {
		t.Errorf("Field = %q, want provider", cfgErr.Field)
	}
}

func TestValidateCommandBadFile(t *testing.T) {
	resetFlags(t)

	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("validate with a missing file should fail")
	}
}

func TestRunDryRun(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, localConfig)

	out, err := execute(t, "run", "--config", path, "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	if !strings.Contains(out, "✓ Configuration valid") {
		t.Errorf("output = %q", out)
	}
}

// seedJournal writes records into the SQLite journal the config points at.
func seedJournal(t *testing.T, cfgPath string, records ...*usage.Record) {
	t.Helper()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	store, err := storage.Open(cfg.Usage)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()

	for _, r := range records {
		if err := store.Store(context.Background(), r); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
}

func TestUsageCommands(t *testing.T) {
	resetFlags(t)

	// localConfig already has a usage section, so build this one whole.
	db := filepath.Join(t.TempDir(), "usage.db")
	path := writeConfig(t, "provider:\n  tier: ollama-local\nusage:\n  backend: sqlite\n  sqlite:\n    path: "+db+"\n")

	now := time.Now()
	seedJournal(t, path,
		&usage.Record{ID: "r1", ClientKey: "203.0.113.7", Tier: "ollama-local", Outcome: usage.OutcomeSuccess,
			TokensUsed: 800, CreatedAt: now.Add(-time.Minute)},
		&usage.Record{ID: "r2", ClientKey: "198.51.100.2", Tier: "ollama-local", Outcome: usage.OutcomeUpstreamFailure,
			Error: "timeout", CreatedAt: now.Add(-2 * time.Minute)},
		&usage.Record{ID: "r3", ClientKey: "203.0.113.7", Tier: "ollama-local", Outcome: usage.OutcomeSuccess,
			TokensUsed: 500, CreatedAt: now.Add(-72 * time.Hour)},
	)

	t.Run("query json", func(t *testing.T) {
		resetFlags(t)
		out, err := execute(t, "usage", "query", "--config", path, "--client", "203.0.113.7", "--format", "json")
		if err != nil {
			t.Fatalf("usage query: %v", err)
		}
		var got []*usage.Record
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r3" {
			t.Errorf("records = %v, want r1 then r3", ids(got))
		}
	})

	t.Run("query since", func(t *testing.T) {
		resetFlags(t)
		out, err := execute(t, "usage", "query", "--config", path, "--since", "1h", "--format", "csv")
		if err != nil {
			t.Fatalf("usage query: %v", err)
		}
		// Header plus two rows.
		if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 3 {
			t.Errorf("csv has %d lines, want 3:\n%s", lines, out)
		}
	})

	t.Run("query text", func(t *testing.T) {
		resetFlags(t)
		out, err := execute(t, "usage", "query", "--config", path, "--outcome", "upstream_failure")
		if err != nil {
			t.Fatalf("usage query: %v", err)
		}
		if !strings.Contains(out, "198.51.100.2") || strings.Contains(out, "203.0.113.7") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("query bad outcome", func(t *testing.T) {
		resetFlags(t)
		if _, err := execute(t, "usage", "query", "--config", path, "--outcome", "maybe"); err == nil {
			t.Error("unknown outcome should fail")
		}
	})

	t.Run("totals", func(t *testing.T) {
		resetFlags(t)
		out, err := execute(t, "usage", "totals", "--config", path, "--format", "json")
		if err != nil {
			t.Fatalf("usage totals: %v", err)
		}
		var got usage.Totals
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if got.Records != 3 || got.Successes != 2 || got.Failures != 1 || got.TokensUsed != 1300 {
			t.Errorf("totals = %+v", got)
		}
	})

	t.Run("prune", func(t *testing.T) {
		resetFlags(t)
		out, err := execute(t, "usage", "prune", "--config", path, "--days", "1")
		if err != nil {
			t.Fatalf("usage prune: %v", err)
		}
		if !strings.Contains(out, "Deleted 1 records") {
			t.Errorf("output = %q", out)
		}

		resetFlags(t)
		out, err = execute(t, "usage", "totals", "--config", path, "--format", "json")
		if err != nil {
			t.Fatalf("usage totals: %v", err)
		}
		var got usage.Totals
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		if got.Records != 2 {
			t.Errorf("records after prune = %d, want 2", got.Records)
		}
	})
}

func TestUsageCommandDisabledJournal(t *testing.T) {
	resetFlags(t)
	path := writeConfig(t, "provider:\n  tier: ollama-local\nusage:\n  enabled: false\n")

	_, err := execute(t, "usage", "totals", "--config", path)
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "usage.enabled" {
		t.Errorf("error = %v, want usage.enabled config error", err)
	}
}

func ids(records []*usage.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestLoadConfigResolvesSecrets(t *testing.T) {
	resetFlags(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "openai-api-key"), []byte("sk-from-file\n"), 0o400); err != nil {
		t.Fatal(err)
	}
	cfgFile = writeConfig(t, "provider:\n  tier: openai\n  api_key: ${secret:openai-api-key}\nsecrets:\n  dir: "+dir+"\n")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Provider.APIKey != "sk-from-file" {
		t.Errorf("APIKey = %q, want sk-from-file", cfg.Provider.APIKey)
	}
}

func TestLoadConfigUnresolvedSecret(t *testing.T) {
	resetFlags(t)
	cfgFile = writeConfig(t, "provider:\n  tier: openai\n  api_key: ${secret:missing-key}\n")

	_, err := loadConfig()
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "provider.api_key" {
		t.Errorf("loadConfig() error = %v, want provider.api_key config error", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	resetFlags(t)

	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out, "mairchen") {
		t.Errorf("bash completion does not mention mairchen")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}
