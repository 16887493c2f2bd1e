package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
)

func localServiceConfig() *config.Config {
	cfg := config.Default()
	cfg.Provider.Tier = string(providers.TierOllamaLocal)
	cfg.Usage.Backend = "memory"
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Telemetry.Logging.Level = "error"
	return cfg
}

func TestNewService(t *testing.T) {
	resetFlags(t)
	cfg := localServiceConfig()

	logger, err := newLogger(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	defer svc.Close()

	if got := svc.generator.Tier(); got != providers.TierOllamaLocal {
		t.Errorf("generator tier = %q, want %q", got, providers.TierOllamaLocal)
	}

	handler := svc.server.Handler()
	for _, path := range []string{"/", "/health", "/api/random", "/api/stats", cfg.Telemetry.Metrics.Path} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestServiceReload(t *testing.T) {
	resetFlags(t)
	cfg := localServiceConfig()

	logger, err := newLogger(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	svc, err := newService(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	defer svc.Close()

	next := localServiceConfig()
	next.Limits.PerClientLimit = 3
	next.Story.MaxLength = 10
	svc.Reload(next)

	if got := svc.controller.Limits().PerClientLimit; got != 3 {
		t.Errorf("PerClientLimit = %d after reload, want 3", got)
	}
	if got := svc.handlers.MaxLength(); got != 10 {
		t.Errorf("MaxLength = %d after reload, want 10", got)
	}

	// Invalid limits are rejected and the previous ones kept.
	bad := localServiceConfig()
	bad.Limits.PerClientLimit = 0
	bad.Story.MaxLength = 7
	svc.Reload(bad)

	if got := svc.controller.Limits().PerClientLimit; got != 3 {
		t.Errorf("PerClientLimit = %d after rejected reload, want 3", got)
	}
	if got := svc.handlers.MaxLength(); got != 10 {
		t.Errorf("MaxLength = %d after rejected reload, want 10", got)
	}
}

func TestServiceCloseIdempotent(t *testing.T) {
	resetFlags(t)
	cfg := localServiceConfig()

	logger, err := newLogger(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	svc, err := newService(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("newService: %v", err)
	}

	if err := svc.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestPrintBanner(t *testing.T) {
	resetFlags(t)

	var buf bytes.Buffer
	printBanner(&buf, config.Default())

	out := buf.String()
	for _, want := range []string{"mAIrchen v" + Version, "✓ Configuration loaded", "10/client per 1h0m0s", "1000/day"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q:\n%s", want, out)
		}
	}
}
