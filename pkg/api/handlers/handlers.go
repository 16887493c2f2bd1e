package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sebastiansucker/mAIrchen/pkg/api/middleware"
	"github.com/sebastiansucker/mAIrchen/pkg/limits"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
	"github.com/sebastiansucker/mAIrchen/pkg/story"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/metrics"
	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// Admitter decides admission and exposes the ledger. *limits.Controller
// satisfies it.
type Admitter interface {
	Admit(clientKey string) limits.Decision
	Snapshot() limits.Snapshot
	Limits() limits.Limits
}

// Generator writes stories. *story.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, req story.Request) (*story.Story, error)
	Tier() providers.Tier
	DefaultModel() string
}

// CostRecorder charges post-call cost. *costs.Estimator satisfies it.
type CostRecorder interface {
	RecordActualUsage(tokensUsed int, tier providers.Tier) float64
}

// UsageRecorder journals request outcomes. *recorder.Recorder satisfies it.
type UsageRecorder interface {
	Record(ctx context.Context, record *usage.Record) error
}

// Tracer starts spans. *tracing.Tracer satisfies it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// Config wires the handlers to their collaborators.
type Config struct {
	// Controller is the admission controller. Required.
	Controller Admitter

	// Generator produces stories. Required.
	Generator Generator

	// Estimator applies post-call cost corrections. Required.
	Estimator CostRecorder

	// Usage journals outcomes. Optional.
	Usage UsageRecorder

	// Metrics records story and HTTP metrics. Optional.
	Metrics *metrics.Collector

	// Tracer starts the admission span. Optional.
	Tracer Tracer

	// MaxLength is the longest story in minutes.
	MaxLength int

	// RedactClientKeys masks client addresses in spans and the journal.
	RedactClientKeys bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Handlers serves the story API.
type Handlers struct {
	controller Admitter
	generator  Generator
	estimator  CostRecorder
	usage      UsageRecorder
	metrics    *metrics.Collector
	tracer     Tracer
	redact     bool
	logger     *slog.Logger

	maxLength atomic.Int64
}

// New creates the handlers from cfg.
func New(cfg Config) *Handlers {
	h := &Handlers{
		controller: cfg.Controller,
		generator:  cfg.Generator,
		estimator:  cfg.Estimator,
		usage:      cfg.Usage,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		redact:     cfg.RedactClientKeys,
		logger:     cfg.Logger,
	}
	if h.tracer == nil {
		h.tracer = noop.NewTracerProvider().Tracer("")
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "api.handlers")
	h.maxLength.Store(int64(cfg.MaxLength))
	return h
}

// SetMaxLength changes the maximum story length. Safe to call while serving.
func (h *Handlers) SetMaxLength(minutes int) {
	h.maxLength.Store(int64(minutes))
}

// MaxLength returns the maximum story length in minutes.
func (h *Handlers) MaxLength() int {
	return int(h.maxLength.Load())
}

// Register adds all routes to mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	h.handle(mux, "GET /{$}", "/", h.Root)
	h.handle(mux, "GET /health", "/health", h.Health)
	h.handle(mux, "GET /api/random", "/api/random", h.Random)
	h.handle(mux, "GET /api/stats", "/api/stats", h.Stats)
	h.handle(mux, "POST /api/generate-story", "/api/generate-story", h.GenerateStory)
}

func (h *Handlers) handle(mux *http.ServeMux, pattern, route string, fn http.HandlerFunc) {
	var rec middleware.HTTPRecorder
	if h.metrics != nil {
		rec = h.metrics
	}
	mux.Handle(pattern, middleware.Instrument(rec, route)(fn))
}
