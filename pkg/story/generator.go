package story

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/tracing"
)

// DefaultTemperature is the sampling temperature for story completions.
const DefaultTemperature float32 = 0.8

// Tracer starts spans. *tracing.Tracer satisfies it.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

// Story is a generated story with metadata.
type Story struct {
	Title      string
	Content    string
	Vocabulary []string
	Model      string
	Tier       providers.Tier
	Budget     costs.TokenBudget
	TokensUsed int
	Duration   time.Duration
}

// Generator produces stories from a single provider.
type Generator struct {
	provider    providers.Provider
	budgets     *costs.BudgetCalculator
	vocab       *Vocabulary
	tracer      Tracer
	temperature float32
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithVocabulary replaces the embedded Grundwortschatz.
func WithVocabulary(v *Vocabulary) Option {
	return func(g *Generator) {
		g.vocab = v
	}
}

// WithTracer sets the tracer for generation spans.
func WithTracer(t Tracer) Option {
	return func(g *Generator) {
		g.tracer = t
	}
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(temp float32) Option {
	return func(g *Generator) {
		g.temperature = temp
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a generator that calls provider.
func NewGenerator(provider providers.Provider, budgets *costs.BudgetCalculator, opts ...Option) *Generator {
	g := &Generator{
		provider:    provider,
		budgets:     budgets,
		vocab:       DefaultVocabulary(),
		tracer:      noop.NewTracerProvider().Tracer("mairchen/story"),
		temperature: DefaultTemperature,
		logger:      slog.Default().With("component", "story.generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Tier returns the provider tier stories are billed under.
func (g *Generator) Tier() providers.Tier {
	return g.provider.Tier()
}

// DefaultModel returns the model used when a request names none.
func (g *Generator) DefaultModel() string {
	return g.provider.DefaultModel()
}

// Generate writes a story for req. The request is not validated here.
func (g *Generator) Generate(ctx context.Context, req Request) (*Story, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = g.provider.DefaultModel()
	}
	budget := g.budgets.Budget(req.Laenge, costs.ParseAgeTier(req.Klassenstufe))

	ctx, span := g.tracer.Start(ctx, "story.generate")
	defer span.End()
	tracing.SetProviderAttributes(span, string(g.provider.Tier()), model)
	tracing.SetStoryAttributes(span, string(budget.AgeTier), budget.Minutes, budget.MaxTokens)

	prompt := BuildPrompt(req, budget, g.vocab)

	resp, err := g.complete(ctx, &providers.CompletionRequest{
		Model: model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: prompt.System},
			{Role: providers.RoleUser, Content: prompt.User},
		},
		Temperature: g.temperature,
		MaxTokens:   budget.MaxTokens,
	})
	if err != nil {
		tracing.SetError(span, err)
		tracing.SetStatus(span, err)
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	title, text := ParseReply(resp.Content)
	words := g.vocab.Find(text)

	s := &Story{
		Title:      title,
		Content:    text,
		Vocabulary: words,
		Model:      model,
		Tier:       g.provider.Tier(),
		Budget:     budget,
		TokensUsed: resp.Usage.TotalTokens,
		Duration:   time.Since(start),
	}

	tracing.SetVocabularyAttribute(span, len(words))
	tracing.SetStatus(span, nil)

	g.logger.DebugContext(ctx, "story generated",
		"model", model,
		"age_tier", string(budget.AgeTier),
		"minutes", budget.Minutes,
		"tokens", s.TokensUsed,
		"vocabulary", len(words),
		"duration_ms", s.Duration.Milliseconds(),
	)
	return s, nil
}

func (g *Generator) complete(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	ctx, span := g.tracer.Start(ctx, "provider.complete")
	defer span.End()
	tracing.SetProviderAttributes(span, string(g.provider.Tier()), req.Model)

	resp, err := g.provider.Complete(ctx, req)
	tracing.SetStatus(span, err)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return resp, nil
}
