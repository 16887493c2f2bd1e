package tracing

import (
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys.
const (
	AttrTier      = "mairchen.provider.tier"
	AttrModel     = "mairchen.provider.model"
	AttrRequestID = "mairchen.request_id"
	AttrClientKey = "mairchen.client_key"

	AttrAdmitted   = "mairchen.admission.admitted"
	AttrReason     = "mairchen.admission.reason"
	AttrRetryAfter = "mairchen.admission.retry_after_s"

	AttrAgeTier    = "mairchen.story.age_tier"
	AttrMinutes    = "mairchen.story.minutes"
	AttrMaxTokens  = "mairchen.story.max_tokens"
	AttrVocabulary = "mairchen.story.vocabulary_count"

	AttrTokensPrompt     = "mairchen.tokens.prompt"
	AttrTokensCompletion = "mairchen.tokens.completion"
	AttrTokensTotal      = "mairchen.tokens.total"

	AttrCost = "mairchen.cost.total"

	AttrErrorMessage = "error.message"
)

// SetProviderAttributes sets the provider tier and model.
func SetProviderAttributes(span trace.Span, tier, model string) {
	span.SetAttributes(
		attribute.String(AttrTier, tier),
		attribute.String(AttrModel, model),
	)
}

// SetRequestAttributes sets the request ID and client key. Pass a redacted
// key when logs and traces must not carry addresses.
func SetRequestAttributes(span trace.Span, requestID, clientKey string) {
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	if clientKey != "" {
		attrs = append(attrs, attribute.String(AttrClientKey, clientKey))
	}
	span.SetAttributes(attrs...)
}

// SetAdmissionAttributes records an admission decision.
func SetAdmissionAttributes(span trace.Span, admitted bool, reason string, retryAfter time.Duration) {
	attrs := []attribute.KeyValue{attribute.Bool(AttrAdmitted, admitted)}
	if !admitted {
		attrs = append(attrs,
			attribute.String(AttrReason, reason),
			attribute.Int64(AttrRetryAfter, int64(retryAfter/time.Second)),
		)
	}
	span.SetAttributes(attrs...)
}

// SetStoryAttributes records the requested reading level and size.
func SetStoryAttributes(span trace.Span, ageTier string, minutes, maxTokens int) {
	span.SetAttributes(
		attribute.String(AttrAgeTier, ageTier),
		attribute.Int(AttrMinutes, minutes),
		attribute.Int(AttrMaxTokens, maxTokens),
	)
}

// SetVocabularyAttribute records how many list words the story used.
func SetVocabularyAttribute(span trace.Span, count int) {
	span.SetAttributes(attribute.Int(AttrVocabulary, count))
}

// SetTokenAttributes records token usage.
func SetTokenAttributes(span trace.Span, prompt, completion, total int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, prompt),
		attribute.Int(AttrTokensCompletion, completion),
		attribute.Int(AttrTokensTotal, total),
	)
}

// SetCostAttribute records the charged cost.
func SetCostAttribute(span trace.Span, cost float64) {
	span.SetAttributes(attribute.Float64(AttrCost, cost))
}
