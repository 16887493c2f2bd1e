package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sebastiansucker/mAIrchen/pkg/api/middleware"
	"github.com/sebastiansucker/mAIrchen/pkg/api/types"
	"github.com/sebastiansucker/mAIrchen/pkg/limits"
	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
	"github.com/sebastiansucker/mAIrchen/pkg/story"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/logging"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/tracing"
	"github.com/sebastiansucker/mAIrchen/pkg/usage"
)

// GenerateStory admits, generates and charges one story.
func (h *Handlers) GenerateStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req story.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		types.WriteError(w, http.StatusBadRequest, decodeErrorDetail(err))
		return
	}

	if err := req.Validate(h.MaxLength()); err != nil {
		var verr *story.ValidationError
		if errors.As(err, &verr) {
			types.WriteError(w, http.StatusBadRequest, verr.Message)
			return
		}
		types.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	clientKey := middleware.GetClientKey(ctx)
	if clientKey == "" {
		clientKey = middleware.ClientKeyFromRequest(r)
	}

	decision := h.admit(ctx, clientKey)
	if !decision.Admitted {
		h.logger.WarnContext(ctx, "request rejected",
			"reason", decision.Reason.String(),
			"retry_after", decision.RetryAfter.String(),
		)
		w.Header().Set("Retry-After", retryAfterSeconds(decision.RetryAfter))
		types.WriteError(w, http.StatusTooManyRequests, decision.Hint)
		return
	}

	tier := h.generator.Tier()
	model := req.Model
	if model == "" {
		model = h.generator.DefaultModel()
	}
	ctx = logging.WithModel(logging.WithTier(ctx, string(tier)), model)

	h.logger.InfoContext(ctx, "story generation started",
		"minutes", req.Laenge,
		"klassenstufe", req.Klassenstufe,
	)

	start := time.Now()
	s, err := h.generator.Generate(ctx, req)
	if err != nil {
		cost := h.estimator.RecordActualUsage(0, tier)
		h.metrics.RecordStory(string(tier), string(usage.OutcomeUpstreamFailure), time.Since(start), 0, cost)
		h.metrics.RecordProviderError(string(tier), err)
		h.journal(ctx, &usage.Record{
			ClientKey:     clientKey,
			Tier:          string(tier),
			Model:         model,
			Outcome:       usage.OutcomeUpstreamFailure,
			AgeTier:       string(costs.ParseAgeTier(req.Klassenstufe)),
			Minutes:       req.Laenge,
			EstimatedCost: h.controller.Limits().CostPerRequest,
			ActualCost:    cost,
			Duration:      time.Since(start),
			Error:         err.Error(),
		})

		h.logger.ErrorContext(ctx, "story generation failed", "error", err)
		types.WriteError(w, http.StatusInternalServerError,
			fmt.Sprintf("Fehler beim Generieren der Geschichte: %v", err))
		return
	}

	cost := h.estimator.RecordActualUsage(s.TokensUsed, s.Tier)
	h.metrics.RecordStory(string(s.Tier), string(usage.OutcomeSuccess), s.Duration, s.TokensUsed, cost)
	h.journal(ctx, &usage.Record{
		ClientKey:     clientKey,
		Tier:          string(s.Tier),
		Model:         s.Model,
		Outcome:       usage.OutcomeSuccess,
		AgeTier:       string(s.Budget.AgeTier),
		Minutes:       s.Budget.Minutes,
		TokensUsed:    s.TokensUsed,
		EstimatedCost: h.controller.Limits().CostPerRequest,
		ActualCost:    cost,
		Duration:      s.Duration,
	})

	h.logger.InfoContext(ctx, "story generated",
		"tokens", s.TokensUsed,
		"cost", cost,
		"characters", len(s.Content),
		"duration_ms", s.Duration.Milliseconds(),
	)
	types.WriteJSON(w, http.StatusOK, types.NewStoryResponse(req, s))
}

// admit runs the admission check inside a "story.admit" span.
func (h *Handlers) admit(ctx context.Context, clientKey string) limits.Decision {
	_, span := h.tracer.Start(ctx, "story.admit")
	defer span.End()

	decision := h.controller.Admit(clientKey)

	tracing.SetRequestAttributes(span, middleware.GetRequestID(ctx), h.clientKeyForExport(clientKey))
	tracing.SetAdmissionAttributes(span, decision.Admitted, decision.Reason.String(), decision.RetryAfter)
	return decision
}

// journal enqueues rec. The journal outlives the request, so cancellation of
// the request context is ignored.
func (h *Handlers) journal(ctx context.Context, rec *usage.Record) {
	if h.usage == nil {
		return
	}
	rec.RequestID = middleware.GetRequestID(ctx)
	rec.ClientKey = h.clientKeyForExport(rec.ClientKey)

	if err := h.usage.Record(context.WithoutCancel(ctx), rec); err != nil {
		h.logger.WarnContext(ctx, "usage record dropped", "error", err)
	}
}

func (h *Handlers) clientKeyForExport(key string) string {
	if h.redact {
		return logging.RedactClientKey(key)
	}
	return key
}

// retryAfterSeconds renders d as whole seconds, rounded up, at least 1.
func retryAfterSeconds(d time.Duration) string {
	secs := int64(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}

func decodeErrorDetail(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Sprintf("Anfrage zu groß (maximal %d Bytes)", maxErr.Limit)
	}
	return "Ungültige Anfrage: " + err.Error()
}
