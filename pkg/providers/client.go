package providers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client is a Provider backed by an OpenAI-compatible chat completions API.
type Client struct {
	config Config
	api    *openai.Client
	logger *slog.Logger
}

// NewClient creates a client for cfg.Tier. Empty fields take the tier's
// defaults.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	if cfg.APIKey == "" {
		return nil, &ConfigError{Tier: cfg.Tier, Field: "api_key", Message: "API key is required for this tier"}
	}
	if cfg.MaxRetries < 0 {
		return nil, &ConfigError{Tier: cfg.Tier, Field: "max_retries", Message: "must not be negative"}
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = cfg.BaseURL
	apiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		config: cfg,
		api:    openai.NewClientWithConfig(apiConfig),
		logger: slog.Default().With("component", "providers.client", "tier", string(cfg.Tier)),
	}, nil
}

// Tier returns the configured tier.
func (c *Client) Tier() Tier {
	return c.config.Tier
}

// DefaultModel returns the configured default model.
func (c *Client) DefaultModel() string {
	return c.config.Model
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Complete sends a chat completion request, retrying transient failures.
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, &ProviderError{Tier: c.config.Tier, Message: "request has no messages"}
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryBackoff << (attempt - 1)
			c.logger.Debug("retrying completion",
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)

			select {
			case <-ctx.Done():
				return nil, &TimeoutError{Tier: c.config.Tier, Timeout: c.config.Timeout, Cause: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, apiReq)
		if err != nil {
			lastErr = c.classify(ctx, err)
			if !isRetryable(lastErr) {
				return nil, lastErr
			}
			c.logger.Warn("completion failed, will retry",
				"attempt", attempt+1,
				"error", lastErr,
			)
			continue
		}

		if len(resp.Choices) == 0 {
			return nil, &ProviderError{Tier: c.config.Tier, Message: ErrEmptyResponse.Error(), Cause: ErrEmptyResponse}
		}

		choice := resp.Choices[0]
		return &CompletionResponse{
			ID:           resp.ID,
			Model:        resp.Model,
			Content:      choice.Message.Content,
			FinishReason: string(choice.FinishReason),
			Usage: TokenUsage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}, nil
	}

	return nil, lastErr
}
