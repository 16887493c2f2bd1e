// Package providers talks to the language model that writes the stories.
//
// # Overview
//
// Every supported backend speaks the OpenAI chat completions protocol, so a
// single Client serves all of them. What differs is the tier: its endpoint,
// its credential, its default model and what a thousand tokens cost. Tiers
// form a closed set and one is chosen at startup from configuration.
//
//   - openai: api.openai.com, paid
//   - compatible: any OpenAI-compatible hosted endpoint (Mistral by default), paid
//   - ollama-cloud: ollama.com, metered
//   - ollama-local: a local Ollama daemon, free
//
// # Basic Usage
//
//	client, err := providers.NewClient(providers.Config{
//	    Tier:    providers.TierOllamaLocal,
//	    BaseURL: "http://localhost:11434/v1",
//	    Model:   "mistral:7b",
//	})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := client.Complete(ctx, &providers.CompletionRequest{
//	    Messages: []providers.Message{
//	        {Role: providers.RoleSystem, Content: system},
//	        {Role: providers.RoleUser, Content: user},
//	    },
//	    Temperature: 0.8,
//	    MaxTokens:   850,
//	})
//
// # Error Handling
//
// Failures are returned as *AuthError, *RateLimitError, *TimeoutError or
// *ProviderError. Transport errors and 5xx responses are retried with
// exponential backoff up to Config.MaxRetries; everything else fails fast.
package providers
