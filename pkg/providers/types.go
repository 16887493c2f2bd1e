package providers

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a chat completion request.
type CompletionRequest struct {
	// Model overrides the client's default model when set.
	Model string

	Messages []Message

	// Temperature controls sampling randomness (0-2).
	Temperature float32

	// MaxTokens bounds the length of the completion. Zero means no bound.
	MaxTokens int
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the first choice of a chat completion.
type CompletionResponse struct {
	ID           string
	Model        string
	Content      string
	FinishReason string
	Usage        TokenUsage
}
