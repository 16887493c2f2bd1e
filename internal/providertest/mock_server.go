// Package providertest provides an OpenAI-compatible mock server for tests.
package providertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer is a mock chat completions endpoint.
//
// Responses are served from a queue; once the queue is empty the last
// response repeats. Requests to any path ending in /chat/completions are
// answered, everything else gets 404.
type MockServer struct {
	server *httptest.Server

	mu           sync.Mutex
	responses    []MockResponse
	requests     []ChatRequest
	authHeaders  []string
	requestCount int
}

// MockResponse defines a mock response configuration.
type MockResponse struct {
	StatusCode int
	Body       interface{}
	Delay      time.Duration
}

// ChatRequest is the subset of the request body the tests inspect.
type ChatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// NewMockServer starts a server that answers with responses in order.
func NewMockServer(responses ...MockResponse) *MockServer {
	ms := &MockServer{responses: responses}
	ms.server = httptest.NewServer(http.HandlerFunc(ms.handler))
	return ms
}

// NewStoryServer starts a server that always returns content with the given
// total token count.
func NewStoryServer(content string, totalTokens int) *MockServer {
	return NewMockServer(MockResponse{
		StatusCode: http.StatusOK,
		Body:       ChatResponse(content, "mock-model", totalTokens),
	})
}

// URL returns the API root, including the /v1 prefix.
func (ms *MockServer) URL() string {
	return ms.server.URL + "/v1"
}

// Close closes the mock server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// RequestCount returns the number of chat requests received.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.requestCount
}

// LastRequest returns the most recent decoded request body.
func (ms *MockServer) LastRequest() (ChatRequest, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return ChatRequest{}, false
	}
	return ms.requests[len(ms.requests)-1], true
}

// LastAuthorization returns the most recent Authorization header.
func (ms *MockServer) LastAuthorization() string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.authHeaders) == 0 {
		return ""
	}
	return ms.authHeaders[len(ms.authHeaders)-1]
}

func (ms *MockServer) handler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var req ChatRequest
	_ = json.Unmarshal(body, &req)

	ms.mu.Lock()
	ms.requestCount++
	ms.requests = append(ms.requests, req)
	ms.authHeaders = append(ms.authHeaders, r.Header.Get("Authorization"))
	response := MockResponse{StatusCode: http.StatusInternalServerError}
	if len(ms.responses) > 0 {
		response = ms.responses[0]
		if len(ms.responses) > 1 {
			ms.responses = ms.responses[1:]
		}
	}
	ms.mu.Unlock()

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.StatusCode)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ChatResponse builds a chat completion response body.
func ChatResponse(content, model string, totalTokens int) map[string]interface{} {
	prompt := totalTokens / 2
	return map[string]interface{}{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]interface{}{
			"prompt_tokens":     prompt,
			"completion_tokens": totalTokens - prompt,
			"total_tokens":      totalTokens,
		},
	}
}

// ErrorResponse builds an OpenAI-style error body.
func ErrorResponse(message, errType string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    errType,
		},
	}
}
