package types

import "github.com/sebastiansucker/mAIrchen/pkg/story"

// RootResponse is returned by GET /.
type RootResponse struct {
	Message    string `json:"message"`
	AIProvider string `json:"ai_provider"`
	Model      string `json:"model"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// StoryResponse is returned by a successful POST /api/generate-story.
type StoryResponse struct {
	Success         bool             `json:"success"`
	Title           string           `json:"title"`
	Story           string           `json:"story"`
	Grundwortschatz []string         `json:"grundwortschatz"`
	Parameters      story.Parameters `json:"parameters"`
}

// NewStoryResponse builds the success body for s generated from req.
// Grundwortschatz is never null.
func NewStoryResponse(req story.Request, s *story.Story) *StoryResponse {
	words := s.Vocabulary
	if words == nil {
		words = []string{}
	}
	return &StoryResponse{
		Success:         true,
		Title:           s.Title,
		Story:           s.Content,
		Grundwortschatz: words,
		Parameters:      req.Parameters(),
	}
}
