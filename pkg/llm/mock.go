package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// MockClient is the default development/test backend. Grading prompts get
// a canned JSON breakdown; everything else gets a fixed sentence.
type MockClient struct{}

// NewMockClient creates a mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ask returns a deterministic canned response
func (c *MockClient) Ask(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Grade this interview answer") {
		fake := map[string]interface{}{
			"clarity":     4,
			"relevance":   4,
			"structure":   4,
			"conciseness": 4,
			"confidence":  4,
			"commentary":  "Mock evaluation. Configure an LLM provider for real grading.",
		}
		b, err := json.Marshal(fake)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "Mock response: provide a valid LLM provider for richer insights.", nil
}
