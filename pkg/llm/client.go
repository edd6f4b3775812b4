package llm

import (
	"context"

	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
)

const systemPrompt = "You are an expert interview evaluator."

// Client is the pluggable grading/summary backend: free-text prompt in,
// free-text completion out. Callers own parsing and fallback policy.
type Client interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// ChatMessage is one message in a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      *bool         `json:"stream,omitempty"`
}

// ChatResponse is a minimal chat completion response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// New creates the client selected by LLM_PROVIDER
func New(cfg *config.LLMConfig) Client {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg)
	case "ollama":
		return NewOllamaClient(cfg)
	default:
		return NewMockClient()
	}
}
