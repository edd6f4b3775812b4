package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
)

// OllamaClient talks to a local Ollama server via its chat endpoint
type OllamaClient struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaClient creates an Ollama client from the provided config
func NewOllamaClient(cfg *config.LLMConfig) *OllamaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaClient{
		host:   strings.TrimRight(cfg.OllamaHost, "/"),
		model:  cfg.OllamaModel,
		client: &http.Client{Timeout: timeout},
	}
}

// Ask sends the prompt to Ollama and returns the assistant content
func (c *OllamaClient) Ask(ctx context.Context, prompt string) (string, error) {
	stream := false
	reqBody := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: &stream,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.host+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}

	content := cr.Message.Content
	if content == "" && len(cr.Choices) > 0 {
		content = cr.Choices[0].Message.Content
	}
	if content == "" {
		return "", fmt.Errorf("ollama response missing content")
	}
	return content, nil
}
