package grading

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// Parser converts raw LLM output into a normalized score breakdown
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseScores parses the JSON response from the grading prompt. Models
// routinely wrap JSON in markdown fences or return metrics as strings,
// so parsing is lenient and the result is always re-normalized.
func (p *Parser) ParseScores(raw string) (entities.ScoreBreakdown, error) {
	content := extractJSON(raw)

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return entities.ScoreBreakdown{}, fmt.Errorf("failed to parse grading response: %w", err)
	}

	scores := entities.ScoreBreakdown{
		Clarity:     metricValue(fields, "clarity"),
		Relevance:   metricValue(fields, "relevance"),
		Structure:   metricValue(fields, "structure"),
		Conciseness: metricValue(fields, "conciseness"),
		Confidence:  metricValue(fields, "confidence"),
		Commentary:  commentaryValue(fields),
	}
	// The model's own total is untrusted; always recompute from metrics.
	scores.RecomputeTotal()
	return scores, nil
}

// metricValue coerces a metric field to an int in [1,5].
// Missing or non-numeric values fall back to the midpoint 3.
func metricValue(fields map[string]interface{}, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 3
	}
	switch v := raw.(type) {
	case float64:
		return clampMetric(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 3
		}
		return clampMetric(n)
	default:
		return 3
	}
}

func commentaryValue(fields map[string]interface{}) string {
	for _, key := range []string{"commentary", "summary"} {
		if v, ok := fields[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func clampMetric(n int) int {
	if n < entities.MetricMin {
		return entities.MetricMin
	}
	if n > entities.MetricMax {
		return entities.MetricMax
	}
	return n
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
