package grading

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/llm"
)

const gradingPromptTemplate = `Grade this interview answer on clarity, relevance, structure, conciseness and confidence.
Each metric is an integer from 1 to 5.

Question: %s

Answer: %s

Respond with JSON only, using this shape:
{"clarity": 4, "relevance": 4, "structure": 3, "conciseness": 4, "confidence": 4, "commentary": "one or two sentences"}`

// Engine grades interview answers. It prefers the configured LLM backend
// and falls back to a deterministic heuristic when the backend fails or
// returns unparseable output, so finalize never blocks on provider health.
type Engine struct {
	client  llm.Client
	parser  *Parser
	workers int
	logger  *zap.Logger
}

// NewEngine creates a grading engine with the given concurrency cap
func NewEngine(client llm.Client, workers int, logger *zap.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		client:  client,
		parser:  NewParser(),
		workers: workers,
		logger:  logger,
	}
}

// ScoreAnswer grades a transcript with the deterministic heuristic
func (e *Engine) ScoreAnswer(transcript string) entities.ScoreBreakdown {
	words := len(strings.Fields(transcript))

	clarity := (words + 34) / 35
	if clarity < entities.MetricMin {
		clarity = entities.MetricMin
	}
	if clarity > entities.MetricMax {
		clarity = entities.MetricMax
	}

	relevance := 3
	if words > 20 {
		relevance = 4
	}

	structure := 3
	lowered := strings.ToLower(transcript)
	if strings.Contains(lowered, "first") || strings.Contains(lowered, "then") || strings.Contains(lowered, "finally") {
		structure = 4
	}

	conciseness := 3
	if words < 120 {
		conciseness = 5
	}

	confidence := 3
	if strings.HasSuffix(strings.TrimSpace(transcript), ".") {
		confidence = 4
	}

	scores := entities.ScoreBreakdown{
		Clarity:     clarity,
		Relevance:   relevance,
		Structure:   structure,
		Conciseness: conciseness,
		Confidence:  confidence,
		Commentary:  "Scored with the built-in heuristic.",
	}
	scores.RecomputeTotal()
	return scores
}

// GradeOne grades a single question/transcript pair, falling back to
// the heuristic on any backend or parse failure
func (e *Engine) GradeOne(ctx context.Context, question, transcript string) entities.ScoreBreakdown {
	prompt := fmt.Sprintf(gradingPromptTemplate, question, transcript)

	raw, err := e.client.Ask(ctx, prompt)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("llm grading failed, using heuristic", zap.Error(err))
		}
		return e.ScoreAnswer(transcript)
	}

	scores, err := e.parser.ParseScores(raw)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("llm grading response unparseable, using heuristic", zap.Error(err))
		}
		return e.ScoreAnswer(transcript)
	}
	return scores
}

// GradeAll grades every question/transcript pair concurrently and
// returns the breakdowns in input order
func (e *Engine) GradeAll(ctx context.Context, questions, transcripts []string) ([]entities.ScoreBreakdown, error) {
	if len(questions) != len(transcripts) {
		return nil, apperrors.ErrLengthMismatch(len(questions), len(transcripts))
	}

	results := make([]entities.ScoreBreakdown, len(questions))
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	for i := range questions {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = e.GradeOne(ctx, questions[idx], transcripts[idx])
		}(i)
	}
	wg.Wait()

	return results, nil
}
