package interview

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/repositories"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/storage"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/attention"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/grading"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/llm"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/pdf"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
)

const summaryFallback = "Automated summary unavailable. Review the detailed scores above."

// RetentionSweeper purges expired session artifacts. Satisfied by
// storage.Sweeper.
type RetentionSweeper interface {
	PurgeExpired()
}

// StartResult is the outcome of starting a session
type StartResult struct {
	SessionID   string
	Questions   []string
	AccessToken string
}

// FinalizeInput is the finalize request as seen by the usecase
type FinalizeInput struct {
	SessionID        string
	Transcripts      []entities.AnswerRecord
	AttentionSummary map[string]float64
}

// FinalizeResult is the outcome of finalizing a session
type FinalizeResult struct {
	SessionID string
	PDFURL    string
	Summary   string
	Questions []entities.QuestionReport
}

// Service orchestrates the interview session lifecycle
type Service struct {
	sessions  repositories.SessionRepository
	reports   repositories.ReportRepository
	snapshots repositories.AttentionRepository

	tokens      *token.Manager
	grader      *grading.Engine
	llmClient   llm.Client
	renderer    *pdf.Renderer
	transcripts *storage.TranscriptStore
	publisher   storage.ReportPublisher
	sweeper     RetentionSweeper
	logger      *zap.Logger

	attentionWindow time.Duration
	trackerMu       sync.Mutex
	trackers        map[string]*attention.Tracker
}

// NewService creates the interview lifecycle service
func NewService(
	sessions repositories.SessionRepository,
	reports repositories.ReportRepository,
	snapshots repositories.AttentionRepository,
	tokens *token.Manager,
	grader *grading.Engine,
	llmClient llm.Client,
	renderer *pdf.Renderer,
	transcripts *storage.TranscriptStore,
	publisher storage.ReportPublisher,
	sweeper RetentionSweeper,
	attentionWindow time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions:        sessions,
		reports:         reports,
		snapshots:       snapshots,
		tokens:          tokens,
		grader:          grader,
		llmClient:       llmClient,
		renderer:        renderer,
		transcripts:     transcripts,
		publisher:       publisher,
		sweeper:         sweeper,
		logger:          logger,
		attentionWindow: attentionWindow,
		trackers:        make(map[string]*attention.Tracker),
	}
}

// Start creates a session: picks the question track for the role,
// persists the session record and issues its credential. A best-effort
// retention sweep runs first so stale artifacts never outlive new traffic.
func (s *Service) Start(ctx context.Context, role string) (*StartResult, error) {
	if s.sweeper != nil {
		s.sweeper.PurgeExpired()
	}

	role = strings.ToLower(role)
	questions := QuestionsForRole(role)

	sessionID, err := newSessionID()
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}
	expiresAt := time.Now().Add(s.tokens.GetExpiry())

	session := entities.NewInterviewSession(sessionID, role, questions, expiresAt)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	accessToken, err := s.tokens.Issue(sessionID)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	s.logger.Info("interview session started",
		zap.String("session_id", sessionID),
		zap.String("role", role),
	)
	return &StartResult{
		SessionID:   sessionID,
		Questions:   questions,
		AccessToken: accessToken,
	}, nil
}

// Finalize grades the submitted transcripts against the session's
// questions, renders and publishes the PDF report, persists the report
// row and replaces the transcript document with the finalized snapshot
func (s *Service) Finalize(ctx context.Context, callerSubject string, input FinalizeInput) (*FinalizeResult, error) {
	if callerSubject != input.SessionID {
		return nil, apperrors.ErrForbidden("Token does not match session")
	}

	session, err := s.sessions.FindByID(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			return nil, apperrors.ErrSessionNotFound(input.SessionID)
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	transcripts := make([]string, len(input.Transcripts))
	for i, item := range input.Transcripts {
		transcripts[i] = item.Transcript
	}

	scores, err := s.grader.GradeAll(ctx, session.Questions, transcripts)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(ctx, input.SessionID, scores)

	questionReports := make([]entities.QuestionReport, len(scores))
	rows := make([]pdf.Row, len(scores))
	for i, score := range scores {
		questionReports[i] = entities.QuestionReport{
			Question:   session.Questions[i],
			Transcript: transcripts[i],
			Scores:     score,
		}
		rows[i] = pdf.Row{
			Question:    session.Questions[i],
			Transcript:  transcripts[i],
			Clarity:     score.Clarity,
			Relevance:   score.Relevance,
			Structure:   score.Structure,
			Conciseness: score.Conciseness,
			Confidence:  score.Confidence,
			Total:       score.Total,
		}
	}

	pdfPath, err := s.renderer.Render(input.SessionID, rows, input.AttentionSummary, summary)
	if err != nil {
		return nil, apperrors.ErrReportGenerationFailed(err)
	}

	pdfURL, err := s.publisher.Publish(ctx, input.SessionID, pdfPath)
	if err != nil {
		// The PDF is already on local disk; fall back to the static route.
		s.logger.Warn("report publish failed, serving locally",
			zap.String("session_id", input.SessionID),
			zap.Error(err),
		)
		pdfURL = fmt.Sprintf("/reports/%s/%s", input.SessionID, pdf.ReportFileName)
	}

	report := entities.NewInterviewReport(input.SessionID, summary, scores, pdfPath)
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	snapshot := &entities.FinalTranscript{
		Questions:   session.Questions,
		Transcripts: input.Transcripts,
		Scores:      scores,
	}
	if err := s.transcripts.WriteSnapshot(input.SessionID, snapshot); err != nil {
		return nil, apperrors.ErrStorageFailed("write transcript snapshot", err)
	}

	s.logger.Info("interview report finalized",
		zap.String("session_id", input.SessionID),
		zap.String("pdf_url", pdfURL),
	)
	return &FinalizeResult{
		SessionID: input.SessionID,
		PDFURL:    pdfURL,
		Summary:   summary,
		Questions: questionReports,
	}, nil
}

// RecordAttention feeds one state event into the session's sliding-window
// tracker and persists a snapshot of the refreshed window
func (s *Service) RecordAttention(ctx context.Context, sessionID, state string) (entities.AttentionSummary, error) {
	tracker := s.trackerFor(sessionID)
	now := time.Now().UTC()
	tracker.Record(state, now)
	summary := tracker.Summary()

	score := summary.FocusedRatio
	lastEvent := now.Format(time.RFC3339)
	snapshot := entities.NewAttentionSnapshot(sessionID, state, &score, &lastEvent)
	if err := s.snapshots.Create(ctx, snapshot); err != nil {
		return entities.AttentionSummary{}, apperrors.ErrDBQueryFailed(err)
	}
	return summary, nil
}

// LatestAttention returns the most recent persisted snapshot for a session
func (s *Service) LatestAttention(ctx context.Context, sessionID string) (*entities.AttentionSnapshot, error) {
	snapshot, err := s.snapshots.FindLatestBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSnapshotNotFound) {
			return nil, apperrors.ErrNotFound("Attention data")
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return snapshot, nil
}

// summarize asks the LLM backend for a closing paragraph, falling back to
// a fixed sentence on any failure
func (s *Service) summarize(ctx context.Context, sessionID string, scores []entities.ScoreBreakdown) string {
	encoded, err := json.Marshal(scores)
	if err != nil {
		return summaryFallback
	}

	prompt := fmt.Sprintf(
		"Generate a concise interview summary paragraph referencing overall performance and key strengths/areas.\nReturn plain text.\nCandidate session %s received the following feedback: %s.\nProduce a 3 sentence summary.",
		sessionID, string(encoded),
	)

	summary, err := s.llmClient.Ask(ctx, prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			s.logger.Warn("summary generation failed, using fallback",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
		return summaryFallback
	}
	return strings.TrimSpace(summary)
}

func (s *Service) trackerFor(sessionID string) *attention.Tracker {
	s.trackerMu.Lock()
	defer s.trackerMu.Unlock()
	tracker, ok := s.trackers[sessionID]
	if !ok {
		tracker = attention.NewTracker(s.attentionWindow)
		s.trackers[sessionID] = tracker
	}
	return tracker
}

// newSessionID returns 16 random bytes hex-encoded
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
