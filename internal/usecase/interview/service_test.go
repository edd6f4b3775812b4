package interview

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/storage"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/grading"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/pdf"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
)

type fakeSessionRepo struct {
	sessions map[string]*entities.InterviewSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entities.InterviewSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entities.InterviewSession) error {
	r.sessions[session.SessionID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, sessionID string) (*entities.InterviewSession, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) DeleteByID(_ context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

type fakeReportRepo struct {
	reports []*entities.InterviewReport
}

func (r *fakeReportRepo) Create(_ context.Context, report *entities.InterviewReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *fakeReportRepo) FindLatestBySessionID(_ context.Context, sessionID string) (*entities.InterviewReport, error) {
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].SessionID == sessionID {
			return r.reports[i], nil
		}
	}
	return nil, entities.ErrReportNotFound
}

type fakeAttentionRepo struct {
	snapshots []*entities.AttentionSnapshot
}

func (r *fakeAttentionRepo) Create(_ context.Context, snapshot *entities.AttentionSnapshot) error {
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *fakeAttentionRepo) FindLatestBySessionID(_ context.Context, sessionID string) (*entities.AttentionSnapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].SessionID == sessionID {
			return r.snapshots[i], nil
		}
	}
	return nil, entities.ErrSnapshotNotFound
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Ask(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

type countingSweeper struct {
	calls int
}

func (s *countingSweeper) PurgeExpired() { s.calls++ }

type testEnv struct {
	service   *Service
	sessions  *fakeSessionRepo
	reports   *fakeReportRepo
	snapshots *fakeAttentionRepo
	sweeper   *countingSweeper
	tokens    *token.Manager
	dataDir   string
}

func newTestEnv(t *testing.T, client *stubLLM) *testEnv {
	t.Helper()
	base := t.TempDir()

	layout := storage.NewLayout(config.PathsConfig{
		DataDir:       base,
		AudioDir:      filepath.Join(base, "audio"),
		TranscriptDir: filepath.Join(base, "transcripts"),
		ReportDir:     filepath.Join(base, "reports"),
		AvatarDir:     filepath.Join(base, "avatar"),
	})
	if err := layout.EnsureRoots(); err != nil {
		t.Fatalf("ensure roots failed: %v", err)
	}

	sessions := newFakeSessionRepo()
	reports := &fakeReportRepo{}
	snapshots := &fakeAttentionRepo{}
	sweeper := &countingSweeper{}
	tokens := token.NewManager("test-secret", time.Hour)

	service := NewService(
		sessions,
		reports,
		snapshots,
		tokens,
		grading.NewEngine(client, 2, zap.NewNop()),
		client,
		pdf.NewRenderer(filepath.Join(base, "reports"), "Test Co"),
		storage.NewTranscriptStore(layout),
		storage.NewLocalPublisher(),
		sweeper,
		time.Minute,
		zap.NewNop(),
	)

	return &testEnv{
		service:   service,
		sessions:  sessions,
		reports:   reports,
		snapshots: snapshots,
		sweeper:   sweeper,
		tokens:    tokens,
		dataDir:   base,
	}
}

func TestService_Start(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	result, err := env.service.Start(context.Background(), "General")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if len(result.SessionID) != 32 {
		t.Fatalf("expected 32-char hex session id, got %q", result.SessionID)
	}
	if len(result.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(result.Questions))
	}
	if env.sweeper.calls != 1 {
		t.Fatalf("expected retention sweep on start, got %d calls", env.sweeper.calls)
	}

	subject, err := env.tokens.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("issued credential does not verify: %v", err)
	}
	if subject != result.SessionID {
		t.Fatalf("credential subject %q does not match session %q", subject, result.SessionID)
	}

	stored, ok := env.sessions.sessions[result.SessionID]
	if !ok {
		t.Fatal("session was not persisted")
	}
	if stored.Role != "general" {
		t.Fatalf("expected role lowercased, got %q", stored.Role)
	}
}

func TestService_Start_UnknownRoleFallsBackToGeneral(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	result, err := env.service.Start(context.Background(), "astronaut")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if result.Questions[0] != "Tell me about yourself." {
		t.Fatalf("expected general track, got %q", result.Questions[0])
	}
}

func TestService_Finalize_SubjectMismatchForbidden(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	_, err := env.service.Finalize(context.Background(), "someone-else", FinalizeInput{SessionID: "sess-1"})
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_FORBIDDEN {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestService_Finalize_UnknownSessionNotFound(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	_, err := env.service.Finalize(context.Background(), "missing", FinalizeInput{SessionID: "missing"})
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_SESSION_NOT_FOUND {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestService_Finalize_LengthMismatch(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	start, err := env.service.Start(context.Background(), "general")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	_, err = env.service.Finalize(context.Background(), start.SessionID, FinalizeInput{
		SessionID:   start.SessionID,
		Transcripts: []entities.AnswerRecord{{Question: "q", Transcript: "a"}},
	})
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_LENGTH_MISMATCH {
		t.Fatalf("expected length mismatch, got %v", err)
	}
}

func TestService_Finalize_EndToEnd(t *testing.T) {
	// Backend errors force both heuristic grading and the summary fallback.
	env := newTestEnv(t, &stubLLM{err: errors.New("provider down")})

	start, err := env.service.Start(context.Background(), "general")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	answers := make([]entities.AnswerRecord, len(start.Questions))
	for i, q := range start.Questions {
		answers[i] = entities.AnswerRecord{Question: q, Transcript: "First I thought about it, then I answered clearly."}
	}

	result, err := env.service.Finalize(context.Background(), start.SessionID, FinalizeInput{
		SessionID:        start.SessionID,
		Transcripts:      answers,
		AttentionSummary: map[string]float64{"focused_ratio": 0.8, "distracted_ratio": 0.2},
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if len(result.Questions) != len(start.Questions) {
		t.Fatalf("expected one report per question, got %d", len(result.Questions))
	}
	if !strings.HasSuffix(result.PDFURL, pdf.ReportFileName) {
		t.Fatalf("pdf url should end with report filename, got %q", result.PDFURL)
	}
	if result.Summary != summaryFallback {
		t.Fatalf("expected fallback summary, got %q", result.Summary)
	}
	for _, qr := range result.Questions {
		if qr.Scores.Total != qr.Scores.Sum() {
			t.Fatalf("total does not equal metric sum: %+v", qr.Scores)
		}
	}

	if len(env.reports.reports) != 1 {
		t.Fatalf("expected one persisted report, got %d", len(env.reports.reports))
	}

	pdfPath := filepath.Join(env.dataDir, "reports", start.SessionID, pdf.ReportFileName)
	if _, err := os.Stat(pdfPath); err != nil {
		t.Fatalf("expected rendered pdf at %s: %v", pdfPath, err)
	}

	transcriptPath := filepath.Join(env.dataDir, "transcripts", start.SessionID, storage.TranscriptFileName)
	data, err := os.ReadFile(transcriptPath)
	if err != nil {
		t.Fatalf("expected finalized transcript document: %v", err)
	}
	var final entities.FinalTranscript
	if err := json.Unmarshal(data, &final); err != nil {
		t.Fatalf("transcript document is not valid JSON: %v", err)
	}
	if len(final.Questions) != len(start.Questions) || len(final.Scores) != len(start.Questions) {
		t.Fatalf("finalized transcript incomplete: %+v", final)
	}
}

func TestService_Finalize_PermitsSecondFinalize(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("provider down")})

	start, err := env.service.Start(context.Background(), "general")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	answers := make([]entities.AnswerRecord, len(start.Questions))
	for i, q := range start.Questions {
		answers[i] = entities.AnswerRecord{Question: q, Transcript: "An answer."}
	}
	input := FinalizeInput{SessionID: start.SessionID, Transcripts: answers}

	if _, err := env.service.Finalize(context.Background(), start.SessionID, input); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if _, err := env.service.Finalize(context.Background(), start.SessionID, input); err != nil {
		t.Fatalf("second finalize failed: %v", err)
	}
	if len(env.reports.reports) != 2 {
		t.Fatalf("expected duplicate report rows on re-finalize, got %d", len(env.reports.reports))
	}
}

func TestService_Attention_RecordAndQuery(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	summary, err := env.service.RecordAttention(context.Background(), "sess-att", entities.AttentionStateFocused)
	if err != nil {
		t.Fatalf("record attention failed: %v", err)
	}
	if summary.FocusedRatio != 1.0 {
		t.Fatalf("expected focused ratio 1.0, got %f", summary.FocusedRatio)
	}

	snapshot, err := env.service.LatestAttention(context.Background(), "sess-att")
	if err != nil {
		t.Fatalf("latest attention failed: %v", err)
	}
	if snapshot.State != entities.AttentionStateFocused {
		t.Fatalf("unexpected snapshot state %q", snapshot.State)
	}
	if snapshot.Score == nil || *snapshot.Score != 1.0 {
		t.Fatalf("unexpected snapshot score %+v", snapshot.Score)
	}
}

func TestService_LatestAttention_NotFound(t *testing.T) {
	env := newTestEnv(t, &stubLLM{err: errors.New("unused")})

	_, err := env.service.LatestAttention(context.Background(), "nobody")
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrorCode_NOT_FOUND {
		t.Fatalf("expected not found, got %v", err)
	}
}
