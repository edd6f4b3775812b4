package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	interviewdto "github.com/ai-interviewer-team/ai-interviewer/internal/adapter/dto/interview"
	reportdto "github.com/ai-interviewer-team/ai-interviewer/internal/adapter/dto/report"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	httpmw "github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/storage"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/grading"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/interview"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/llm"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/pdf"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
	pkgvalidator "github.com/ai-interviewer-team/ai-interviewer/pkg/validator"
)

type memSessionRepo struct {
	sessions map[string]*entities.InterviewSession
}

func (r *memSessionRepo) Create(_ context.Context, s *entities.InterviewSession) error {
	r.sessions[s.SessionID] = s
	return nil
}

func (r *memSessionRepo) FindByID(_ context.Context, id string) (*entities.InterviewSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) DeleteByID(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

type memReportRepo struct {
	reports []*entities.InterviewReport
}

func (r *memReportRepo) Create(_ context.Context, report *entities.InterviewReport) error {
	r.reports = append(r.reports, report)
	return nil
}

func (r *memReportRepo) FindLatestBySessionID(_ context.Context, id string) (*entities.InterviewReport, error) {
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].SessionID == id {
			return r.reports[i], nil
		}
	}
	return nil, entities.ErrReportNotFound
}

type memAttentionRepo struct {
	snapshots []*entities.AttentionSnapshot
}

func (r *memAttentionRepo) Create(_ context.Context, s *entities.AttentionSnapshot) error {
	r.snapshots = append(r.snapshots, s)
	return nil
}

func (r *memAttentionRepo) FindLatestBySessionID(_ context.Context, id string) (*entities.AttentionSnapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].SessionID == id {
			return r.snapshots[i], nil
		}
	}
	return nil, entities.ErrSnapshotNotFound
}

type noopSweeper struct{}

func (noopSweeper) PurgeExpired() {}

type apiHarness struct {
	e      *echo.Echo
	tokens *token.Manager
	store  *storage.TranscriptStore
	cfg    *config.Config
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	base := t.TempDir()

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Paths = config.PathsConfig{
		DataDir:       base,
		AudioDir:      filepath.Join(base, "audio"),
		TranscriptDir: filepath.Join(base, "transcripts"),
		ReportDir:     filepath.Join(base, "reports"),
		AvatarDir:     filepath.Join(base, "avatar"),
	}

	layout := storage.NewLayout(cfg.Paths)
	if err := layout.EnsureRoots(); err != nil {
		t.Fatalf("ensure roots failed: %v", err)
	}

	logger := zap.NewNop()
	tokens := token.NewManager("handler-test-secret", time.Hour)
	store := storage.NewTranscriptStore(layout)
	client := llm.NewMockClient()

	service := interview.NewService(
		&memSessionRepo{sessions: make(map[string]*entities.InterviewSession)},
		&memReportRepo{},
		&memAttentionRepo{},
		tokens,
		grading.NewEngine(client, 2, logger),
		client,
		pdf.NewRenderer(cfg.Paths.ReportDir, "Test Co"),
		store,
		storage.NewLocalPublisher(),
		noopSweeper{},
		time.Minute,
		logger,
	)

	e := echo.New()
	e.Validator = pkgvalidator.New()

	auth := httpmw.NewCredentialAuth(tokens)
	router := NewRouter(
		cfg,
		auth,
		NewInterview(service, logger),
		NewTranscript(store, tokens, logger),
		NewReport(service, logger),
	)
	router.Setup(e)

	return &apiHarness{e: e, tokens: tokens, store: store, cfg: cfg}
}

func (h *apiHarness) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *apiHarness) startSession(t *testing.T, role string) interviewdto.StartResponse {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/v1/interview/start", "", map[string]string{"role": role})
	if rec.Code != http.StatusOK {
		t.Fatalf("start returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp interviewdto.StartResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid start response: %v", err)
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
}

func TestStartInterview(t *testing.T) {
	h := newAPIHarness(t)

	resp := h.startSession(t, "engineering")
	if len(resp.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(resp.Questions))
	}
	if resp.Token.TokenType != "bearer" {
		t.Fatalf("unexpected token type %q", resp.Token.TokenType)
	}
	if resp.Questions[0] != "Explain the SOLID principles." {
		t.Fatalf("expected engineering track, got %q", resp.Questions[0])
	}
}

func TestStartInterview_MissingRole(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/interview/start", "", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAppendTranscript_RequiresCredential(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodPost, "/v1/stt/append", "", map[string]interface{}{
		"session_id": "sess", "text": "hello", "question_index": 0,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAppendTranscript_WrongSessionForbidden(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	rec := h.do(t, http.MethodPost, "/v1/stt/append", session.Token.AccessToken, map[string]interface{}{
		"session_id": "some-other-session", "text": "hello", "question_index": 0,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAttentionSnapshot_NotFound(t *testing.T) {
	h := newAPIHarness(t)

	rec := h.do(t, http.MethodGet, "/v1/interview/nobody/attention", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAttention_RecordThenQuery(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	rec := h.do(t, http.MethodPost, fmt.Sprintf("/v1/interview/%s/attention", session.SessionID),
		session.Token.AccessToken, map[string]string{"state": "focused"})
	if rec.Code != http.StatusOK {
		t.Fatalf("record attention returned %d: %s", rec.Code, rec.Body.String())
	}
	var summary interviewdto.AttentionSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("invalid summary response: %v", err)
	}
	if summary.FocusedRatio != 1.0 {
		t.Fatalf("expected focused ratio 1.0, got %f", summary.FocusedRatio)
	}

	rec = h.do(t, http.MethodGet, fmt.Sprintf("/v1/interview/%s/attention", session.SessionID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot query returned %d", rec.Code)
	}
	var snapshot interviewdto.AttentionSnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("invalid snapshot response: %v", err)
	}
	if snapshot.State != "focused" {
		t.Fatalf("unexpected snapshot state %q", snapshot.State)
	}
}

func TestInterviewFlow_StartAppendFinalize(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	rec := h.do(t, http.MethodPost, "/v1/stt/append", session.Token.AccessToken, map[string]interface{}{
		"session_id": session.SessionID, "text": "partial streamed answer", "question_index": 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("append returned %d: %s", rec.Code, rec.Body.String())
	}

	items := make([]map[string]interface{}, len(session.Questions))
	for i, q := range session.Questions {
		items[i] = map[string]interface{}{
			"question":   q,
			"transcript": "First I considered the problem, then I explained my approach clearly.",
		}
	}
	rec = h.do(t, http.MethodPost, "/v1/report/finalize", session.Token.AccessToken, map[string]interface{}{
		"session_id":  session.SessionID,
		"transcripts": items,
		"attention_summary": map[string]float64{
			"focused_ratio": 0.9, "distracted_ratio": 0.1,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("finalize returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp reportdto.FinalizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid finalize response: %v", err)
	}
	if len(resp.Questions) != len(session.Questions) {
		t.Fatalf("expected %d question reports, got %d", len(session.Questions), len(resp.Questions))
	}
	if !strings.HasSuffix(resp.PDFURL, pdf.ReportFileName) {
		t.Fatalf("pdf url should end with %s, got %q", pdf.ReportFileName, resp.PDFURL)
	}
	if resp.Summary == "" {
		t.Fatal("expected a non-empty summary")
	}

	// The finalized snapshot overwrote the streamed partial.
	doc, err := h.store.Read(session.SessionID)
	if err != nil {
		t.Fatalf("transcript read failed: %v", err)
	}
	if len(doc.Entries) != 0 {
		t.Fatalf("expected streamed entries replaced by snapshot, got %+v", doc.Entries)
	}

	// The PDF is served at its stable static path.
	rec = h.do(t, http.MethodGet, resp.PDFURL, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("static pdf fetch returned %d", rec.Code)
	}
}

func TestFinalize_TranscriptCountMismatch(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	rec := h.do(t, http.MethodPost, "/v1/report/finalize", session.Token.AccessToken, map[string]interface{}{
		"session_id": session.SessionID,
		"transcripts": []map[string]interface{}{
			{"question": session.Questions[0], "transcript": "only one answer"},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on count mismatch, got %d: %s", rec.Code, rec.Body.String())
	}
	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("invalid error response: %v", err)
	}
	if errResp.Error != "LENGTH_MISMATCH" {
		t.Fatalf("unexpected error code %q", errResp.Error)
	}
}

func TestStream_AppendsAndAcks(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	server := httptest.NewServer(h.e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") +
		fmt.Sprintf("/v1/stt/stream/%s?token=%s", session.SessionID, session.Token.AccessToken)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("streamed fragment")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var ack map[string]string
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack failed: %v", err)
	}
	if ack["status"] != "ok" {
		t.Fatalf("unexpected ack %+v", ack)
	}

	doc, err := h.store.Read(session.SessionID)
	if err != nil {
		t.Fatalf("transcript read failed: %v", err)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Text != "streamed fragment" {
		t.Fatalf("unexpected transcript document: %+v", doc)
	}
	if doc.Entries[0].QuestionIndex != 0 {
		t.Fatalf("streamed entries must use question index 0, got %d", doc.Entries[0].QuestionIndex)
	}
}

func TestStream_BadCredentialCloses4401(t *testing.T) {
	h := newAPIHarness(t)
	session := h.startSession(t, "general")

	server := httptest.NewServer(h.e)
	defer server.Close()

	cases := map[string]string{
		"missing":    "",
		"garbage":    "?token=not-a-token",
		"mismatched": "?token=" + mustIssue(t, h.tokens, "other-session"),
	}

	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			url := "ws" + strings.TrimPrefix(server.URL, "http") +
				fmt.Sprintf("/v1/stt/stream/%s%s", session.SessionID, query)
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Fatalf("dial failed: %v", err)
			}
			defer conn.Close()

			_, _, err = conn.ReadMessage()
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) || closeErr.Code != CloseUnauthorized {
				t.Fatalf("expected close code %d, got %v", CloseUnauthorized, err)
			}
		})
	}
}

func mustIssue(t *testing.T, tokens *token.Manager, sessionID string) string {
	t.Helper()
	raw, err := tokens.Issue(sessionID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	return raw
}
