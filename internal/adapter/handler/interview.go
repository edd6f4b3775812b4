package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	interviewdto "github.com/ai-interviewer-team/ai-interviewer/internal/adapter/dto/interview"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/interview"
)

// Interview handles session lifecycle and attention routes
type Interview struct {
	service *interview.Service
	logger  *zap.Logger
}

// NewInterview creates the interview handler
func NewInterview(service *interview.Service, logger *zap.Logger) *Interview {
	return &Interview{
		service: service,
		logger:  logger,
	}
}

// Start creates a new session and returns its question track and credential
func (h *Interview) Start(c echo.Context) error {
	var req interviewdto.StartRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.service.Start(c.Request().Context(), req.Role)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, interviewdto.StartResponse{
		SessionID: result.SessionID,
		Questions: result.Questions,
		Token: interviewdto.TokenResponse{
			AccessToken: result.AccessToken,
			TokenType:   "bearer",
		},
	})
}

// RecordAttention feeds one attention event into the session's window.
// The credential subject must match the session in the path.
func (h *Interview) RecordAttention(c echo.Context) error {
	sessionID := c.Param("session_id")

	subject, ok := middleware.SubjectFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthenticated())
	}
	if subject != sessionID {
		return HandleError(c, h.logger, apperrors.ErrForbidden("Token does not match session"))
	}

	var req interviewdto.AttentionEventRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	summary, err := h.service.RecordAttention(c.Request().Context(), sessionID, req.State)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, interviewdto.AttentionSummaryResponse{
		FocusedRatio:    summary.FocusedRatio,
		DistractedRatio: summary.DistractedRatio,
	})
}

// AttentionSnapshot returns the most recent persisted snapshot for a session
func (h *Interview) AttentionSnapshot(c echo.Context) error {
	sessionID := c.Param("session_id")

	snapshot, err := h.service.LatestAttention(c.Request().Context(), sessionID)
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, interviewdto.AttentionSnapshotResponse{
		State:     snapshot.State,
		Score:     snapshot.Score,
		LastEvent: snapshot.LastEvent,
	})
}
