package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	reportdto "github.com/ai-interviewer-team/ai-interviewer/internal/adapter/dto/report"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/internal/usecase/interview"
)

// Report handles report finalization
type Report struct {
	service *interview.Service
	logger  *zap.Logger
}

// NewReport creates the report handler
func NewReport(service *interview.Service, logger *zap.Logger) *Report {
	return &Report{
		service: service,
		logger:  logger,
	}
}

// Finalize grades the session and returns the published report
func (h *Report) Finalize(c echo.Context) error {
	var req reportdto.FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, h.logger, apperrors.ErrInvalidArgument(err.Error()))
	}

	subject, ok := middleware.SubjectFromContext(c)
	if !ok {
		return HandleError(c, h.logger, apperrors.ErrUnauthenticated())
	}

	transcripts := make([]entities.AnswerRecord, len(req.Transcripts))
	for i, item := range req.Transcripts {
		transcripts[i] = entities.AnswerRecord{
			Question:   item.Question,
			Transcript: item.Transcript,
			RecordedAt: item.RecordedAt,
		}
	}

	result, err := h.service.Finalize(c.Request().Context(), subject, interview.FinalizeInput{
		SessionID:        req.SessionID,
		Transcripts:      transcripts,
		AttentionSummary: req.AttentionSummary,
	})
	if err != nil {
		return HandleError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, reportdto.FinalizeResponse{
		SessionID: result.SessionID,
		PDFURL:    result.PDFURL,
		Summary:   result.Summary,
		Questions: result.Questions,
	})
}
