package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
)

// ErrorResponse is the JSON error body shared by every route
type ErrorResponse struct {
	Code    apperrors.ErrorCode `json:"code"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details map[string]string   `json:"details,omitempty"`
}

// HandleError maps an application error onto an HTTP response and logs
// the underlying cause. Unknown errors collapse to INTERNAL.
func HandleError(c echo.Context, logger *zap.Logger, err error) error {
	var appErr apperrors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = apperrors.ErrInternal(err)
	}

	if logger != nil {
		fields := []zap.Field{
			zap.String("path", c.Request().URL.Path),
			zap.String("method", c.Request().Method),
			zap.String("code", appErr.Code.String()),
		}
		if appErr.Raw != nil {
			fields = append(fields, zap.Error(appErr.Raw))
		}
		if appErr.HTTPCode >= 500 {
			logger.Error("request failed", fields...)
		} else {
			logger.Warn("request rejected", fields...)
		}
	}

	return c.JSON(appErr.HTTPCode, ErrorResponse{
		Code:    appErr.Code,
		Error:   appErr.Code.String(),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
