package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	transcriptdto "github.com/ai-interviewer-team/ai-interviewer/internal/adapter/dto/transcript"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/http/middleware"
	"github.com/ai-interviewer-team/ai-interviewer/internal/infrastructure/storage"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
)

// CloseUnauthorized is the websocket close code for credential failures
const CloseUnauthorized = 4401

// Transcript handles transcript append and streaming routes
type Transcript struct {
	store    *storage.TranscriptStore
	tokens   *token.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewTranscript creates the transcript handler
func NewTranscript(store *storage.TranscriptStore, tokens *token.Manager, logger *zap.Logger) *Transcript {
	return &Transcript{
		store:  store,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			// Browser clients connect cross-origin during interviews;
			// the credential in the query parameter is the gate.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Append adds one transcribed fragment to the session transcript
func (h *Transcript) Append(c echo.Context) error {
	var req transcriptdto.AppendRequest
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
	if subject != req.SessionID {
		return HandleError(c, h.logger, apperrors.ErrForbidden("Token does not match session"))
	}

	if err := h.store.Append(req.SessionID, req.QuestionIndex, req.Text); err != nil {
		return HandleError(c, h.logger, apperrors.ErrStorageFailed("append transcript", err))
	}

	return c.JSON(http.StatusOK, transcriptdto.AppendResponse{Status: "ok"})
}

// Stream serves the websocket transcript channel. The credential arrives
// as a query parameter; every inbound text frame becomes one append at
// question index 0 and is acknowledged individually.
func (h *Transcript) Stream(c echo.Context) error {
	sessionID := c.Param("session_id")

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	raw := c.QueryParam("token")
	if raw == "" {
		return h.closeUnauthorized(conn)
	}
	subject, err := h.tokens.Verify(raw)
	if err != nil || subject != sessionID {
		return h.closeUnauthorized(conn)
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed",
					zap.String("session_id", sessionID),
					zap.Error(err),
				)
			} else {
				h.logger.Info("websocket disconnected", zap.String("session_id", sessionID))
			}
			return nil
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if err := h.store.Append(sessionID, 0, string(data)); err != nil {
			h.logger.Error("streamed append failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return nil
		}
		if err := conn.WriteJSON(map[string]string{"status": "ok"}); err != nil {
			return nil
		}
	}
}

func (h *Transcript) closeUnauthorized(conn *websocket.Conn) error {
	message := websocket.FormatCloseMessage(CloseUnauthorized, "unauthorized")
	_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	return nil
}
