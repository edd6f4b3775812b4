package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/ai-interviewer-team/ai-interviewer/errors"
	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
	"github.com/ai-interviewer-team/ai-interviewer/pkg/token"
)

// SubjectContextKey is the echo context key holding the verified
// credential subject (the session id the token was issued for)
const SubjectContextKey = "credential_subject"

// CredentialAuth guards routes with the session bearer credential
type CredentialAuth struct {
	tokens *token.Manager
}

// NewCredentialAuth creates the credential middleware
func NewCredentialAuth(tokens *token.Manager) *CredentialAuth {
	return &CredentialAuth{tokens: tokens}
}

// Authenticate verifies the bearer credential and stores its subject on
// the request context. Subject-vs-session matching stays with handlers.
func (m *CredentialAuth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := extractBearer(c)
		if raw == "" {
			return writeError(c, apperrors.ErrUnauthenticated())
		}

		subject, err := m.tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, entities.ErrCredentialExpired) {
				return writeError(c, apperrors.ErrTokenExpired())
			}
			return writeError(c, apperrors.ErrInvalidToken())
		}

		c.Set(SubjectContextKey, subject)
		return next(c)
	}
}

// SubjectFromContext returns the verified subject set by Authenticate
func SubjectFromContext(c echo.Context) (string, bool) {
	subject, ok := c.Get(SubjectContextKey).(string)
	return subject, ok && subject != ""
}

func extractBearer(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(c echo.Context, appErr apperrors.AppError) error {
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"code":    appErr.Code,
		"error":   appErr.Code.String(),
		"message": appErr.Message,
	})
}
