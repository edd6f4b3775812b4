package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// Manager issues and verifies session-bound bearer credentials.
// Credentials are self-contained signed tokens: nothing is persisted, so
// verification is stateless and instant revocation is not supported.
type Manager struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewManager creates a new credential manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		expiry: expiry,
		issuer: "ai-interviewer",
	}
}

// Issue produces a signed credential bound to the given session ID
func (m *Manager) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    m.issuer,
		Subject:   sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Verify validates a credential and returns the bound session ID.
// The caller must still check that the subject matches the session
// referenced by the request.
func (m *Manager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", entities.ErrCredentialExpired
		}
		return "", entities.ErrInvalidCredential
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", entities.ErrInvalidCredential
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", entities.ErrInvalidCredential
	}

	return claims.Subject, nil
}

// GetExpiry returns the configured credential lifetime
func (m *Manager) GetExpiry() time.Duration {
	return m.expiry
}
