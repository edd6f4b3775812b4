package repositories

import (
	"context"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// SessionRepository defines the interface for interview session data access
type SessionRepository interface {
	// Create persists a new interview session
	Create(ctx context.Context, session *entities.InterviewSession) error

	// FindByID finds a session by its session ID
	FindByID(ctx context.Context, sessionID string) (*entities.InterviewSession, error)

	// DeleteByID removes a session record
	DeleteByID(ctx context.Context, sessionID string) error
}
