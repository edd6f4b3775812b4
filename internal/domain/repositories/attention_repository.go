package repositories

import (
	"context"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// AttentionRepository defines the interface for attention snapshot data access
type AttentionRepository interface {
	// Create persists a new attention snapshot
	Create(ctx context.Context, snapshot *entities.AttentionSnapshot) error

	// FindLatestBySessionID returns the newest snapshot for a session
	FindLatestBySessionID(ctx context.Context, sessionID string) (*entities.AttentionSnapshot, error)
}
