package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// AttentionRepository implements the attention snapshot repository using GORM
type AttentionRepository struct {
	db *gorm.DB
}

// NewAttentionRepository creates a new attention repository
func NewAttentionRepository(db *gorm.DB) *AttentionRepository {
	return &AttentionRepository{
		db: db,
	}
}

// Create creates a new attention snapshot
func (r *AttentionRepository) Create(ctx context.Context, snapshot *entities.AttentionSnapshot) error {
	if err := r.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to create attention snapshot: %w", err)
	}
	return nil
}

// FindLatestBySessionID returns the newest snapshot for a session
func (r *AttentionRepository) FindLatestBySessionID(ctx context.Context, sessionID string) (*entities.AttentionSnapshot, error) {
	var snapshot entities.AttentionSnapshot
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to find attention snapshot: %w", err)
	}
	return &snapshot, nil
}
