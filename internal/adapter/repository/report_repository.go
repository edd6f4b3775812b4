package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// ReportRepository implements the report repository interface using GORM
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

// Create creates a new interview report row
func (r *ReportRepository) Create(ctx context.Context, report *entities.InterviewReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// FindLatestBySessionID returns the most recent report for a session
func (r *ReportRepository) FindLatestBySessionID(ctx context.Context, sessionID string) (*entities.InterviewReport, error) {
	var report entities.InterviewReport
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report by session ID: %w", err)
	}
	return &report, nil
}
