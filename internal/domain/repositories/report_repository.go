package repositories

import (
	"context"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// ReportRepository defines the interface for interview report data access
type ReportRepository interface {
	// Create persists a new report row. A session may accumulate several
	// rows when finalize is called more than once.
	Create(ctx context.Context, report *entities.InterviewReport) error

	// FindLatestBySessionID returns the most recent report for a session
	FindLatestBySessionID(ctx context.Context, sessionID string) (*entities.InterviewReport, error)
}
