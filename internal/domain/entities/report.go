package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InterviewReport is the persisted outcome of a finalized session.
// Keyed by session_id but not unique: re-finalizing a session appends
// another row rather than replacing the first.
type InterviewReport struct {
	ID        uuid.UUID                             `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID string                                `json:"session_id" gorm:"type:varchar(64);not null;index"`
	Summary   string                                `json:"summary" gorm:"type:text"`
	Scores    datatypes.JSONType[[]ScoreBreakdown]  `json:"scores" gorm:"type:jsonb"`
	PDFPath   string                                `json:"pdf_path" gorm:"type:text"`
	CreatedAt time.Time                             `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (InterviewReport) TableName() string {
	return "interview_reports"
}

// NewInterviewReport creates a new interview report record
func NewInterviewReport(sessionID, summary string, scores []ScoreBreakdown, pdfPath string) *InterviewReport {
	return &InterviewReport{
		ID:        uuid.New(),
		SessionID: sessionID,
		Summary:   summary,
		Scores:    datatypes.NewJSONType(scores),
		PDFPath:   pdfPath,
		CreatedAt: time.Now(),
	}
}
