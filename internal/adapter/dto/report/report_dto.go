package report

import (
	"time"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// TranscriptItem is one submitted question/answer pair
type TranscriptItem struct {
	Question   string     `json:"question" validate:"required"`
	Transcript string     `json:"transcript" validate:"required"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// FinalizeRequest finalizes a session into a graded report
type FinalizeRequest struct {
	SessionID        string             `json:"session_id" validate:"required"`
	Transcripts      []TranscriptItem   `json:"transcripts" validate:"required,min=1,dive"`
	AttentionSummary map[string]float64 `json:"attention_summary,omitempty"`
}

// FinalizeResponse returns the graded report and its published PDF
type FinalizeResponse struct {
	SessionID string                    `json:"session_id"`
	PDFURL    string                    `json:"pdf_url"`
	Summary   string                    `json:"summary"`
	Questions []entities.QuestionReport `json:"questions"`
}
