package entities

import (
	"time"
)

// InterviewSession represents one candidate's interview instance.
// The record is immutable after creation: finalize and credential checks
// only read it, and the retention sweep eventually deletes it.
type InterviewSession struct {
	SessionID string    `json:"session_id" gorm:"type:varchar(64);primary_key"`
	Role      string    `json:"role" gorm:"type:varchar(64);not null"`
	Questions []string  `json:"questions" gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	ExpiresAt time.Time `json:"expires_at" gorm:"type:timestamp;not null;index"`
}

// TableName specifies the table name for GORM
func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// NewInterviewSession creates a new interview session
func NewInterviewSession(sessionID, role string, questions []string, expiresAt time.Time) *InterviewSession {
	qs := make([]string, len(questions))
	copy(qs, questions)
	return &InterviewSession{
		SessionID: sessionID,
		Role:      role,
		Questions: qs,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

// IsExpired checks if the session is past its expiry
func (s *InterviewSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
