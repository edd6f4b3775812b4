package entities

import (
	"time"

	"github.com/google/uuid"
)

// Canonical attention states
const (
	AttentionStateFocused    = "focused"
	AttentionStateDistracted = "distracted"
	AttentionStateUnknown    = "unknown"
)

// AttentionEvent is one observation in the sliding attention window.
// Events are ephemeral: they live only in the in-memory tracker buffer.
type AttentionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	State     string    `json:"state"`
}

// AttentionSummary is the bounded summary computed over the window
type AttentionSummary struct {
	FocusedRatio    float64 `json:"focused_ratio"`
	DistractedRatio float64 `json:"distracted_ratio"`
}

// AttentionSnapshot is a persisted sample of the live tracker state
type AttentionSnapshot struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);not null;index"`
	State     string    `json:"state" gorm:"type:varchar(32);default:'unknown'"`
	Score     *float64  `json:"score,omitempty"`
	LastEvent *string   `json:"last_event,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AttentionSnapshot) TableName() string {
	return "attention_snapshots"
}

// NewAttentionSnapshot creates a new snapshot record
func NewAttentionSnapshot(sessionID, state string, score *float64, lastEvent *string) *AttentionSnapshot {
	return &AttentionSnapshot{
		ID:        uuid.New(),
		SessionID: sessionID,
		State:     state,
		Score:     score,
		LastEvent: lastEvent,
		CreatedAt: time.Now(),
	}
}
