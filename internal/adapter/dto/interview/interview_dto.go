package interview

// StartRequest starts a new interview session for a role
type StartRequest struct {
	Role string `json:"role" validate:"required"`
}

// TokenResponse carries the session bearer credential
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StartResponse returns the created session and its question track
type StartResponse struct {
	SessionID string        `json:"session_id"`
	Questions []string      `json:"questions"`
	Token     TokenResponse `json:"token"`
}

// AttentionEventRequest records one attention state observation
type AttentionEventRequest struct {
	State string `json:"state" validate:"required,oneof=focused distracted unknown"`
}

// AttentionSummaryResponse returns window ratios after recording an event
type AttentionSummaryResponse struct {
	FocusedRatio    float64 `json:"focused_ratio"`
	DistractedRatio float64 `json:"distracted_ratio"`
}

// AttentionSnapshotResponse returns the most recent persisted snapshot
type AttentionSnapshotResponse struct {
	State     string   `json:"state"`
	Score     *float64 `json:"score,omitempty"`
	LastEvent *string  `json:"last_event,omitempty"`
}
