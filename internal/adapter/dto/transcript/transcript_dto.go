package transcript

// AppendRequest appends one transcribed answer fragment
type AppendRequest struct {
	SessionID     string `json:"session_id" validate:"required"`
	Text          string `json:"text" validate:"required"`
	QuestionIndex int    `json:"question_index" validate:"gte=0"`
}

// AppendResponse acknowledges one append
type AppendResponse struct {
	Status string `json:"status"`
}
