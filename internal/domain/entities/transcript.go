package entities

import "time"

// TranscriptEntry is one appended piece of transcribed answer text.
// Entries keep chronological receipt order, not question order.
type TranscriptEntry struct {
	QuestionIndex int       `json:"question_index"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
}

// TranscriptDocument is the append-only per-session transcript log.
// The whole document is read, mutated in memory, and rewritten on append.
type TranscriptDocument struct {
	Entries []TranscriptEntry `json:"entries"`
}

// Append adds an entry at the end of the document
func (d *TranscriptDocument) Append(questionIndex int, text string, timestamp time.Time) {
	d.Entries = append(d.Entries, TranscriptEntry{
		QuestionIndex: questionIndex,
		Text:          text,
		Timestamp:     timestamp,
	})
}

// AnswerRecord is one submitted question/answer pair at finalize time
type AnswerRecord struct {
	Question   string     `json:"question"`
	Transcript string     `json:"transcript"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// FinalTranscript is the snapshot written at finalize, replacing any
// streamed partial transcript document for the session.
type FinalTranscript struct {
	Questions   []string         `json:"questions"`
	Transcripts []AnswerRecord   `json:"transcripts"`
	Scores      []ScoreBreakdown `json:"scores"`
}
