package entities

// Score bounds for each grading metric
const (
	MetricMin = 1
	MetricMax = 5
)

// ScoreBreakdown holds the five grading metrics for one answer.
// Total is always the sum of the five metrics; it is recomputed by the
// grading normalizer and never trusted from an external source.
type ScoreBreakdown struct {
	Clarity     int    `json:"clarity"`
	Relevance   int    `json:"relevance"`
	Structure   int    `json:"structure"`
	Conciseness int    `json:"conciseness"`
	Confidence  int    `json:"confidence"`
	Total       int    `json:"total"`
	Commentary  string `json:"commentary,omitempty"`
}

// Sum returns the sum of the five metrics
func (s ScoreBreakdown) Sum() int {
	return s.Clarity + s.Relevance + s.Structure + s.Conciseness + s.Confidence
}

// RecomputeTotal sets Total to the sum of the five metrics
func (s *ScoreBreakdown) RecomputeTotal() {
	s.Total = s.Sum()
}

// QuestionReport pairs a question with the transcript and its scores.
// Built during finalize; aggregated into the response and the report record.
type QuestionReport struct {
	Question   string         `json:"question"`
	Transcript string         `json:"transcript"`
	Scores     ScoreBreakdown `json:"scores"`
}
