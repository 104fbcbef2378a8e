// internal/workers/qa/answer-question/models.go
package answerquestion

import "nba-qa-workers/internal/models"

type Input struct {
	Question  string `json:"question"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	RequestID  string              `json:"requestId"`
	Answer     string              `json:"answer"`
	Confidence float64             `json:"confidence"`
	Intent     models.Intent       `json:"intent"`
	Sources    []models.Provenance `json:"sources"`
	ArchiveKey string              `json:"archiveKey,omitempty"`
}
