// internal/workers/qa/analyze-question/models.go
package analyzequestion

import "nba-qa-workers/internal/models"

type Input struct {
	Question string `json:"question"`
}

// Output carries the intent as a flat variable so a BPMN gateway can route on it.
type Output struct {
	Intent     models.Intent   `json:"intent"`
	Entities   models.Entities `json:"entities"`
	Confidence float64         `json:"confidence"`
}
