// Package analyzer turns a free-text question into a QuestionAnalysis.
package analyzer

import (
	"strings"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/models"
)

type Analyzer struct {
	extractor *Extractor
}

func New(cat *catalog.Catalog) *Analyzer {
	return &Analyzer{extractor: NewExtractor(cat)}
}

func (a *Analyzer) Analyze(question string) models.QuestionAnalysis {
	lower := strings.ToLower(question)
	entities := a.extractor.Extract(lower)

	return models.QuestionAnalysis{
		Question:   question,
		Intent:     Classify(lower, entities),
		Entities:   entities,
		Confidence: Confidence(entities),
	}
}
