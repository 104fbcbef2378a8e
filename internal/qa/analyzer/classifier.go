package analyzer

import (
	"math"

	"nba-qa-workers/internal/models"
)

type rule struct {
	intent  models.Intent
	matches func(question string, e models.Entities) bool
}

// rules are evaluated in order and the first match wins.
var rules = []rule{
	{models.IntentComparison, func(_ string, e models.Entities) bool {
		return e.Comparison
	}},
	{models.IntentRankedLeaders, func(_ string, e models.Entities) bool {
		return e.RankingRequested && len(e.Stats) > 0
	}},
	{models.IntentPlayByPlay, func(q string, _ models.Entities) bool {
		return containsAny(q, playKeywords)
	}},
	{models.IntentPlayerStats, func(_ string, e models.Entities) bool {
		return len(e.People) > 0 && len(e.Stats) > 0
	}},
	{models.IntentGameResult, func(q string, e models.Entities) bool {
		return len(e.Teams) > 0 && containsAny(q, gameKeywords)
	}},
	{models.IntentGameResult, func(_ string, e models.Entities) bool {
		return e.GameID != ""
	}},
}

func Classify(question string, e models.Entities) models.Intent {
	for _, r := range rules {
		if r.matches(question, e) {
			return r.intent
		}
	}
	return models.IntentGeneral
}

// Confidence is a completeness heuristic over which entity kinds were found.
func Confidence(e models.Entities) float64 {
	score := 0.0
	if len(e.People) > 0 {
		score += 0.3
	}
	if len(e.Teams) > 0 {
		score += 0.2
	}
	if len(e.Stats) > 0 {
		score += 0.2
	}
	if e.Temporal.Any() {
		score += 0.2
	}
	if e.GameID != "" {
		score += 0.1
	}
	return math.Min(score, 1.0)
}
