// internal/models/analysis.go
package models

// Intent is the classified purpose of a question.
type Intent string

const (
	IntentComparison    Intent = "comparison"
	IntentRankedLeaders Intent = "ranked_leaders"
	IntentPlayByPlay    Intent = "play_by_play"
	IntentPlayerStats   Intent = "player_stats"
	IntentGameResult    Intent = "game_result"
	IntentGeneral       Intent = "general"
)

// Temporal holds the time qualifiers found in a question.
type Temporal struct {
	Last         bool   `json:"last,omitempty"`
	ThisSeason   bool   `json:"this_season,omitempty"`
	Career       bool   `json:"career,omitempty"`
	Season       bool   `json:"season,omitempty"`
	SpecificDate string `json:"specific_date,omitempty"`
}

// Any reports whether at least one qualifier was detected.
func (t Temporal) Any() bool {
	return t.Last || t.ThisSeason || t.Career || t.Season || t.SpecificDate != ""
}

// Entities groups everything the extractor recognized. Absent entities are
// empty slices, zero values or nil pointers, never placeholders.
type Entities struct {
	People           []Person `json:"people"`
	Teams            []Team   `json:"teams"`
	Stats            []string `json:"stats"`
	Temporal         Temporal `json:"temporal"`
	GameID           string   `json:"game_id,omitempty"`
	TopN             *int     `json:"top_n,omitempty"`
	RankingRequested bool     `json:"league_leader"`
	Comparison       bool     `json:"comparison"`
}

// QuestionAnalysis is built once per question and never mutated afterwards.
type QuestionAnalysis struct {
	Question   string   `json:"question"`
	Intent     Intent   `json:"intent"`
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"confidence"`
}
