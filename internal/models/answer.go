// internal/models/answer.go
package models

// Provenance describes the source records behind one narrative block.
type Provenance struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	GameID     string `json:"game_id,omitempty"`
	GameDate   string `json:"game_date,omitempty"`
	Team       string `json:"team,omitempty"`
	StatType   string `json:"stat_type,omitempty"`
	StatAbbrev string `json:"stat_abbrev,omitempty"`
}

// SynthesizedContext is the rendered narrative together with its provenance.
type SynthesizedContext struct {
	Narrative  string       `json:"narrative"`
	Provenance []Provenance `json:"provenance"`
}

// Answer is the final result for one question. Confidence 0 means no answer
// could be produced.
type Answer struct {
	Text       string       `json:"answer"`
	Confidence float64      `json:"confidence"`
	Context    string       `json:"context_used"`
	Sources    []Provenance `json:"sources"`
	Records    RecordSet    `json:"raw_data"`
}
