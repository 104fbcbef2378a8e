// internal/models/records.go
package models

// RecordKind tags the variant held by a RecordSet.
type RecordKind string

const (
	KindPlayerStats   RecordKind = "player_stats"
	KindGameData      RecordKind = "game_data"
	KindComparison    RecordKind = "comparison"
	KindPlayByPlay    RecordKind = "play_by_play"
	KindLeagueLeaders RecordKind = "league_leaders"
	KindGeneral       RecordKind = "general"
)

// RecordSet is the structured data retrieved for one question. Only the
// fields matching Kind are populated.
type RecordSet struct {
	Kind    RecordKind      `json:"kind"`
	Players []PlayerHistory `json:"players,omitempty"`
	Games   []GameRecord    `json:"games,omitempty"`
	Plays   *PlaySequence   `json:"plays,omitempty"`
	Leaders *LeaderList     `json:"leaders,omitempty"`
	Skipped []SkippedEntity `json:"skipped,omitempty"`
}

// Empty reports whether no variant carries data.
func (r RecordSet) Empty() bool {
	return len(r.Players) == 0 &&
		len(r.Games) == 0 &&
		(r.Plays == nil || len(r.Plays.Plays) == 0) &&
		(r.Leaders == nil || len(r.Leaders.Leaders) == 0)
}

// SkippedEntity records a sub-result dropped because its provider call failed.
type SkippedEntity struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// SeasonLine is one period of a player's statistical history (totals).
type SeasonLine struct {
	SeasonID    string  `json:"season_id"`
	GamesPlayed float64 `json:"gp"`
	Points      float64 `json:"pts"`
	Rebounds    float64 `json:"reb"`
	Assists     float64 `json:"ast"`
	Turnovers   float64 `json:"tov"`
	Blocks      float64 `json:"blk"`
}

// GameLine is one entry of a player's recent-activity window.
type GameLine struct {
	GameDate string  `json:"game_date"`
	Matchup  string  `json:"matchup"`
	Points   float64 `json:"pts"`
	Rebounds float64 `json:"reb"`
	Assists  float64 `json:"ast"`
}

// PlayerHistory is the per-person variant used by player_stats and comparison.
// Seasons are in provider order, most recent first.
type PlayerHistory struct {
	PlayerID    int64        `json:"player_id"`
	PlayerName  string       `json:"player_name"`
	Seasons     []SeasonLine `json:"seasons,omitempty"`
	RecentGames []GameLine   `json:"recent_games,omitempty"`
}

// BoxscoreLine is one player row of a game boxscore.
type BoxscoreLine struct {
	TeamAbbreviation string  `json:"team_abbreviation"`
	PlayerName       string  `json:"player_name"`
	Points           float64 `json:"pts"`
}

// DirectScore is the outcome derived for a "most recent game" question.
type DirectScore struct {
	TeamName      string `json:"team_name"`
	OpponentName  string `json:"opponent_name"`
	TeamScore     int    `json:"team_score"`
	OpponentScore int    `json:"opponent_score"`
	Result        string `json:"result"`
}

// Won reports whether the requested side won.
func (s DirectScore) Won() bool {
	return s.Result == "W"
}

// GameRecord is the per-game variant. Score is nil unless the dispatcher
// derived the outcome directly.
type GameRecord struct {
	GameID   string         `json:"game_id"`
	GameDate string         `json:"game_date,omitempty"`
	Matchup  string         `json:"matchup,omitempty"`
	Score    *DirectScore   `json:"score,omitempty"`
	Boxscore []BoxscoreLine `json:"boxscore,omitempty"`
}

// Play is one play-by-play event.
type Play struct {
	EventType   int    `json:"event_type"`
	PlayerName  string `json:"player_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsShot reports whether the event is a made or missed field goal.
func (p Play) IsShot() bool {
	return p.EventType == 1 || p.EventType == 2
}

// PlaySequence is the chronological event list of one game.
type PlaySequence struct {
	GameID string `json:"game_id"`
	Plays  []Play `json:"plays"`
}

// Leader is one entry of a ranked list.
type Leader struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Value      float64 `json:"stat_value"`
}

// LeaderList is the ranked-leader variant for a single statistic.
type LeaderList struct {
	StatKey    string   `json:"stat_type"`
	StatAbbrev string   `json:"stat_abbrev"`
	Leaders    []Leader `json:"leaders"`
}
