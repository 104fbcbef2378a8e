// Package retrieval fetches the provider records a classified question needs.
package retrieval

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"nba-qa-workers/internal/catalog"
	apperrors "nba-qa-workers/internal/common/errors"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/common/metrics"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/statsapi"
)

const (
	recentGamesWindow  = 5
	defaultLeaderCount = 5
)

// Dispatcher runs one retrieval strategy per intent. Provider failures
// degrade the affected sub-result and are recorded in RecordSet.Skipped;
// Dispatch itself never fails.
type Dispatcher struct {
	provider statsapi.Provider
	catalog  *catalog.Catalog
	season   string
	logger   logger.Logger
}

func NewDispatcher(provider statsapi.Provider, cat *catalog.Catalog, defaultSeason string, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		catalog:  cat,
		season:   defaultSeason,
		logger:   log.With(map[string]interface{}{"component": "retrieval"}),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, analysis models.QuestionAnalysis) models.RecordSet {
	e := analysis.Entities

	var set models.RecordSet
	switch analysis.Intent {
	case models.IntentPlayerStats:
		set = d.playerStats(ctx, e.People)
	case models.IntentGameResult:
		set = d.gameData(ctx, e)
	case models.IntentComparison:
		set = d.comparison(ctx, e.People)
	case models.IntentPlayByPlay:
		set = d.playByPlay(ctx, e)
	case models.IntentRankedLeaders:
		set = d.leaders(ctx, e)
	default:
		if len(e.People) > 0 {
			set = d.playerStats(ctx, e.People)
		} else {
			set = models.RecordSet{Kind: models.KindGeneral}
		}
	}

	d.logger.Debug("retrieval finished", map[string]interface{}{
		"intent":  string(analysis.Intent),
		"kind":    string(set.Kind),
		"empty":   set.Empty(),
		"skipped": len(set.Skipped),
	})
	return set
}

func (d *Dispatcher) skip(set *models.RecordSet, kind, id string, err error) {
	d.logger.Warn("provider call failed, skipping", map[string]interface{}{
		"kind":      kind,
		"id":        id,
		"errorCode": string(providerError(kind, err).Code),
		"error":     err.Error(),
	})
	metrics.SkippedEntities.WithLabelValues(kind).Inc()
	set.Skipped = append(set.Skipped, models.SkippedEntity{Kind: kind, ID: id, Reason: err.Error()})
}

func providerError(operation string, err error) *apperrors.StandardError {
	if errors.Is(err, statsapi.ErrProviderTimeout) {
		return apperrors.NewProviderTimeoutError(operation)
	}
	return apperrors.NewProviderRequestFailedError(operation, err)
}

func (d *Dispatcher) playerStats(ctx context.Context, people []models.Person) models.RecordSet {
	set := models.RecordSet{Kind: models.KindPlayerStats}
	for _, p := range people {
		id := strconv.FormatInt(p.ID, 10)

		career, err := d.provider.PlayerCareer(ctx, p.ID)
		if err != nil {
			d.skip(&set, "person", id, err)
			continue
		}
		gameLog, err := d.provider.PlayerGameLog(ctx, p.ID, d.season)
		if err != nil {
			d.skip(&set, "person", id, err)
			continue
		}

		if len(gameLog) > recentGamesWindow {
			gameLog = gameLog[:recentGamesWindow]
		}
		set.Players = append(set.Players, models.PlayerHistory{
			PlayerID:    p.ID,
			PlayerName:  p.FullName,
			Seasons:     seasonLines(career),
			RecentGames: gameLines(gameLog),
		})
	}
	return set
}

func (d *Dispatcher) comparison(ctx context.Context, people []models.Person) models.RecordSet {
	set := models.RecordSet{Kind: models.KindComparison}
	for _, p := range people {
		career, err := d.provider.PlayerCareer(ctx, p.ID)
		if err != nil {
			d.skip(&set, "person", strconv.FormatInt(p.ID, 10), err)
			continue
		}
		set.Players = append(set.Players, models.PlayerHistory{
			PlayerID:   p.ID,
			PlayerName: p.FullName,
			Seasons:    seasonLines(career),
		})
	}
	return set
}

func (d *Dispatcher) gameData(ctx context.Context, e models.Entities) models.RecordSet {
	set := models.RecordSet{Kind: models.KindGameData}

	switch {
	case e.GameID != "":
		rows, err := d.provider.Boxscore(ctx, e.GameID)
		if err != nil {
			d.skip(&set, "game", e.GameID, err)
			return set
		}
		set.Games = append(set.Games, models.GameRecord{GameID: e.GameID, Boxscore: boxscoreLines(rows)})

	case len(e.Teams) > 0 && e.Temporal.Last:
		d.lastTeamGame(ctx, &set, e.Teams[0])

	default:
		filter := statsapi.GameFilter{Season: d.season}
		if len(e.Teams) > 0 {
			filter.TeamID = &e.Teams[0].ID
		}
		if len(e.People) > 0 {
			filter.PlayerID = &e.People[0].ID
		}

		rows, err := d.provider.FindGames(ctx, filter)
		if err != nil {
			d.skip(&set, "game", "search", err)
			return set
		}
		if len(rows) == 0 {
			return set
		}

		recent := rows[0]
		gameID := recent.String("GAME_ID")
		box, err := d.provider.Boxscore(ctx, gameID)
		if err != nil {
			d.skip(&set, "game", gameID, err)
			return set
		}
		set.Games = append(set.Games, models.GameRecord{
			GameID:   gameID,
			GameDate: recent.String("GAME_DATE"),
			Matchup:  recent.String("MATCHUP"),
			Boxscore: boxscoreLines(box),
		})
	}
	return set
}

// lastTeamGame derives the most recent result for team from its full game
// history. The opponent score assumes PLUS_MINUS is team minus opponent.
func (d *Dispatcher) lastTeamGame(ctx context.Context, set *models.RecordSet, team models.Team) {
	if team.ID == 0 || team.FullName == "" {
		d.logger.Warn("unresolved team entity, skipping last game lookup", map[string]interface{}{
			"teamId":   team.ID,
			"teamName": team.FullName,
		})
		return
	}

	teamID := team.ID
	rows, err := d.provider.FindGames(ctx, statsapi.GameFilter{TeamID: &teamID})
	if err != nil {
		d.skip(set, "team", strconv.FormatInt(team.ID, 10), err)
		return
	}
	if len(rows) == 0 {
		return
	}

	dated := sortByDateDesc(rows)
	last := dated[0]

	gameID := last.row.String("GAME_ID")
	matchup := last.row.String("MATCHUP")
	teamPts := last.row.Float("PTS")
	oppPts := teamPts - last.row.Float("PLUS_MINUS")

	gameDate := last.row.String("GAME_DATE")
	if !last.date.IsZero() {
		gameDate = last.date.Format("2006-01-02")
	}

	box, err := d.provider.Boxscore(ctx, gameID)
	if err != nil {
		d.skip(set, "boxscore", gameID, err)
		box = nil
	}

	set.Games = append(set.Games, models.GameRecord{
		GameID:   gameID,
		GameDate: gameDate,
		Matchup:  matchup,
		Score: &models.DirectScore{
			TeamName:      team.FullName,
			OpponentName:  d.opponentName(matchup),
			TeamScore:     int(teamPts),
			OpponentScore: int(oppPts),
			Result:        last.row.String("WL"),
		},
		Boxscore: boxscoreLines(box),
	})
}

// opponentName reads "LAL vs. GSW" or "LAL @ GSW".
func (d *Dispatcher) opponentName(matchup string) string {
	parts := strings.Fields(matchup)
	if len(parts) < 3 {
		return "Opponent"
	}
	abbrev := parts[len(parts)-1]
	if t, ok := d.catalog.TeamByAbbreviation(abbrev); ok {
		return t.FullName
	}
	return abbrev
}

func (d *Dispatcher) playByPlay(ctx context.Context, e models.Entities) models.RecordSet {
	set := models.RecordSet{Kind: models.KindPlayByPlay}

	gameID := e.GameID
	if gameID == "" && len(e.People) > 0 {
		playerID := e.People[0].ID
		rows, err := d.provider.FindGames(ctx, statsapi.GameFilter{PlayerID: &playerID, Season: d.season})
		if err != nil {
			d.skip(&set, "game", "search", err)
		} else if len(rows) > 0 {
			gameID = rows[0].String("GAME_ID")
		}
	}
	if gameID == "" {
		return set
	}

	rows, err := d.provider.PlayByPlay(ctx, gameID)
	if err != nil {
		d.skip(&set, "play_by_play", gameID, err)
		return set
	}

	plays := make([]models.Play, 0, len(rows))
	for _, r := range rows {
		description := r.String("HOMEDESCRIPTION")
		if description == "" {
			description = r.String("VISITORDESCRIPTION")
		}
		plays = append(plays, models.Play{
			EventType:   int(r.Int("EVENTMSGTYPE")),
			PlayerName:  r.String("PLAYER1_NAME"),
			Description: description,
		})
	}
	set.Plays = &models.PlaySequence{GameID: gameID, Plays: plays}
	return set
}

// leaders ranks on the first statistic only.
func (d *Dispatcher) leaders(ctx context.Context, e models.Entities) models.RecordSet {
	set := models.RecordSet{Kind: models.KindLeagueLeaders}
	if len(e.Stats) == 0 {
		return set
	}

	count := defaultLeaderCount
	if e.TopN != nil {
		count = *e.TopN
	}
	stat := e.Stats[0]
	abbrev := StatAbbreviation(stat)
	list := &models.LeaderList{StatKey: stat, StatAbbrev: abbrev, Leaders: []models.Leader{}}
	set.Leaders = list

	rows, err := d.provider.Leaders(ctx, statsapi.LeaderQuery{
		Stat:    abbrev,
		Season:  statsapi.SeasonAllTime,
		PerMode: "Totals",
		Limit:   count,
	})
	if err != nil {
		d.skip(&set, "leaders", abbrev, err)
		return set
	}

	if count < 0 {
		count = 0
	}
	if len(rows) > count {
		rows = rows[:count]
	}
	for i, r := range rows {
		rank := r.Int(abbrev + "_RANK")
		if rank == 0 {
			rank = r.Int("RANK")
		}
		if rank == 0 {
			rank = int64(i + 1)
		}
		name, ok := r.LookupString("PLAYER_NAME")
		if !ok {
			name = "Unknown"
		}
		list.Leaders = append(list.Leaders, models.Leader{
			Rank:       int(rank),
			PlayerName: name,
			Value:      r.Float(abbrev),
		})
	}
	return set
}

var statAbbreviations = map[string]string{
	"points":                 "PTS",
	"rebounds":               "REB",
	"assists":                "AST",
	"steals":                 "STL",
	"blocks":                 "BLK",
	"turnovers":              "TOV",
	"three_pointers":         "FG3M",
	"field_goal_percentage":  "FG_PCT",
	"three_point_percentage": "FG3_PCT",
	"free_throw_percentage":  "FT_PCT",
}

// StatAbbreviation maps a statistic category to its provider column, PTS by default.
func StatAbbreviation(stat string) string {
	if abbr, ok := statAbbreviations[stat]; ok {
		return abbr
	}
	return "PTS"
}

func seasonLines(rows []statsapi.Record) []models.SeasonLine {
	lines := make([]models.SeasonLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, models.SeasonLine{
			SeasonID:    r.String("SEASON_ID"),
			GamesPlayed: r.Float("GP"),
			Points:      r.Float("PTS"),
			Rebounds:    r.Float("REB"),
			Assists:     r.Float("AST"),
			Turnovers:   r.Float("TOV"),
			Blocks:      r.Float("BLK"),
		})
	}
	return lines
}

func gameLines(rows []statsapi.Record) []models.GameLine {
	lines := make([]models.GameLine, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, models.GameLine{
			GameDate: r.String("GAME_DATE"),
			Matchup:  r.String("MATCHUP"),
			Points:   r.Float("PTS"),
			Rebounds: r.Float("REB"),
			Assists:  r.Float("AST"),
		})
	}
	return lines
}

func boxscoreLines(rows []statsapi.Record) []models.BoxscoreLine {
	lines := make([]models.BoxscoreLine, 0, len(rows))
	for _, r := range rows {
		team, ok := r.LookupString("TEAM_ABBREVIATION")
		if !ok {
			team = "UNK"
		}
		lines = append(lines, models.BoxscoreLine{
			TeamAbbreviation: team,
			PlayerName:       r.String("PLAYER_NAME"),
			Points:           r.Float("PTS"),
		})
	}
	return lines
}

type datedRow struct {
	row  statsapi.Record
	date time.Time
}

var gameDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 02, 2006",
	"01/02/2006",
}

func parseGameDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if len(raw) == len("Jan 02, 2006") {
		// the provider sometimes upper-cases month names
		titled := raw[:1] + strings.ToLower(raw[1:3]) + raw[3:]
		if t, err := time.Parse("Jan 02, 2006", titled); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByDateDesc orders rows newest first; rows without a parseable date go last.
func sortByDateDesc(rows []statsapi.Record) []datedRow {
	dated := make([]datedRow, len(rows))
	for i, r := range rows {
		t, _ := parseGameDate(r.String("GAME_DATE"))
		dated[i] = datedRow{row: r, date: t}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		a, b := dated[i].date, dated[j].date
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
	return dated
}
