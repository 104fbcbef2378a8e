// Package synthesis renders retrieved records as a narrative with provenance.
package synthesis

import (
	"fmt"
	"strconv"
	"strings"

	"nba-qa-workers/internal/models"
)

const (
	// NoDataSentence is the narrative for questions no strategy could serve.
	NoDataSentence = "No specific NBA data found to answer this question."
	// NoLeadersSentence is the narrative for an empty leader list.
	NoLeadersSentence = "No league leaders data found."
)

// Provenance types.
const (
	SourceCareerStats = "player_career_stats"
	SourceGameLog     = "player_game_log"
	SourceTeamGame    = "team_game"
	SourceBoxscore    = "boxscore"
	SourcePlayByPlay  = "play_by_play"
	SourceLeaders     = "league_leaders"
)

const (
	recentGamesShown   = 3
	topPerformersShown = 3
	shotPlaysShown     = 10
	playsShown         = 20
)

var percentageStats = map[string]bool{"FG_PCT": true, "FG3_PCT": true, "FT_PCT": true}

var statDisplayNames = map[string]string{
	"points":         "points",
	"rebounds":       "rebounds",
	"assists":        "assists",
	"steals":         "steals",
	"blocks":         "blocks",
	"turnovers":      "turnovers",
	"three_pointers": "three-pointers",
}

// Synthesizer is stateless and safe for concurrent use.
type Synthesizer struct{}

func New() *Synthesizer {
	return &Synthesizer{}
}

// narrative collects blocks; each block adds its sentences and exactly one
// provenance entry.
type narrative struct {
	parts   []string
	sources []models.Provenance
}

func (n *narrative) block(source models.Provenance, sentences ...string) {
	n.parts = append(n.parts, sentences...)
	n.sources = append(n.sources, source)
}

func (n *narrative) context() models.SynthesizedContext {
	return models.SynthesizedContext{
		Narrative:  strings.Join(n.parts, " "),
		Provenance: n.sources,
	}
}

func (s *Synthesizer) Synthesize(set models.RecordSet, question string) models.SynthesizedContext {
	var n narrative

	switch set.Kind {
	case models.KindPlayerStats:
		for _, p := range set.Players {
			careerBlock(&n, p)
			recentGamesBlock(&n, p)
		}
	case models.KindGameData:
		for _, g := range set.Games {
			gameBlock(&n, g)
		}
	case models.KindComparison:
		for _, p := range set.Players {
			comparisonBlock(&n, p)
		}
	case models.KindPlayByPlay:
		playByPlayBlock(&n, set.Plays, question)
	case models.KindLeagueLeaders:
		if set.Leaders == nil || len(set.Leaders.Leaders) == 0 {
			return models.SynthesizedContext{Narrative: NoLeadersSentence}
		}
		leadersBlock(&n, *set.Leaders)
	default:
		return models.SynthesizedContext{Narrative: NoDataSentence}
	}

	return n.context()
}

type careerTotals struct {
	seasons                 int
	games                   float64
	pts, reb, ast, tov, blk float64
}

func totals(seasons []models.SeasonLine) careerTotals {
	t := careerTotals{seasons: len(seasons)}
	for _, s := range seasons {
		t.games += s.GamesPlayed
		t.pts += s.Points
		t.reb += s.Rebounds
		t.ast += s.Assists
		t.tov += s.Turnovers
		t.blk += s.Blocks
	}
	return t
}

func careerSource(p models.PlayerHistory) models.Provenance {
	return models.Provenance{
		Type:       SourceCareerStats,
		PlayerID:   strconv.FormatInt(p.PlayerID, 10),
		PlayerName: p.PlayerName,
	}
}

func careerBlock(n *narrative, p models.PlayerHistory) {
	if len(p.Seasons) == 0 {
		return
	}
	t := totals(p.Seasons)
	latest := p.Seasons[0]
	gp := latest.GamesPlayed

	n.block(careerSource(p), fmt.Sprintf(
		"%s has played %d seasons in the NBA. "+
			"Over his career, he has averaged %.1f points per game, "+
			"%.1f rebounds per game, %.1f assists per game, "+
			"%.1f turnovers per game, and %.1f blocks per game "+
			"across %d games. "+
			"In the most recent season (%s), %s played %s games, "+
			"averaging %.1f points per game, %.1f rebounds per game, "+
			"%.1f assists per game, %.1f turnovers per game, "+
			"and %.1f blocks per game.",
		p.PlayerName, t.seasons,
		perGame(t.pts, t.games), perGame(t.reb, t.games), perGame(t.ast, t.games),
		perGame(t.tov, t.games), perGame(t.blk, t.games),
		int64(t.games),
		orNA(latest.SeasonID), p.PlayerName, formatCount(gp),
		perGame(latest.Points, gp), perGame(latest.Rebounds, gp),
		perGame(latest.Assists, gp), perGame(latest.Turnovers, gp),
		perGame(latest.Blocks, gp),
	))
}

func recentGamesBlock(n *narrative, p models.PlayerHistory) {
	if len(p.RecentGames) == 0 {
		return
	}
	games := p.RecentGames
	if len(games) > recentGamesShown {
		games = games[:recentGamesShown]
	}

	sentences := []string{fmt.Sprintf("\n%s's most recent games:", p.PlayerName)}
	for _, g := range games {
		sentences = append(sentences, fmt.Sprintf(
			"On %s against %s, %s scored %s points, %s rebounds, and %s assists.",
			orNA(g.GameDate), orNA(g.Matchup), p.PlayerName,
			formatCount(g.Points), formatCount(g.Rebounds), formatCount(g.Assists),
		))
	}
	n.block(models.Provenance{
		Type:       SourceGameLog,
		PlayerID:   strconv.FormatInt(p.PlayerID, 10),
		PlayerName: p.PlayerName,
	}, sentences...)
}

func gameBlock(n *narrative, g models.GameRecord) {
	gameID := orNA(g.GameID)
	gameDate := orNA(g.GameDate)

	if g.Score != nil {
		team, opponent := g.Score.TeamName, g.Score.OpponentName
		parts := strings.Fields(g.Matchup)
		if team == "" {
			team = "Team"
			if len(parts) > 0 {
				team = parts[0]
			}
		}
		if opponent == "" {
			opponent = "Opponent"
			if len(parts) > 2 {
				opponent = parts[len(parts)-1]
			}
		}
		outcome := "lost"
		if g.Score.Won() {
			outcome = "won"
		}

		n.block(models.Provenance{
			Type:     SourceTeamGame,
			GameID:   gameID,
			GameDate: gameDate,
			Team:     team,
		}, fmt.Sprintf("On %s, %s played against %s. %s %s %d-%d.",
			gameDate, team, opponent, team, outcome, g.Score.TeamScore, g.Score.OpponentScore))
		return
	}

	if len(g.Boxscore) == 0 {
		return
	}

	sentences := []string{fmt.Sprintf("Game %s on %s: %s", gameID, gameDate, orNA(g.Matchup))}
	for _, side := range groupBySide(g.Boxscore) {
		sentences = append(sentences, fmt.Sprintf("%s scored %s points. Top performers: %s",
			side.team, formatCount(side.points), strings.Join(side.performers, ", ")))
	}
	n.block(models.Provenance{Type: SourceBoxscore, GameID: gameID, GameDate: gameDate}, sentences...)
}

type side struct {
	team       string
	points     float64
	performers []string
}

// groupBySide keeps sides in first-appearance order and performers in
// provider order.
func groupBySide(lines []models.BoxscoreLine) []*side {
	var sides []*side
	byTeam := make(map[string]*side)
	for _, l := range lines {
		sd, ok := byTeam[l.TeamAbbreviation]
		if !ok {
			sd = &side{team: l.TeamAbbreviation}
			byTeam[l.TeamAbbreviation] = sd
			sides = append(sides, sd)
		}
		sd.points += l.Points
		if len(sd.performers) < topPerformersShown {
			sd.performers = append(sd.performers, l.PlayerName)
		}
	}
	return sides
}

func comparisonBlock(n *narrative, p models.PlayerHistory) {
	if len(p.Seasons) == 0 {
		return
	}
	t := totals(p.Seasons)
	n.block(careerSource(p), fmt.Sprintf(
		"%s averaged %.1f points, %.1f rebounds, %.1f assists, %.1f turnovers, and %.1f blocks in %d games.",
		p.PlayerName,
		perGame(t.pts, t.games), perGame(t.reb, t.games), perGame(t.ast, t.games),
		perGame(t.tov, t.games), perGame(t.blk, t.games),
		int64(t.games),
	))
}

func playByPlayBlock(n *narrative, seq *models.PlaySequence, question string) {
	if seq == nil || len(seq.Plays) == 0 {
		return
	}

	plays := seq.Plays
	limit := playsShown
	if strings.Contains(strings.ToLower(question), "shot") {
		shots := make([]models.Play, 0, len(plays))
		for _, p := range plays {
			if p.IsShot() {
				shots = append(shots, p)
			}
		}
		plays, limit = shots, shotPlaysShown
	}
	if len(plays) > limit {
		plays = plays[:limit]
	}

	sentences := []string{fmt.Sprintf("Play-by-play for game %s:", orNA(seq.GameID))}
	for _, p := range plays {
		if p.PlayerName == "" || p.Description == "" {
			continue
		}
		sentences = append(sentences, fmt.Sprintf("%s: %s", p.PlayerName, p.Description))
	}
	n.block(models.Provenance{Type: SourcePlayByPlay, GameID: orNA(seq.GameID)}, sentences...)
}

// StatDisplayName is the reader-facing name of a statistic category.
func StatDisplayName(stat string) string {
	if name, ok := statDisplayNames[stat]; ok {
		return name
	}
	return "statistics"
}

func leadersBlock(n *narrative, list models.LeaderList) {
	display := StatDisplayName(list.StatKey)

	sentences := []string{fmt.Sprintf("The top %d players with the most %s in NBA history are:", len(list.Leaders), display)}
	for _, l := range list.Leaders {
		sentences = append(sentences, fmt.Sprintf("%d. %s with %s %s.",
			l.Rank, l.PlayerName, FormatStatValue(list.StatAbbrev, l.Value), display))
	}
	n.block(models.Provenance{
		Type:       SourceLeaders,
		StatType:   list.StatKey,
		StatAbbrev: list.StatAbbrev,
	}, sentences...)
}

// FormatStatValue renders percentages with three decimals and totals as
// grouped integers.
func FormatStatValue(abbrev string, v float64) string {
	if percentageStats[abbrev] {
		return fmt.Sprintf("%.3f", v)
	}
	return groupedInt(v)
}
