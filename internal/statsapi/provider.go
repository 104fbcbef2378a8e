// Package statsapi is the client for the external basketball statistics provider.
package statsapi

import (
	"context"

	"nba-qa-workers/internal/models"
)

// SeasonAllTime asks the leaders endpoint for career totals.
const SeasonAllTime = "All Time"

// GameFilter narrows a game search. Nil ids and an empty season are not sent.
type GameFilter struct {
	TeamID   *int64
	PlayerID *int64
	Season   string
}

type LeaderQuery struct {
	Stat    string
	Season  string
	PerMode string
	Limit   int
}

// Provider is what retrieval needs from the statistics service.
type Provider interface {
	PlayerCareer(ctx context.Context, playerID int64) ([]Record, error)
	PlayerGameLog(ctx context.Context, playerID int64, season string) ([]Record, error)
	Boxscore(ctx context.Context, gameID string) ([]Record, error)
	FindGames(ctx context.Context, filter GameFilter) ([]Record, error)
	PlayByPlay(ctx context.Context, gameID string) ([]Record, error)
	Leaders(ctx context.Context, query LeaderQuery) ([]Record, error)
}

// ReferenceProvider adds the catalog listings.
type ReferenceProvider interface {
	Provider
	People(ctx context.Context) ([]models.Person, error)
	Teams(ctx context.Context) ([]models.Team, error)
}
