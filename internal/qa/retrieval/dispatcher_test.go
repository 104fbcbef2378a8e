package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/models"
	"nba-qa-workers/internal/statsapi"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) records(args mock.Arguments) ([]statsapi.Record, error) {
	rows, _ := args.Get(0).([]statsapi.Record)
	return rows, args.Error(1)
}

func (m *MockProvider) PlayerCareer(ctx context.Context, playerID int64) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, playerID))
}

func (m *MockProvider) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, playerID, season))
}

func (m *MockProvider) Boxscore(ctx context.Context, gameID string) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, gameID))
}

func (m *MockProvider) FindGames(ctx context.Context, filter statsapi.GameFilter) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, filter))
}

func (m *MockProvider) PlayByPlay(ctx context.Context, gameID string) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, gameID))
}

func (m *MockProvider) Leaders(ctx context.Context, query statsapi.LeaderQuery) ([]statsapi.Record, error) {
	return m.records(m.Called(ctx, query))
}

var (
	lebron = models.Person{ID: 2544, FullName: "LeBron James"}
	curry  = models.Person{ID: 201939, FullName: "Stephen Curry"}
	lakers = models.Team{ID: 1610612747, FullName: "Los Angeles Lakers", Abbreviation: "LAL"}
)

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]models.Person{lebron, curry},
		[]models.Team{
			lakers,
			{ID: 1610612744, FullName: "Golden State Warriors", Abbreviation: "GSW"},
		},
	)
}

func newTestDispatcher(t *testing.T, provider *MockProvider) *Dispatcher {
	return NewDispatcher(provider, testCatalog(), "2024-25", logger.NewTestLogger(t))
}

func intPtr(n int) *int { return &n }

func TestDispatch_PlayerStatsSkipsFailedPerson(t *testing.T) {
	provider := new(MockProvider)
	provider.On("PlayerCareer", mock.Anything, int64(2544)).Return(nil, errors.New("provider down"))
	provider.On("PlayerCareer", mock.Anything, int64(201939)).Return([]statsapi.Record{
		{"SEASON_ID": "2024-25", "GP": 70.0, "PTS": 1800.0},
	}, nil)

	var gameLog []statsapi.Record
	for i := 0; i < 7; i++ {
		gameLog = append(gameLog, statsapi.Record{"GAME_DATE": "APR 10, 2025", "MATCHUP": "GSW vs. LAL", "PTS": float64(20 + i)})
	}
	provider.On("PlayerGameLog", mock.Anything, int64(201939), "2024-25").Return(gameLog, nil)

	d := newTestDispatcher(t, provider)
	set := d.Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentPlayerStats,
		Entities: models.Entities{People: []models.Person{lebron, curry}},
	})

	assert.Equal(t, models.KindPlayerStats, set.Kind)
	require.Len(t, set.Players, 1)
	assert.Equal(t, "Stephen Curry", set.Players[0].PlayerName)
	assert.Len(t, set.Players[0].RecentGames, 5)
	assert.Equal(t, 20.0, set.Players[0].RecentGames[0].Points)
	require.Len(t, set.Players[0].Seasons, 1)

	require.Len(t, set.Skipped, 1)
	assert.Equal(t, "person", set.Skipped[0].Kind)
	assert.Equal(t, "2544", set.Skipped[0].ID)
	provider.AssertNotCalled(t, "PlayerGameLog", mock.Anything, int64(2544), mock.Anything)
}

func TestDispatch_LastTeamGame(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FindGames", mock.Anything, mock.MatchedBy(func(f statsapi.GameFilter) bool {
		return f.TeamID != nil && *f.TeamID == lakers.ID && f.PlayerID == nil && f.Season == ""
	})).Return([]statsapi.Record{
		{"GAME_ID": "0022400100", "GAME_DATE": "2025-01-10", "MATCHUP": "LAL @ BOS", "PTS": 99.0, "PLUS_MINUS": -4.0, "WL": "L"},
		{"GAME_ID": "0022400999", "GAME_DATE": "not a date", "MATCHUP": "LAL vs. PHX", "PTS": 101.0, "PLUS_MINUS": 1.0, "WL": "W"},
		{"GAME_ID": "0022400150", "GAME_DATE": "2025-01-15", "MATCHUP": "LAL vs. GSW", "PTS": 120.0, "PLUS_MINUS": 8.0, "WL": "W"},
	}, nil)
	provider.On("Boxscore", mock.Anything, "0022400150").Return(nil, errors.New("boxscore unavailable"))

	d := newTestDispatcher(t, provider)
	set := d.Dispatch(context.Background(), models.QuestionAnalysis{
		Intent: models.IntentGameResult,
		Entities: models.Entities{
			Teams:    []models.Team{lakers},
			Temporal: models.Temporal{Last: true},
		},
	})

	require.Len(t, set.Games, 1)
	game := set.Games[0]
	assert.Equal(t, "0022400150", game.GameID)
	assert.Equal(t, "2025-01-15", game.GameDate)
	assert.Empty(t, game.Boxscore)
	require.NotNil(t, game.Score)
	assert.Equal(t, models.DirectScore{
		TeamName:      "Los Angeles Lakers",
		OpponentName:  "Golden State Warriors",
		TeamScore:     120,
		OpponentScore: 112,
		Result:        "W",
	}, *game.Score)

	require.Len(t, set.Skipped, 1)
	assert.Equal(t, "boxscore", set.Skipped[0].Kind)
}

func TestDispatch_LastTeamGameOpponentFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		matchup string
		want    string
	}{
		{"unknown abbreviation kept", "LAL @ XYZ", "XYZ"},
		{"short matchup", "LAL", "Opponent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			provider.On("FindGames", mock.Anything, mock.Anything).Return([]statsapi.Record{
				{"GAME_ID": "0022400001", "GAME_DATE": "2025-02-01", "MATCHUP": tt.matchup, "PTS": 100.0, "PLUS_MINUS": 0.0, "WL": "L"},
			}, nil)
			provider.On("Boxscore", mock.Anything, "0022400001").Return([]statsapi.Record{}, nil)

			set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
				Intent:   models.IntentGameResult,
				Entities: models.Entities{Teams: []models.Team{lakers}, Temporal: models.Temporal{Last: true}},
			})

			require.Len(t, set.Games, 1)
			assert.Equal(t, tt.want, set.Games[0].Score.OpponentName)
			assert.Empty(t, set.Skipped)
		})
	}
}

func TestDispatch_LastTeamGameRequiresResolvedTeam(t *testing.T) {
	provider := new(MockProvider)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentGameResult,
		Entities: models.Entities{Teams: []models.Team{{FullName: "Nowhere"}}, Temporal: models.Temporal{Last: true}},
	})

	assert.Equal(t, models.KindGameData, set.Kind)
	assert.True(t, set.Empty())
	provider.AssertNotCalled(t, "FindGames", mock.Anything, mock.Anything)
}

func TestDispatch_DefaultGameSearchByPlayer(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FindGames", mock.Anything, mock.MatchedBy(func(f statsapi.GameFilter) bool {
		return f.PlayerID != nil && *f.PlayerID == curry.ID && f.TeamID == nil && f.Season == "2024-25"
	})).Return([]statsapi.Record{
		{"GAME_ID": "0022400001", "GAME_DATE": "2025-04-13", "MATCHUP": "GSW @ POR"},
		{"GAME_ID": "0022400000", "GAME_DATE": "2025-04-11", "MATCHUP": "GSW vs. LAC"},
	}, nil)
	provider.On("Boxscore", mock.Anything, "0022400001").Return([]statsapi.Record{
		{"TEAM_ABBREVIATION": "GSW", "PLAYER_NAME": "Stephen Curry", "PTS": 36.0},
		{"PLAYER_NAME": "Mystery Player", "PTS": 2.0},
	}, nil)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentGameResult,
		Entities: models.Entities{People: []models.Person{curry}, Temporal: models.Temporal{Last: true}},
	})

	require.Len(t, set.Games, 1)
	game := set.Games[0]
	assert.Nil(t, game.Score)
	assert.Equal(t, "2025-04-13", game.GameDate)
	assert.Equal(t, "GSW @ POR", game.Matchup)
	require.Len(t, game.Boxscore, 2)
	assert.Equal(t, "UNK", game.Boxscore[1].TeamAbbreviation)
	provider.AssertExpectations(t)
}

func TestDispatch_DefaultGameSearchBoxscoreFailure(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FindGames", mock.Anything, mock.Anything).Return([]statsapi.Record{{"GAME_ID": "0022400001"}}, nil)
	provider.On("Boxscore", mock.Anything, "0022400001").Return(nil, errors.New("timeout"))

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentGameResult,
		Entities: models.Entities{People: []models.Person{curry}},
	})

	assert.Empty(t, set.Games)
	require.Len(t, set.Skipped, 1)
	assert.Equal(t, "game", set.Skipped[0].Kind)
	assert.Equal(t, "0022400001", set.Skipped[0].ID)
}

func TestDispatch_GameByID(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Boxscore", mock.Anything, "0022300500").Return([]statsapi.Record{
		{"TEAM_ABBREVIATION": "LAL", "PLAYER_NAME": "LeBron James", "PTS": 30.0},
	}, nil)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentGameResult,
		Entities: models.Entities{GameID: "0022300500", Teams: []models.Team{lakers}, Temporal: models.Temporal{Last: true}},
	})

	require.Len(t, set.Games, 1)
	assert.Equal(t, "0022300500", set.Games[0].GameID)
	assert.Len(t, set.Games[0].Boxscore, 1)
	provider.AssertNotCalled(t, "FindGames", mock.Anything, mock.Anything)
}

func TestDispatch_Comparison(t *testing.T) {
	provider := new(MockProvider)
	provider.On("PlayerCareer", mock.Anything, int64(2544)).Return([]statsapi.Record{{"SEASON_ID": "2024-25", "GP": 70.0}}, nil)
	provider.On("PlayerCareer", mock.Anything, int64(201939)).Return([]statsapi.Record{{"SEASON_ID": "2024-25", "GP": 68.0}}, nil)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentComparison,
		Entities: models.Entities{People: []models.Person{lebron, curry}},
	})

	assert.Equal(t, models.KindComparison, set.Kind)
	require.Len(t, set.Players, 2)
	assert.Empty(t, set.Players[0].RecentGames)
	provider.AssertNotCalled(t, "PlayerGameLog", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_PlayByPlayResolvesGame(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FindGames", mock.Anything, mock.MatchedBy(func(f statsapi.GameFilter) bool {
		return f.PlayerID != nil && *f.PlayerID == curry.ID && f.Season == "2024-25"
	})).Return([]statsapi.Record{{"GAME_ID": "0022400777"}}, nil)
	provider.On("PlayByPlay", mock.Anything, "0022400777").Return([]statsapi.Record{
		{"EVENTMSGTYPE": 1.0, "PLAYER1_NAME": "Stephen Curry", "HOMEDESCRIPTION": "Curry 26' 3PT Jump Shot"},
		{"EVENTMSGTYPE": 2.0, "PLAYER1_NAME": "Anthony Davis", "VISITORDESCRIPTION": "MISS Davis 5' Layup"},
	}, nil)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentPlayByPlay,
		Entities: models.Entities{People: []models.Person{curry}},
	})

	require.NotNil(t, set.Plays)
	assert.Equal(t, "0022400777", set.Plays.GameID)
	assert.Equal(t, []models.Play{
		{EventType: 1, PlayerName: "Stephen Curry", Description: "Curry 26' 3PT Jump Shot"},
		{EventType: 2, PlayerName: "Anthony Davis", Description: "MISS Davis 5' Layup"},
	}, set.Plays.Plays)
}

func TestDispatch_PlayByPlayWithoutGame(t *testing.T) {
	provider := new(MockProvider)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent: models.IntentPlayByPlay,
	})

	assert.Equal(t, models.KindPlayByPlay, set.Kind)
	assert.Nil(t, set.Plays)
	assert.True(t, set.Empty())
}

func TestDispatch_LeadersRankFallback(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Leaders", mock.Anything, statsapi.LeaderQuery{
		Stat: "AST", Season: statsapi.SeasonAllTime, PerMode: "Totals", Limit: 3,
	}).Return([]statsapi.Record{
		{"AST_RANK": 1.0, "PLAYER_NAME": "John Stockton", "AST": 15806.0},
		{"RANK": 2.0, "PLAYER_NAME": "Chris Paul", "AST": 12499.0},
		{"AST": 12091.0},
		{"AST_RANK": 4.0, "PLAYER_NAME": "Jason Kidd", "AST": 12091.0},
	}, nil)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentRankedLeaders,
		Entities: models.Entities{Stats: []string{"assists", "points"}, TopN: intPtr(3)},
	})

	require.NotNil(t, set.Leaders)
	assert.Equal(t, "assists", set.Leaders.StatKey)
	assert.Equal(t, "AST", set.Leaders.StatAbbrev)
	assert.Equal(t, []models.Leader{
		{Rank: 1, PlayerName: "John Stockton", Value: 15806},
		{Rank: 2, PlayerName: "Chris Paul", Value: 12499},
		{Rank: 3, PlayerName: "Unknown", Value: 12091},
	}, set.Leaders.Leaders)
}

func TestDispatch_LeadersDefaults(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Leaders", mock.Anything, statsapi.LeaderQuery{
		Stat: "PTS", Season: statsapi.SeasonAllTime, PerMode: "Totals", Limit: 5,
	}).Return(nil, errors.New("rate limited"))

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentRankedLeaders,
		Entities: models.Entities{Stats: []string{"minutes"}},
	})

	require.NotNil(t, set.Leaders)
	assert.Empty(t, set.Leaders.Leaders)
	require.Len(t, set.Skipped, 1)
	assert.Equal(t, "leaders", set.Skipped[0].Kind)
	provider.AssertExpectations(t)
}

func TestDispatch_General(t *testing.T) {
	provider := new(MockProvider)

	set := newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent: models.IntentGeneral,
	})
	assert.Equal(t, models.KindGeneral, set.Kind)
	assert.True(t, set.Empty())

	provider.On("PlayerCareer", mock.Anything, int64(2544)).Return([]statsapi.Record{}, nil)
	provider.On("PlayerGameLog", mock.Anything, int64(2544), "2024-25").Return([]statsapi.Record{}, nil)

	set = newTestDispatcher(t, provider).Dispatch(context.Background(), models.QuestionAnalysis{
		Intent:   models.IntentGeneral,
		Entities: models.Entities{People: []models.Person{lebron}},
	})
	assert.Equal(t, models.KindPlayerStats, set.Kind)
	assert.Len(t, set.Players, 1)
}

func TestParseGameDate(t *testing.T) {
	for _, raw := range []string{"2025-04-10", "2025-04-10T00:00:00", "APR 10, 2025", "Apr 10, 2025", "04/10/2025"} {
		got, ok := parseGameDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, "2025-04-10", got.Format("2006-01-02"), raw)
	}

	_, ok := parseGameDate("yesterday")
	assert.False(t, ok)
}

func TestStatAbbreviation(t *testing.T) {
	assert.Equal(t, "FG3M", StatAbbreviation("three_pointers"))
	assert.Equal(t, "FT_PCT", StatAbbreviation("free_throw_percentage"))
	assert.Equal(t, "PTS", StatAbbreviation("average"))
}

func TestProviderError_Codes(t *testing.T) {
	timeout := providerError("boxscore", fmt.Errorf("%w: boxscore", statsapi.ErrProviderTimeout))
	assert.Equal(t, "PROVIDER_TIMEOUT", string(timeout.Code))

	failed := providerError("person", fmt.Errorf("%w: career: 502", statsapi.ErrProviderRequestFailed))
	assert.Equal(t, "PROVIDER_REQUEST_FAILED", string(failed.Code))
	assert.Contains(t, failed.Details, "operation: person")
}
