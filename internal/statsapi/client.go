package statsapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"nba-qa-workers/internal/common/config"
	httpclient "nba-qa-workers/internal/common/http"
	"nba-qa-workers/internal/common/metrics"
	"nba-qa-workers/internal/models"
)

var (
	ErrProviderTimeout       = errors.New("PROVIDER_TIMEOUT")
	ErrProviderRequestFailed = errors.New("PROVIDER_REQUEST_FAILED")
)

type rowsResponse struct {
	Rows []Record `json:"rows"`
}

// Client talks to the provider's JSON endpoints.
type Client struct {
	http *httpclient.Client
}

var _ ReferenceProvider = (*Client)(nil)

func NewClient(cfg config.StatsAPIConfig) *Client {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["X-Api-Key"] = cfg.APIKey
	}
	return &Client{
		http: httpclient.NewClient(cfg.BaseURL, httpclient.Options{
			Timeout:    config.GetDuration(cfg.Timeout),
			MaxRetries: cfg.MaxRetries,
			Headers:    headers,
		}),
	}
}

func (c *Client) People(ctx context.Context) ([]models.Person, error) {
	rows, err := c.rows(ctx, "people", "/players", nil)
	if err != nil {
		return nil, err
	}
	people := make([]models.Person, 0, len(rows))
	for _, r := range rows {
		active, _ := r["is_active"].(bool)
		people = append(people, models.Person{
			ID:        r.Int("id"),
			FullName:  r.String("full_name"),
			FirstName: r.String("first_name"),
			LastName:  r.String("last_name"),
			IsActive:  active,
		})
	}
	return people, nil
}

func (c *Client) Teams(ctx context.Context) ([]models.Team, error) {
	rows, err := c.rows(ctx, "teams", "/teams", nil)
	if err != nil {
		return nil, err
	}
	teams := make([]models.Team, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, models.Team{
			ID:           r.Int("id"),
			FullName:     r.String("full_name"),
			Abbreviation: r.String("abbreviation"),
			Nickname:     r.String("nickname"),
			City:         r.String("city"),
		})
	}
	return teams, nil
}

func (c *Client) PlayerCareer(ctx context.Context, playerID int64) ([]Record, error) {
	return c.rows(ctx, "player_career", fmt.Sprintf("/players/%d/career", playerID), nil)
}

func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]Record, error) {
	q := url.Values{}
	if season != "" {
		q.Set("season", season)
	}
	return c.rows(ctx, "player_gamelog", fmt.Sprintf("/players/%d/gamelog", playerID), q)
}

func (c *Client) Boxscore(ctx context.Context, gameID string) ([]Record, error) {
	return c.rows(ctx, "boxscore", "/games/"+url.PathEscape(gameID)+"/boxscore", nil)
}

func (c *Client) FindGames(ctx context.Context, filter GameFilter) ([]Record, error) {
	q := url.Values{}
	if filter.TeamID != nil {
		q.Set("team_id", strconv.FormatInt(*filter.TeamID, 10))
	}
	if filter.PlayerID != nil {
		q.Set("player_id", strconv.FormatInt(*filter.PlayerID, 10))
	}
	if filter.Season != "" {
		q.Set("season", filter.Season)
	}
	return c.rows(ctx, "find_games", "/games", q)
}

func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]Record, error) {
	return c.rows(ctx, "play_by_play", "/games/"+url.PathEscape(gameID)+"/playbyplay", nil)
}

func (c *Client) Leaders(ctx context.Context, query LeaderQuery) ([]Record, error) {
	q := url.Values{}
	q.Set("stat", query.Stat)
	season := query.Season
	if season == "" {
		season = SeasonAllTime
	}
	q.Set("season", season)
	perMode := query.PerMode
	if perMode == "" {
		perMode = "Totals"
	}
	q.Set("per_mode", perMode)
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	return c.rows(ctx, "leaders", "/leaders", q)
}

func (c *Client) rows(ctx context.Context, operation, path string, query url.Values) ([]Record, error) {
	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var resp rowsResponse
	if err := c.http.GetJSON(ctx, path, query, &resp); err != nil {
		if errors.Is(err, httpclient.ErrRequestTimeout) {
			metrics.ProviderRequests.WithLabelValues(operation, "timeout").Inc()
			return nil, fmt.Errorf("%w: %s", ErrProviderTimeout, operation)
		}
		metrics.ProviderRequests.WithLabelValues(operation, "error").Inc()
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderRequestFailed, operation, err)
	}

	metrics.ProviderRequests.WithLabelValues(operation, "success").Inc()
	if resp.Rows == nil {
		return []Record{}, nil
	}
	return resp.Rows, nil
}
