// Package mlbapi is the MLB Stats API client. It is the only package
// that sees the upstream wire format; everything it returns is already
// validated and converted into internal/types values.
package mlbapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"mlb-lineup-bot/internal/api"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/types"
)

type Client struct {
	http    *api.Client
	limiter *rate.Limiter
}

var _ interfaces.StatsSource = (*Client)(nil)

type Params struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func NewClient(p Params) *Client {
	if p.BaseURL == "" {
		p.BaseURL = "https://statsapi.mlb.com/api/v1"
	}
	if p.Timeout == 0 {
		p.Timeout = 20 * time.Second
	}
	if p.RequestsPerSecond == 0 {
		p.RequestsPerSecond = 4
	}
	if p.Burst == 0 {
		p.Burst = 8
	}

	opts := []api.ClientOption{
		api.WithBaseURL(p.BaseURL),
		api.WithTimeout(p.Timeout),
		api.WithLogging(true),
	}
	for k, v := range api.StatsAPIHeaders() {
		opts = append(opts, api.WithHeader(k, v))
	}

	return &Client{
		http:    api.NewClient(opts...),
		limiter: rate.NewLimiter(rate.Limit(p.RequestsPerSecond), p.Burst),
	}
}

// get performs a rate-limited GET and decodes the JSON body into v.
func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.GET(ctx, path)
	if err != nil {
		return err
	}
	return resp.ParseJSON(v)
}

// LookupPlayer searches players by full name.
func (c *Client) LookupPlayer(ctx context.Context, name string) ([]types.PlayerRef, error) {
	var raw peopleSearchResponse
	path := fmt.Sprintf("/people/search?sportId=1&names=%s", url.QueryEscape(name))
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("player lookup %q: %w", name, err)
	}

	refs := make([]types.PlayerRef, 0, len(raw.People))
	for _, p := range raw.People {
		if p.ID == 0 {
			continue
		}
		refs = append(refs, types.PlayerRef{ID: types.PlayerID(p.ID), FullName: p.FullName})
	}
	return refs, nil
}

// Schedule returns a team's games between two YYYY-MM-DD dates in
// chronological order. teamID 0 returns the league-wide slate.
func (c *Client) Schedule(ctx context.Context, teamID, season int, startDate, endDate string) ([]types.ScheduleEntry, error) {
	q := url.Values{}
	q.Set("sportId", "1")
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)
	if teamID != 0 {
		q.Set("teamId", fmt.Sprintf("%d", teamID))
	}
	if season != 0 {
		q.Set("season", fmt.Sprintf("%d", season))
	}
	q.Set("hydrate", "probablePitcher")

	var raw scheduleResponse
	if err := c.get(ctx, "/schedule?"+q.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("schedule team=%d %s..%s: %w", teamID, startDate, endDate, err)
	}
	return convertSchedule(&raw), nil
}

// Boxscore returns the full per-game record for both sides. The fetch
// is retried a few times before being reported as unavailable; the
// caller decides whether to skip the game.
func (c *Client) Boxscore(ctx context.Context, gameID int) (*types.Boxscore, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.GETWithRetry(ctx, fmt.Sprintf("/game/%d/boxscore", gameID), nil)
	if err != nil {
		return nil, fmt.Errorf("boxscore game=%d: %w", gameID, err)
	}

	var raw boxscoreResponse
	if err := resp.ParseJSON(&raw); err != nil {
		return nil, fmt.Errorf("boxscore game=%d: %w", gameID, err)
	}
	return convertBoxscore(gameID, &raw), nil
}

// SeasonHitting bulk-fetches league season batting lines.
func (c *Client) SeasonHitting(ctx context.Context, season int) ([]interfaces.SeasonBattingLine, error) {
	var raw statsResponse
	path := fmt.Sprintf("/stats?stats=season&group=hitting&sportId=1&season=%d&playerPool=all&limit=3000", season)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("season hitting %d: %w", season, err)
	}
	return convertSeasonHitting(&raw), nil
}

// SeasonPitching bulk-fetches league season pitching lines.
func (c *Client) SeasonPitching(ctx context.Context, season int) ([]interfaces.SeasonPitchingLine, error) {
	var raw statsResponse
	path := fmt.Sprintf("/stats?stats=season&group=pitching&sportId=1&season=%d&playerPool=all&limit=3000", season)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("season pitching %d: %w", season, err)
	}
	return convertSeasonPitching(&raw), nil
}

// Standings returns win-loss records keyed by team name.
func (c *Client) Standings(ctx context.Context, season int) (map[string]string, error) {
	var raw standingsResponse
	path := fmt.Sprintf("/standings?leagueId=103,104&season=%d", season)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("standings %d: %w", season, err)
	}
	return convertStandings(&raw), nil
}
