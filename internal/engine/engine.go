package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/lineup"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/trend"
	"mlb-lineup-bot/internal/types"
)

const noRecentData = "No recent data"

type Engine struct {
	cfg    *store.Config
	cache  *apicache.Cache
	agg    *rolling.Aggregator
	trend  *trend.Classifier
	season interfaces.SeasonSource
	loc    *time.Location
}

func newEngine(cfg *store.Config, cache *apicache.Cache, agg *rolling.Aggregator, cls *trend.Classifier, season interfaces.SeasonSource) *Engine {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Engine{cfg: cfg, cache: cache, agg: agg, trend: cls, season: season, loc: loc}
}

// Step builds the matchup card for one scheduled game. An unavailable
// boxscore is an error; a not-yet-official lineup is not, the card
// comes back with LineupsOfficial false so the caller can retry on the
// next poll.
func (e *Engine) Step(ctx context.Context, game types.ScheduleEntry) (*types.GameCard, error) {
	logger.Debug(ctx, "Starting game step", "game_id", game.GameID, "away", game.AwayName, "home", game.HomeName)

	// The current game's boxscore is re-read every step: the lineup
	// turns official mid-day and a cached copy would never show it.
	box, ok := e.cache.RefreshBoxscore(ctx, game.GameID)
	if !ok {
		return nil, fmt.Errorf("boxscore unavailable for game %d", game.GameID)
	}

	card := &types.GameCard{
		GameID:   game.GameID,
		GameDate: displayDate(game.GameDate),
		GameTime: e.displayTime(game.GameDatetime),
		Venue:    game.VenueName,
		HomeTeam: game.HomeName,
		AwayTeam: game.AwayName,
	}

	if !lineup.IsOfficial(box) {
		logger.Debug(ctx, "Lineups not official yet",
			"game_id", game.GameID,
			"home_order", len(box.Home.BattingOrder),
			"away_order", len(box.Away.BattingOrder),
		)
		return card, nil
	}
	card.LineupsOfficial = true

	card.HomeRecord = e.season.TeamRecord(ctx, game.HomeName)
	card.AwayRecord = e.season.TeamRecord(ctx, game.AwayName)

	asOf, err := time.Parse("2006-01-02", game.GameDate)
	if err != nil {
		asOf = time.Now().In(e.loc)
	}

	homeSlots := lineup.ExtractLineup(box, "home")
	awaySlots := lineup.ExtractLineup(box, "away")
	card.HomeLineup = e.fillLineup(ctx, homeSlots, game.HomeID, asOf)
	card.AwayLineup = e.fillLineup(ctx, awaySlots, game.AwayID, asOf)

	card.HomePitcher = e.pitcherRow(ctx, box, "home", game.HomeProbable, game.HomeID, asOf)
	card.AwayPitcher = e.pitcherRow(ctx, box, "away", game.AwayProbable, game.AwayID, asOf)

	logger.Debug(ctx, "Game step completed", "game_id", game.GameID,
		"home_players", len(card.HomeLineup), "away_players", len(card.AwayLineup))
	return card, nil
}

// fillLineup resolves every lineup slot's recent stats and trend over a
// bounded worker pool, writing results by index so card order matches
// batting order. One slow or failing player degrades that row only.
func (e *Engine) fillLineup(ctx context.Context, slots []types.LineupSlot, teamID int, asOf time.Time) []types.CardPlayer {
	rows := make([]types.CardPlayer, len(slots))

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Fanout.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				rows[i] = e.playerRow(ctx, slots[i], teamID, asOf)
			}
		}()
	}
	for i := range slots {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return rows
}

func (e *Engine) playerRow(ctx context.Context, slot types.LineupSlot, teamID int, asOf time.Time) types.CardPlayer {
	row := types.CardPlayer{
		Order:    slot.Order,
		Name:     slot.Name,
		Position: slot.Position,
		Stats:    noRecentData,
		Trend:    types.TrendNeutral,
	}

	if types.IsPitcherPosition(slot.Position) {
		if line := e.agg.RecentPitching(ctx, slot.Name, teamID, e.cfg.Season, asOf); line != nil {
			row.Stats = formatPitching(line)
		}
		return row
	}

	line := e.agg.RecentBatting(ctx, slot.Name, teamID, e.cfg.Season, asOf)
	if line != nil {
		row.Stats = formatBatting(line)
	}

	report := e.trend.Classify(ctx, slot.Name, line)
	row.Trend = report.Trend
	if report.Trend != types.TrendNeutral || report.Reason != types.ReasonNone {
		logger.TrendCall(ctx, slot.Name, string(report.Trend), string(report.Reason))
	}
	return row
}

// pitcherRow prefers the probable pitcher named on the schedule; the
// boxscore's pitcher list is the fallback once the game is underway.
func (e *Engine) pitcherRow(ctx context.Context, box *types.Boxscore, side, probable string, teamID int, asOf time.Time) types.CardPitcher {
	row := types.CardPitcher{Name: probable}
	if row.Name == "" {
		if info, ok := lineup.StartingPitcher(box, side); ok {
			row.Name = info.Name
		}
	}
	if row.Name == "" {
		row.Name = "TBD"
		return row
	}

	if line := e.agg.RecentPitching(ctx, row.Name, teamID, e.cfg.Season, asOf); line != nil {
		row.Stats = formatPitching(line)
	} else if season, ok := e.season.PitcherLine(ctx, row.Name); ok {
		row.Stats = fmt.Sprintf("%d-%d %.2f ERA", season.Wins, season.Losses, season.ERA)
	}
	return row
}

// formatBatting renders a recent batting line in scoreboard style,
// e.g. ".333 6 H 4 RBI 1.011 OPS".
func formatBatting(line *types.RollingBattingLine) string {
	return fmt.Sprintf("%s %d H %d RBI %s OPS",
		trimAverage(line.AVG), line.Hits, line.RBI, formatOPS(line.OPS))
}

// formatPitching renders a recent pitching line, e.g. "3.00 ERA 1.11 WHIP 18 K".
func formatPitching(line *types.RollingPitchingLine) string {
	return fmt.Sprintf("%.2f ERA %.2f WHIP %d K", line.ERA, line.WHIP, line.StrikeOuts)
}

// trimAverage drops the leading zero from a rate stat, ".333" not "0.333".
func trimAverage(v float64) string {
	return strings.TrimPrefix(fmt.Sprintf("%.3f", v), "0")
}

func formatOPS(v float64) string {
	if v >= 1 {
		return fmt.Sprintf("%.3f", v)
	}
	return trimAverage(v)
}

// displayDate converts YYYY-MM-DD to MM/DD/YYYY for the card header.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("01/02/2006")
}

// displayTime converts the schedule's UTC timestamp to local first
// pitch, "7:05 PM" style. Unparseable input renders empty rather than
// wrong.
func (e *Engine) displayTime(datetime string) string {
	if datetime == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return ""
	}
	return t.In(e.loc).Format("3:04 PM")
}
