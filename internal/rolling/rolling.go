// Package rolling computes a player's recent form: a fixed-size window
// of their most recent qualifying games, aggregated into one batting or
// pitching line. The walk goes backward from the day before the card's
// game so an in-progress game never leaks into "recent form".
package rolling

import (
	"context"
	"fmt"
	"time"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/types"
)

// activityFloor is the minimum games-with-a-plate-appearance a batter
// needs across the lookback window for their small sample to be trusted
// by the trend classifier.
const activityFloor = 5

type Aggregator struct {
	cache         *apicache.Cache
	batterWindow  int
	pitcherWindow int
	lookbackGames int
}

func New(cache *apicache.Cache, batterWindow, pitcherWindow, lookbackGames int) *Aggregator {
	if batterWindow <= 0 {
		batterWindow = 5
	}
	if pitcherWindow <= 0 {
		pitcherWindow = 3
	}
	if lookbackGames < batterWindow {
		lookbackGames = 10
	}
	return &Aggregator{
		cache:         cache,
		batterWindow:  batterWindow,
		pitcherWindow: pitcherWindow,
		lookbackGames: lookbackGames,
	}
}

// teamSchedule returns the team's games from season start through the
// day before asOf, chronological.
func (a *Aggregator) teamSchedule(ctx context.Context, teamID, season int, asOf time.Time) []types.ScheduleEntry {
	start := fmt.Sprintf("%d-01-01", season)
	end := asOf.AddDate(0, 0, -1).Format("2006-01-02")
	return a.cache.Schedule(ctx, teamID, season, start, end)
}

// RecentBatting aggregates the player's most recent qualifying games
// (plate appearances > 0) into one line. It returns nil when the player
// name does not resolve or when no qualifying games exist at all.
//
// Only the last lookbackGames scheduled games are examined. The scan
// keeps going after the window fills so the activity-coverage count
// always reflects the whole lookback.
func (a *Aggregator) RecentBatting(ctx context.Context, name string, teamID, season int, asOf time.Time) *types.RollingBattingLine {
	id, ok := a.cache.ResolvePlayerID(ctx, name)
	if !ok {
		logger.Debug(ctx, "Skipping recent batting, player not found", "player", name)
		return nil
	}

	sched := a.teamSchedule(ctx, teamID, season, asOf)
	if len(sched) == 0 {
		return nil
	}

	fullLookback := len(sched) >= a.lookbackGames
	if len(sched) > a.lookbackGames {
		sched = sched[len(sched)-a.lookbackGames:]
	}

	line := &types.RollingBattingLine{LookbackSeen: len(sched)}
	for i := len(sched) - 1; i >= 0; i-- {
		game := sched[i]
		box, ok := a.cache.Boxscore(ctx, game.GameID)
		if !ok {
			logger.Debug(ctx, "Skipping unavailable boxscore", "game_id", game.GameID, "player", name)
			continue
		}

		entry, found := box.Find(id)
		if !found || entry.Batting == nil {
			continue
		}
		b := entry.Batting
		if b.PlateAppearances() == 0 {
			// Pinch-runner or defensive sub: no offensive participation.
			continue
		}

		line.GamesWithPA++
		if line.Games < a.batterWindow {
			line.Games++
			line.AtBats += b.AtBats
			line.Hits += b.Hits
			line.RBI += b.RBI
			line.HomeRuns += b.HomeRuns
			line.Walks += b.Walks
			line.HitByPitch += b.HitByPitch
			line.SacFlies += b.SacFlies
			line.TotalBases += b.TotalBases()
			line.StrikeOuts += b.StrikeOuts
		}
	}

	if line.Games == 0 {
		return nil
	}

	line.AVG = ratio(float64(line.Hits), float64(line.AtBats))
	pa := line.AtBats + line.Walks + line.HitByPitch + line.SacFlies
	line.OBP = ratio(float64(line.Hits+line.Walks+line.HitByPitch), float64(pa))
	line.SLG = ratio(float64(line.TotalBases), float64(line.AtBats))
	line.OPS = line.OBP + line.SLG

	line.Insufficient = fullLookback && line.GamesWithPA < activityFloor
	return line
}

// RecentPitching aggregates the pitcher's most recent appearances
// (innings pitched > 0). Pitchers appear every few games, so the walk
// covers the whole schedule back to season start and stops once the
// window is full. Returns nil when the name does not resolve or no
// qualifying appearance exists.
func (a *Aggregator) RecentPitching(ctx context.Context, name string, teamID, season int, asOf time.Time) *types.RollingPitchingLine {
	id, ok := a.cache.ResolvePlayerID(ctx, name)
	if !ok {
		logger.Debug(ctx, "Skipping recent pitching, player not found", "player", name)
		return nil
	}

	sched := a.teamSchedule(ctx, teamID, season, asOf)
	if len(sched) == 0 {
		return nil
	}

	line := &types.RollingPitchingLine{}
	for i := len(sched) - 1; i >= 0 && line.Games < a.pitcherWindow; i-- {
		game := sched[i]
		box, ok := a.cache.Boxscore(ctx, game.GameID)
		if !ok {
			logger.Debug(ctx, "Skipping unavailable boxscore", "game_id", game.GameID, "player", name)
			continue
		}

		entry, found := box.Find(id)
		if !found || entry.Pitching == nil {
			continue
		}
		p := entry.Pitching
		if p.InningsPitched <= 0 {
			continue
		}

		line.Games++
		line.InningsPitched += p.InningsPitched
		line.EarnedRuns += p.EarnedRuns
		line.Hits += p.Hits
		line.Walks += p.Walks
		line.StrikeOuts += p.StrikeOuts
		line.Wins += p.Wins
		line.Losses += p.Losses
	}

	if line.Games == 0 {
		return nil
	}

	line.ERA = ratio(9*float64(line.EarnedRuns), line.InningsPitched)
	line.WHIP = ratio(float64(line.Hits+line.Walks), line.InningsPitched)
	return line
}

// ratio divides with a zero denominator yielding 0 rather than a fault.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
