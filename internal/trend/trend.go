// Package trend labels a batter's recent form against their season
// baseline. The label is relative to the player's own production, so a
// .950-OPS hitter in a .900 stretch reads neutral while a .650 hitter
// in the same stretch reads hot.
package trend

import (
	"context"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/types"
)

// bandFraction sets the dead zone around the season OPS. A recent OPS
// must clear the baseline by more than this fraction of the baseline
// in either direction to leave neutral.
const bandFraction = 0.25

// Classifier compares rolling-window OPS against season OPS.
type Classifier struct {
	season interfaces.SeasonSource
}

func New(season interfaces.SeasonSource) *Classifier {
	return &Classifier{season: season}
}

// Classify produces a trend report for one batter from their
// already-aggregated recent line; the caller owns the rolling walk, so
// each batter is aggregated once per card. Never returns nil: a nil
// recent line or a missing season baseline gets a neutral report with
// OPSDiff unset.
func (c *Classifier) Classify(ctx context.Context, name string, recent *types.RollingBattingLine) *types.TrendReport {
	report := &types.TrendReport{
		Name:  name,
		Trend: types.TrendNeutral,
	}

	if recent == nil {
		return report
	}
	report.RecentOPS = recent.OPS

	baseline, ok := c.season.BatterLine(ctx, name)
	if ok {
		report.SeasonOPS = baseline.OPS
	}

	if recent.Insufficient {
		report.Reason = types.ReasonInsufficientActivity
		return report
	}
	if !ok || baseline.OPS <= 0 {
		return report
	}

	diff := recent.OPS - baseline.OPS
	report.OPSDiff = &diff

	band := bandFraction * baseline.OPS
	switch {
	case diff > band:
		report.Trend = types.TrendHot
	case diff < -band:
		report.Trend = types.TrendCold
	}
	return report
}
