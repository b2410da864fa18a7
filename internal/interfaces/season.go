package interfaces

import "context"

// SeasonBattingLine is a season-to-date baseline for one batter.
type SeasonBattingLine struct {
	Name     string
	AVG      float64
	HomeRuns int
	RBI      int
	OPS      float64
}

// SeasonPitchingLine is a season-to-date baseline for one pitcher.
type SeasonPitchingLine struct {
	Name   string
	Wins   int
	Losses int
	ERA    float64
}

// SeasonSource provides season-long aggregates and team records, bulk
// fetched once per run. It backs the trend classifier's OPS baseline
// and the card's season stat strings.
type SeasonSource interface {
	BatterLine(ctx context.Context, name string) (*SeasonBattingLine, bool)
	PitcherLine(ctx context.Context, name string) (*SeasonPitchingLine, bool)
	TeamRecord(ctx context.Context, teamName string) string
	Clear()
}
