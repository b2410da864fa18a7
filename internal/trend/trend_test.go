package trend

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/types"
)

func init() {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
}

const (
	testTeam   = 147
	testSeason = 2025
	playerID   = types.PlayerID(592450)
	playerName = "Aaron Judge"
)

var asOf = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

// statsStub serves one player's schedule and boxscores.
type statsStub struct {
	schedule  []types.ScheduleEntry
	boxscores map[int]*types.Boxscore
}

func (s *statsStub) LookupPlayer(ctx context.Context, name string) ([]types.PlayerRef, error) {
	if name == playerName {
		return []types.PlayerRef{{ID: playerID, FullName: playerName}}, nil
	}
	return nil, nil
}

func (s *statsStub) Schedule(ctx context.Context, teamID, season int, startDate, endDate string) ([]types.ScheduleEntry, error) {
	return s.schedule, nil
}

func (s *statsStub) Boxscore(ctx context.Context, gameID int) (*types.Boxscore, error) {
	if box, ok := s.boxscores[gameID]; ok {
		return box, nil
	}
	return nil, fmt.Errorf("no fixture for game %d", gameID)
}

// seasonStub returns a fixed OPS baseline for the test player.
type seasonStub struct {
	ops   float64
	found bool
}

func (s *seasonStub) BatterLine(ctx context.Context, name string) (*interfaces.SeasonBattingLine, bool) {
	if !s.found {
		return nil, false
	}
	return &interfaces.SeasonBattingLine{Name: name, OPS: s.ops}, true
}

func (s *seasonStub) PitcherLine(ctx context.Context, name string) (*interfaces.SeasonPitchingLine, bool) {
	return nil, false
}

func (s *seasonStub) TeamRecord(ctx context.Context, teamName string) string { return "" }
func (s *seasonStub) Clear()                                                 {}

// sourceWithOPS builds ten qualifying games whose aggregate OPS lands
// on the requested value, by giving every game the same line: with
// AB=4 and no walks, OPS = (H + TB) / 4. H hits of which X are doubles
// gives TB = H + X.
func sourceWithOPS(t *testing.T, wantOPS float64) *statsStub {
	t.Helper()
	// Quarter steps of OPS map onto integer H+TB out of 4 AB.
	units := int(math.Round(wantOPS * 4))
	var line types.BattingLine
	line.AtBats = 4
	switch units {
	case 2: // 1 single: .250/.250/.250
		line.Hits = 1
	case 3: // 1 double: .250/.250/.500
		line.Hits, line.Doubles = 1, 1
	case 4: // 2 singles: .500/.500/.500
		line.Hits = 2
	case 5: // 2 hits, 1 double
		line.Hits, line.Doubles = 2, 1
	case 6: // 2 doubles
		line.Hits, line.Doubles = 2, 2
	default:
		t.Fatalf("no fixture line for OPS %.3f", wantOPS)
	}

	src := &statsStub{boxscores: map[int]*types.Boxscore{}}
	for i := 1; i <= 10; i++ {
		box := &types.Boxscore{
			GameID: i,
			Home: types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{
				playerID: {ID: playerID, Name: playerName, Position: "RF", Batting: &line},
			}},
			Away: types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{}},
		}
		src.schedule = append(src.schedule, types.ScheduleEntry{
			GameID:   i,
			GameDate: fmt.Sprintf("2025-08-%02d", i),
		})
		src.boxscores[i] = box
	}
	return src
}

// recentLine aggregates the stub's games the way the engine does
// before handing the line to the classifier.
func recentLine(t *testing.T, src *statsStub) *types.RollingBattingLine {
	t.Helper()
	agg := rolling.New(apicache.New(src, nil), 5, 3, 10)
	return agg.RecentBatting(context.Background(), playerName, testTeam, testSeason, asOf)
}

func TestClassifyBands(t *testing.T) {
	// Baseline 0.800: the neutral band is (0.600, 1.000) exclusive.
	cases := []struct {
		recentOPS float64
		want      types.Trend
	}{
		{0.750, types.TrendNeutral},
		{1.250, types.TrendHot},
		{0.500, types.TrendCold},
	}
	for _, tc := range cases {
		c := New(&seasonStub{ops: 0.800, found: true})
		report := c.Classify(context.Background(), playerName, recentLine(t, sourceWithOPS(t, tc.recentOPS)))
		if report.Trend != tc.want {
			t.Errorf("recent OPS %.3f vs season 0.800: trend = %s, want %s",
				tc.recentOPS, report.Trend, tc.want)
		}
		if report.OPSDiff == nil {
			t.Errorf("recent OPS %.3f: OPSDiff unset, want %.3f", tc.recentOPS, tc.recentOPS-0.800)
		} else if math.Abs(*report.OPSDiff-(tc.recentOPS-0.800)) > 1e-9 {
			t.Errorf("recent OPS %.3f: OPSDiff = %.4f, want %.3f",
				tc.recentOPS, *report.OPSDiff, tc.recentOPS-0.800)
		}
	}
}

func TestClassifyBandEdgeIsNeutral(t *testing.T) {
	// Exactly on the band boundary stays neutral: 1.000 vs 0.800.
	c := New(&seasonStub{ops: 0.800, found: true})
	report := c.Classify(context.Background(), playerName, recentLine(t, sourceWithOPS(t, 1.000)))
	if report.Trend != types.TrendNeutral {
		t.Errorf("trend = %s, want neutral at the exact boundary", report.Trend)
	}
}

func TestClassifyInsufficientActivity(t *testing.T) {
	// Ten-game lookback with only two games played: neutral with the
	// activity reason and no diff, regardless of how hot those games were.
	src := sourceWithOPS(t, 1.500)
	for i := 3; i <= 10; i++ {
		box := src.boxscores[i]
		box.Home = types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{}}
	}
	c := New(&seasonStub{ops: 0.700, found: true})

	report := c.Classify(context.Background(), playerName, recentLine(t, src))
	if report.Trend != types.TrendNeutral {
		t.Errorf("trend = %s, want neutral", report.Trend)
	}
	if report.Reason != types.ReasonInsufficientActivity {
		t.Errorf("reason = %q, want %q", report.Reason, types.ReasonInsufficientActivity)
	}
	if report.OPSDiff != nil {
		t.Errorf("OPSDiff = %v, want nil", *report.OPSDiff)
	}
	if report.SeasonOPS != 0.700 {
		t.Errorf("SeasonOPS = %.3f, want the baseline carried on the report", report.SeasonOPS)
	}
}

func TestClassifyNoRecentLine(t *testing.T) {
	c := New(&seasonStub{ops: 0.800, found: true})

	report := c.Classify(context.Background(), playerName, nil)
	if report.Trend != types.TrendNeutral || report.OPSDiff != nil {
		t.Errorf("report = %+v, want neutral with nil diff", report)
	}
	if report.Reason != types.ReasonNone {
		t.Errorf("reason = %q, want empty (no forced-neutral reason)", report.Reason)
	}
}

func TestClassifyNoBaseline(t *testing.T) {
	c := New(&seasonStub{found: false})

	report := c.Classify(context.Background(), playerName, recentLine(t, sourceWithOPS(t, 1.250)))
	if report.Trend != types.TrendNeutral {
		t.Errorf("trend = %s, want neutral without a season baseline", report.Trend)
	}
	if report.OPSDiff != nil {
		t.Errorf("OPSDiff = %v, want nil", *report.OPSDiff)
	}
}
