package engine

import (
	"context"
	"fmt"
	"testing"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/trend"
	"mlb-lineup-bot/internal/types"
)

func init() {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
}

const (
	gameID = 775301
	homeID = 121
	awayID = 119
)

// stubSource serves one "today" boxscore plus a short history for every
// player so the rolling aggregator has something to chew on.
type stubSource struct {
	today   *types.Boxscore
	history map[int]*types.Boxscore
	players map[string]types.PlayerID
}

func (s *stubSource) LookupPlayer(ctx context.Context, name string) ([]types.PlayerRef, error) {
	if id, ok := s.players[name]; ok {
		return []types.PlayerRef{{ID: id, FullName: name}}, nil
	}
	return nil, nil
}

func (s *stubSource) Schedule(ctx context.Context, teamID, season int, startDate, endDate string) ([]types.ScheduleEntry, error) {
	entries := make([]types.ScheduleEntry, 0, len(s.history))
	i := 0
	for id := range s.history {
		i++
		entries = append(entries, types.ScheduleEntry{GameID: id, GameDate: fmt.Sprintf("2025-06-%02d", i)})
	}
	return entries, nil
}

func (s *stubSource) Boxscore(ctx context.Context, id int) (*types.Boxscore, error) {
	if id == gameID {
		return s.today, nil
	}
	if box, ok := s.history[id]; ok {
		return box, nil
	}
	return nil, fmt.Errorf("no fixture for game %d", id)
}

type stubSeason struct{}

func (stubSeason) BatterLine(ctx context.Context, name string) (*interfaces.SeasonBattingLine, bool) {
	return &interfaces.SeasonBattingLine{Name: name, OPS: 0.750}, true
}

func (stubSeason) PitcherLine(ctx context.Context, name string) (*interfaces.SeasonPitchingLine, bool) {
	return &interfaces.SeasonPitchingLine{Name: name, Wins: 8, Losses: 4, ERA: 3.55}, true
}

func (stubSeason) TeamRecord(ctx context.Context, teamName string) string {
	switch teamName {
	case "New York Mets":
		return "68-52"
	case "Los Angeles Dodgers":
		return "72-48"
	}
	return ""
}

func (stubSeason) Clear() {}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Season = 2025
	cfg.Timezone = "America/New_York"
	cfg.Fanout.Workers = 4
	cfg.Window.BatterGames = 5
	cfg.Window.PitcherGames = 3
	cfg.Window.LookbackGames = 10
	return cfg
}

// buildFixture assembles a today-boxscore with nine-man orders on both
// sides and one prior game of history per player.
func buildFixture(official bool) *stubSource {
	src := &stubSource{
		history: map[int]*types.Boxscore{},
		players: map[string]types.PlayerID{},
	}

	today := &types.Boxscore{GameID: gameID}
	prior := &types.Boxscore{GameID: 700001}
	for _, side := range []struct {
		key   string
		label string
		base  int
	}{
		{"home", "Home", 600000},
		{"away", "Away", 500000},
	} {
		sheet := types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{}}
		priorSheet := types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{}}
		base := side.base
		for slot := 1; slot <= 9; slot++ {
			id := types.PlayerID(base + slot)
			name := fmt.Sprintf("%s Batter %d", side.label, slot)
			src.players[name] = id
			sheet.Players[id] = types.PlayerEntry{ID: id, Name: name, Position: "CF", BattingOrder: slot}
			if official {
				sheet.BattingOrder = append(sheet.BattingOrder, id)
			}
			priorSheet.Players[id] = types.PlayerEntry{
				ID: id, Name: name, Position: "CF",
				Batting: &types.BattingLine{AtBats: 4, Hits: 2, Doubles: 1, RBI: 1},
			}
		}
		pitcherID := types.PlayerID(base + 99)
		pitcherName := fmt.Sprintf("%s Starter", side.label)
		src.players[pitcherName] = pitcherID
		sheet.Players[pitcherID] = types.PlayerEntry{ID: pitcherID, Name: pitcherName, Position: "P"}
		sheet.Pitchers = []types.PlayerID{pitcherID}
		priorSheet.Players[pitcherID] = types.PlayerEntry{
			ID: pitcherID, Name: pitcherName, Position: "P",
			Pitching: &types.PitchingLine{InningsPitched: 6, EarnedRuns: 2, Hits: 5, Walks: 1, StrikeOuts: 7},
		}

		if side.key == "home" {
			today.Home, prior.Home = sheet, priorSheet
		} else {
			today.Away, prior.Away = sheet, priorSheet
		}
	}
	src.today = today
	src.history[prior.GameID] = prior
	return src
}

func scheduleEntry() types.ScheduleEntry {
	return types.ScheduleEntry{
		GameID:       gameID,
		GameDate:     "2025-08-15",
		GameDatetime: "2025-08-15T23:05:00Z",
		HomeName:     "New York Mets",
		AwayName:     "Los Angeles Dodgers",
		HomeID:       homeID,
		AwayID:       awayID,
		HomeProbable: "Home Starter",
		AwayProbable: "Away Starter",
		VenueName:    "Citi Field",
	}
}

func newTestEngine(src *stubSource) interfaces.Engine {
	cfg := testConfig()
	cache := apicache.New(src, nil)
	agg := rolling.New(cache, cfg.Window.BatterGames, cfg.Window.PitcherGames, cfg.Window.LookbackGames)
	cls := trend.New(stubSeason{})
	return New(cfg, cache, agg, cls, stubSeason{})
}

func TestStepBuildsCard(t *testing.T) {
	eng := newTestEngine(buildFixture(true))

	card, err := eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !card.LineupsOfficial {
		t.Fatal("card not marked official with two nine-man orders")
	}
	if card.GameDate != "08/15/2025" {
		t.Errorf("GameDate = %q, want 08/15/2025", card.GameDate)
	}
	if card.GameTime != "7:05 PM" {
		t.Errorf("GameTime = %q, want 7:05 PM (Eastern)", card.GameTime)
	}
	if card.HomeRecord != "68-52" || card.AwayRecord != "72-48" {
		t.Errorf("records = %q/%q", card.HomeRecord, card.AwayRecord)
	}
	if len(card.HomeLineup) != 9 || len(card.AwayLineup) != 9 {
		t.Fatalf("lineup sizes = %d/%d, want 9/9", len(card.HomeLineup), len(card.AwayLineup))
	}
	for i, row := range card.HomeLineup {
		if row.Order != i+1 {
			t.Errorf("home row %d has order %d; fan-out must preserve batting order", i, row.Order)
		}
		if row.Stats == noRecentData {
			t.Errorf("home row %d (%s) has no stats despite history", i, row.Name)
		}
	}
	// One 4-AB, 2-H, 1-2B game: .500 AVG, 3 TB, .500 OBP + .750 SLG.
	if got := card.HomeLineup[0].Stats; got != ".500 2 H 1 RBI 1.250 OPS" {
		t.Errorf("stat line = %q, want \".500 2 H 1 RBI 1.250 OPS\"", got)
	}
	// Recent OPS 1.250 against a .750 baseline clears the band.
	if card.HomeLineup[0].Trend != types.TrendHot {
		t.Errorf("trend = %s, want hot", card.HomeLineup[0].Trend)
	}
}

func TestStepPitcherRows(t *testing.T) {
	eng := newTestEngine(buildFixture(true))

	card, err := eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if card.HomePitcher.Name != "Home Starter" {
		t.Errorf("home pitcher = %q, want the schedule's probable", card.HomePitcher.Name)
	}
	// One start of 6 IP, 2 ER, 5 H, 1 BB: 3.00 ERA, 1.00 WHIP, 7 K.
	if card.HomePitcher.Stats != "3.00 ERA 1.00 WHIP 7 K" {
		t.Errorf("pitcher stats = %q", card.HomePitcher.Stats)
	}
}

func TestStepFallsBackToBoxscorePitcher(t *testing.T) {
	eng := newTestEngine(buildFixture(true))
	game := scheduleEntry()
	game.HomeProbable = ""

	card, err := eng.Step(context.Background(), game)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if card.HomePitcher.Name != "Home Starter" {
		t.Errorf("home pitcher = %q, want first listed boxscore pitcher", card.HomePitcher.Name)
	}
}

func TestStepUnofficialLineup(t *testing.T) {
	eng := newTestEngine(buildFixture(false))

	card, err := eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if card.LineupsOfficial {
		t.Error("card marked official with empty batting orders")
	}
	if len(card.HomeLineup) != 0 || len(card.AwayLineup) != 0 {
		t.Error("unofficial card must not carry lineup rows")
	}
}

func TestStepSeesLineupTurnOfficial(t *testing.T) {
	// Lineups post partway through the day. The same engine must observe
	// the transition across polls, not replay the pre-lineup boxscore.
	src := buildFixture(false)
	eng := newTestEngine(src)

	card, err := eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("first Step: %v", err)
	}
	if card.LineupsOfficial {
		t.Fatal("first poll marked official before the lineups posted")
	}

	src.today = buildFixture(true).today

	card, err = eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("second Step: %v", err)
	}
	if !card.LineupsOfficial {
		t.Fatal("second poll still unofficial after the lineups posted")
	}
	if len(card.HomeLineup) != 9 || len(card.AwayLineup) != 9 {
		t.Errorf("lineup sizes = %d/%d, want 9/9", len(card.HomeLineup), len(card.AwayLineup))
	}
}

func TestStepBoxscoreUnavailable(t *testing.T) {
	src := buildFixture(true)
	src.today = nil
	eng := newTestEngine(src)

	game := scheduleEntry()
	game.GameID = 999999
	if _, err := eng.Step(context.Background(), game); err == nil {
		t.Fatal("expected an error for an unavailable boxscore")
	}
}

func TestStepUnknownPlayerDegrades(t *testing.T) {
	src := buildFixture(true)
	// Make the leadoff hitter unresolvable.
	leadoff := src.today.Home.BattingOrder[0]
	entry := src.today.Home.Players[leadoff]
	delete(src.players, entry.Name)
	eng := newTestEngine(src)

	card, err := eng.Step(context.Background(), scheduleEntry())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	row := card.HomeLineup[0]
	if row.Stats != noRecentData {
		t.Errorf("stats = %q, want %q for an unresolvable player", row.Stats, noRecentData)
	}
	if row.Trend != types.TrendNeutral {
		t.Errorf("trend = %s, want neutral", row.Trend)
	}
	// The rest of the lineup is unaffected.
	if card.HomeLineup[1].Stats == noRecentData {
		t.Error("a single failing player must not degrade its neighbors")
	}
}
