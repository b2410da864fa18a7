package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/engine"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/publish"
	"mlb-lineup-bot/internal/queue"
	"mlb-lineup-bot/internal/render"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/season"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/trend"
	"mlb-lineup-bot/internal/types"
)

func init() {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
}

const pollGameID = 811234

// pollSource serves the league slate and one mutable boxscore, standing
// in for the upstream across consecutive poll cycles.
type pollSource struct {
	mu            sync.Mutex
	scheduleCalls int
	slate         []types.ScheduleEntry
	box           *types.Boxscore
}

func (s *pollSource) LookupPlayer(ctx context.Context, name string) ([]types.PlayerRef, error) {
	return nil, nil
}

func (s *pollSource) Schedule(ctx context.Context, teamID, seasonYear int, startDate, endDate string) ([]types.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if teamID == 0 {
		s.scheduleCalls++
		return s.slate, nil
	}
	return nil, nil
}

func (s *pollSource) Boxscore(ctx context.Context, id int) (*types.Boxscore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == pollGameID && s.box != nil {
		return s.box, nil
	}
	return nil, fmt.Errorf("no fixture for game %d", id)
}

func (s *pollSource) SeasonHitting(ctx context.Context, seasonYear int) ([]interfaces.SeasonBattingLine, error) {
	return nil, nil
}

func (s *pollSource) SeasonPitching(ctx context.Context, seasonYear int) ([]interfaces.SeasonPitchingLine, error) {
	return nil, nil
}

func (s *pollSource) Standings(ctx context.Context, seasonYear int) (map[string]string, error) {
	return map[string]string{}, nil
}

func (s *pollSource) setBox(box *types.Boxscore) {
	s.mu.Lock()
	s.box = box
	s.mu.Unlock()
}

func officialPollBox() *types.Boxscore {
	box := &types.Boxscore{GameID: pollGameID}
	for _, side := range []struct {
		label string
		base  int
	}{
		{"Home", 700000},
		{"Away", 710000},
	} {
		sheet := types.TeamSheet{Players: map[types.PlayerID]types.PlayerEntry{}}
		for slot := 1; slot <= 9; slot++ {
			id := types.PlayerID(side.base + slot)
			sheet.Players[id] = types.PlayerEntry{
				ID: id, Name: fmt.Sprintf("%s Batter %d", side.label, slot), Position: "CF", BattingOrder: slot,
			}
			sheet.BattingOrder = append(sheet.BattingOrder, id)
		}
		pitcherID := types.PlayerID(side.base + 99)
		sheet.Players[pitcherID] = types.PlayerEntry{ID: pitcherID, Name: side.label + " Starter", Position: "P"}
		sheet.Pitchers = []types.PlayerID{pitcherID}
		if side.label == "Home" {
			box.Home = sheet
		} else {
			box.Away = sheet
		}
	}
	return box
}

func pollTestComponents(t *testing.T, src *pollSource, imagesDir string) *components {
	t.Helper()

	cfg := &store.Config{}
	cfg.Mode = "DRY_RUN"
	cfg.Season = 2025
	cfg.Timezone = "UTC"
	cfg.Fanout.Workers = 4
	cfg.Window.BatterGames = 5
	cfg.Window.PitcherGames = 3
	cfg.Window.LookbackGames = 10

	cache := apicache.New(src, nil)
	seasonSrc := season.New(src, cfg.Season)
	agg := rolling.New(cache, cfg.Window.BatterGames, cfg.Window.PitcherGames, cfg.Window.LookbackGames)
	cls := trend.New(seasonSrc)

	q, err := queue.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open queue: %v", err)
	}
	renderer, err := render.NewHTML(imagesDir)
	if err != nil {
		t.Fatalf("create renderer: %v", err)
	}

	return &components{
		cfg:      cfg,
		src:      src,
		cache:    cache,
		season:   seasonSrc,
		queue:    q,
		engine:   engine.New(cfg, cache, agg, cls, seasonSrc),
		renderer: renderer,
		pub:      publish.Noop{},
		loc:      time.UTC,
	}
}

func TestPollPostsOnceLineupTurnsOfficial(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	src := &pollSource{
		slate: []types.ScheduleEntry{{
			GameID:   pollGameID,
			GameDate: today,
			HomeName: "New York Mets",
			AwayName: "Los Angeles Dodgers",
			HomeID:   121,
			AwayID:   119,
		}},
		box: &types.Boxscore{GameID: pollGameID},
	}
	imagesDir := t.TempDir()
	c := pollTestComponents(t, src, imagesDir)
	ctx := context.Background()

	pollOnce(ctx, c)
	if c.queue.IsProcessed(pollGameID) {
		t.Fatal("game marked processed while the lineups were unposted")
	}

	// The lineups post between polls.
	src.setBox(officialPollBox())

	pollOnce(ctx, c)
	if !c.queue.IsProcessed(pollGameID) {
		t.Fatal("game never processed after the lineups posted")
	}
	if src.scheduleCalls < 2 {
		t.Errorf("scheduleCalls = %d; each cycle must refetch the daily slate", src.scheduleCalls)
	}

	artifacts, err := filepath.Glob(filepath.Join(imagesDir, "*", "lineup_*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(artifacts) != 1 {
		t.Errorf("artifacts = %v, want exactly one rendered card", artifacts)
	}
}

func TestPollSkipsProcessedGames(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	src := &pollSource{
		slate: []types.ScheduleEntry{{
			GameID:   pollGameID,
			GameDate: today,
			HomeName: "New York Mets",
			AwayName: "Los Angeles Dodgers",
			HomeID:   121,
			AwayID:   119,
		}},
		box: officialPollBox(),
	}
	imagesDir := t.TempDir()
	c := pollTestComponents(t, src, imagesDir)
	ctx := context.Background()

	pollOnce(ctx, c)
	pollOnce(ctx, c)

	artifacts, err := filepath.Glob(filepath.Join(imagesDir, "*", "lineup_*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(artifacts) != 1 {
		t.Errorf("artifacts = %v, want one card for a game processed once", artifacts)
	}
}
