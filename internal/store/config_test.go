package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "season: 2025\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != "DRY_RUN" {
		t.Errorf("Mode = %q, want DRY_RUN default", cfg.Mode)
	}
	if cfg.PollSeconds != 300 {
		t.Errorf("PollSeconds = %d, want 300", cfg.PollSeconds)
	}
	if cfg.API.BaseURL != "https://statsapi.mlb.com/api/v1" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Window.BatterGames != 5 || cfg.Window.PitcherGames != 3 || cfg.Window.LookbackGames != 10 {
		t.Errorf("windows = %+v", cfg.Window)
	}
	if cfg.Fanout.Workers != 12 {
		t.Errorf("Workers = %d, want 12", cfg.Fanout.Workers)
	}
	if cfg.Publisher.Provider != "NONE" {
		t.Errorf("Provider = %q, want NONE", cfg.Publisher.Provider)
	}
	if cfg.Output.ImagesDir != "images" || cfg.Output.DataDir != "data" {
		t.Errorf("output dirs = %+v", cfg.Output)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: LIVE
season: 2025
timezone: America/Chicago
poll_seconds: 120
window:
  batter_games: 7
  pitcher_games: 4
  lookback_games: 12
fanout:
  workers: 6
publisher:
  provider: TELEGRAM
  telegram_chat_id: -100123
teams:
  hashtags:
    New York Mets: "#LGM"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Mode != "LIVE" || cfg.Timezone != "America/Chicago" || cfg.PollSeconds != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Window.BatterGames != 7 || cfg.Window.LookbackGames != 12 {
		t.Errorf("windows = %+v", cfg.Window)
	}
	if cfg.Publisher.TelegramChatID != -100123 {
		t.Errorf("TelegramChatID = %d", cfg.Publisher.TelegramChatID)
	}
	if cfg.Teams.Hashtags["New York Mets"] != "#LGM" {
		t.Errorf("hashtags = %v", cfg.Teams.Hashtags)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad mode", "mode: YOLO\nseason: 2025\n", "invalid mode"},
		{"ancient season", "season: 1890\n", "invalid season"},
		{"bad provider", "season: 2025\npublisher:\n  provider: MYSPACE\n", "publisher.provider"},
		{"telegram without chat", "season: 2025\npublisher:\n  provider: TELEGRAM\n", "telegram_chat_id"},
		{"lookback too small", "season: 2025\nwindow:\n  batter_games: 8\n  lookback_games: 6\n", "lookback_games"},
		{"too many workers", "season: 2025\nfanout:\n  workers: 100\n", "fanout.workers"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
