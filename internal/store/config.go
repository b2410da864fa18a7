package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mode        string `yaml:"mode"` // DRY_RUN or LIVE
	Season      int    `yaml:"season"`
	Timezone    string `yaml:"timezone"`
	PollSeconds int    `yaml:"poll_seconds"`

	API struct {
		BaseURL           string  `yaml:"base_url"`
		TimeoutSeconds    int     `yaml:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"api"`

	Window struct {
		BatterGames   int `yaml:"batter_games"`
		PitcherGames  int `yaml:"pitcher_games"`
		LookbackGames int `yaml:"lookback_games"`
	} `yaml:"window"`

	Fanout struct {
		Workers int `yaml:"workers"`
	} `yaml:"fanout"`

	Publisher struct {
		Provider       string `yaml:"provider"` // TWITTER, TELEGRAM or NONE
		TelegramChatID int64  `yaml:"telegram_chat_id"`
	} `yaml:"publisher"`

	Output struct {
		ImagesDir string `yaml:"images_dir"`
		DataDir   string `yaml:"data_dir"`
	} `yaml:"output"`

	Metrics struct {
		Enabled    bool   `yaml:"enabled"`
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`

	Teams struct {
		Hashtags      map[string]string `yaml:"hashtags"`
		Abbreviations map[string]string `yaml:"abbreviations"`
	} `yaml:"teams"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Season < 1901 {
		return fmt.Errorf("invalid season %d", c.Season)
	}
	switch c.Publisher.Provider {
	case "TWITTER", "TELEGRAM", "NONE":
	default:
		return fmt.Errorf("publisher.provider must be 'TWITTER', 'TELEGRAM' or 'NONE', got '%s'", c.Publisher.Provider)
	}
	if c.Publisher.Provider == "TELEGRAM" && c.Publisher.TelegramChatID == 0 {
		return errors.New("publisher.telegram_chat_id is required for the TELEGRAM provider")
	}
	if c.Window.BatterGames <= 0 || c.Window.PitcherGames <= 0 {
		return errors.New("window sizes must be positive")
	}
	if c.Window.LookbackGames < c.Window.BatterGames {
		return fmt.Errorf("window.lookback_games (%d) must be at least window.batter_games (%d)",
			c.Window.LookbackGames, c.Window.BatterGames)
	}
	if c.Fanout.Workers <= 0 || c.Fanout.Workers > 64 {
		return fmt.Errorf("fanout.workers must be between 1-64, got %d", c.Fanout.Workers)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 300
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "https://statsapi.mlb.com/api/v1"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 20
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = 4
	}
	if c.API.Burst == 0 {
		c.API.Burst = 8
	}
	if c.Window.BatterGames == 0 {
		c.Window.BatterGames = 5
	}
	if c.Window.PitcherGames == 0 {
		c.Window.PitcherGames = 3
	}
	if c.Window.LookbackGames == 0 {
		c.Window.LookbackGames = 10
	}
	if c.Fanout.Workers == 0 {
		c.Fanout.Workers = 12
	}
	if c.Publisher.Provider == "" {
		c.Publisher.Provider = "NONE"
	}
	if c.Output.ImagesDir == "" {
		c.Output.ImagesDir = "images"
	}
	if c.Output.DataDir == "" {
		c.Output.DataDir = "data"
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
