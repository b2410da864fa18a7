package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"mlb-lineup-bot/internal/apicache"
	"mlb-lineup-bot/internal/engine"
	"mlb-lineup-bot/internal/engine/engineobs"
	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/metrics"
	"mlb-lineup-bot/internal/mlbapi"
	"mlb-lineup-bot/internal/publish"
	"mlb-lineup-bot/internal/queue"
	"mlb-lineup-bot/internal/render"
	"mlb-lineup-bot/internal/rolling"
	"mlb-lineup-bot/internal/season"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/trace"
	"mlb-lineup-bot/internal/trend"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("LINEUP_BOT_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// components bundles everything a poll cycle touches.
type components struct {
	cfg      *store.Config
	src      interfaces.StatsSource
	cache    *apicache.Cache
	season   *season.Source
	queue    *queue.Queue
	engine   interfaces.Engine
	renderer *render.HTMLRenderer
	pub      interfaces.Publisher
	metrics  *metrics.Manager
	loc      *time.Location
}

func buildComponents(ctx context.Context, cfg *store.Config) (*components, error) {
	var mgr *metrics.Manager
	if cfg.Metrics.Enabled {
		mgr = metrics.NewManager()
	}

	client := mlbapi.NewClient(mlbapi.Params{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})

	cache := apicache.New(client, mgr)
	seasonSrc := season.New(client, cfg.Season)
	agg := rolling.New(cache, cfg.Window.BatterGames, cfg.Window.PitcherGames, cfg.Window.LookbackGames)
	classifier := trend.New(seasonSrc)

	q, err := queue.Open(cfg.Output.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open game queue: %w", err)
	}

	renderer, err := render.NewHTML(cfg.Output.ImagesDir)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	pub, err := initializePublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn(ctx, "Unknown timezone, falling back to UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}

	eng := engineobs.Wrap(engine.New(cfg, cache, agg, classifier, seasonSrc))

	return &components{
		cfg:      cfg,
		src:      client,
		cache:    cache,
		season:   seasonSrc,
		queue:    q,
		engine:   eng,
		renderer: renderer,
		pub:      pub,
		metrics:  mgr,
		loc:      loc,
	}, nil
}

// initializePublisher picks the publisher for the configured provider.
// DRY_RUN always posts to the log regardless of provider.
func initializePublisher(ctx context.Context, cfg *store.Config) (interfaces.Publisher, error) {
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - cards will be logged, not posted")
		return publish.Noop{}, nil
	}

	switch cfg.Publisher.Provider {
	case "TWITTER":
		creds, err := publish.TwitterCredentialsFromEnv()
		if err != nil {
			return nil, err
		}
		return publish.NewTwitter(cfg, creds), nil
	case "TELEGRAM":
		return publish.NewTelegram(cfg)
	default:
		logger.Warn(ctx, "No publisher configured - cards will be logged only")
		return publish.Noop{}, nil
	}
}
