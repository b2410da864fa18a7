package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		shutdownCtx, c := context.WithTimeout(context.Background(), 5*time.Second)
		defer c()
		_ = logger.Shutdown(shutdownCtx)
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	comps, err := buildComponents(ctx, cfg)
	must(err)

	runID := uuid.NewString()
	logger.Info(ctx, "Bot started",
		"run_id", runID,
		"mode", cfg.Mode,
		"season", cfg.Season,
		"provider", cfg.Publisher.Provider,
		"poll_seconds", cfg.PollSeconds,
	)

	if err := comps.renderer.OrganizeExisting(ctx); err != nil {
		logger.Warn(ctx, "Artifact organization failed", "error", err)
	}

	if cfg.Metrics.Enabled {
		go comps.metrics.Serve(ctx, cfg.Metrics.ListenAddr)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	pollOnce(ctx, comps)
	for {
		select {
		case <-tick.C:
			pollOnce(ctx, comps)
		case <-sigc:
			logger.Info(ctx, "Shutting down", "run_id", runID)
			return
		case <-ctx.Done():
			return
		}
	}
}

// pollOnce runs one cycle: day-transition housekeeping, today's
// schedule, and a step-render-publish pass over unprocessed games.
func pollOnce(ctx context.Context, c *components) {
	now := time.Now().In(c.loc)
	timer := logger.StartOperation(ctx, "poll.cycle", "date", now.Format("2006-01-02"))
	ctx = timer.GetContext()

	rolled, err := c.queue.CheckDateTransition(now)
	if err != nil {
		logger.ErrorWithErr(ctx, "Date transition check failed", err)
	}
	if rolled {
		logger.Info(ctx, "New day detected - clearing caches")
		c.cache.Clear()
		c.season.Clear()
	}

	// The daily slate is fetched fresh each cycle, bypassing the cache:
	// probable pitchers, statuses and postponements change mid-day.
	today := now.Format("2006-01-02")
	schedule, err := c.src.Schedule(ctx, 0, c.cfg.Season, today, today)
	if err != nil {
		logger.ErrorWithErr(ctx, "Daily schedule fetch failed", err, "date", today)
		timer.EndWithError(err)
		return
	}
	if len(schedule) == 0 {
		logger.Debug(ctx, "No games scheduled", "date", today)
		timer.End("scheduled", 0)
		return
	}

	games := c.queue.Unprocessed(schedule)
	logger.Info(ctx, "Poll cycle",
		"date", today,
		"scheduled", len(schedule),
		"pending", len(games),
	)

	for _, game := range games {
		processGame(ctx, c, game)
	}

	if logger.IsDebugEnabled() {
		stats := c.cache.GetStats()
		logger.Debug(ctx, "Cache stats",
			"player_ids", stats.PlayerIDs,
			"boxscores", stats.Boxscores,
			"schedules", stats.Schedules,
		)
	}
	timer.End("scheduled", len(schedule), "pending", len(games))
}

// processGame takes one game through the pipeline. A failure at any
// stage leaves the game unprocessed so the next poll retries it.
func processGame(ctx context.Context, c *components, game types.ScheduleEntry) {
	start := time.Now()
	card, err := c.engine.Step(ctx, game)
	c.metrics.ObserveStep(time.Since(start))
	if err != nil {
		c.metrics.StepError()
		return
	}
	if !card.LineupsOfficial {
		return
	}

	artifact, err := c.renderer.Render(ctx, card)
	if err != nil {
		logger.ErrorWithErr(ctx, "Render failed", err, "game_id", game.GameID)
		c.metrics.StepError()
		return
	}

	if err := c.pub.Publish(ctx, card, artifact); err != nil {
		logger.ErrorWithErr(ctx, "Publish failed", err, "game_id", game.GameID)
		c.metrics.PublishError()
		return
	}
	c.metrics.CardPublished()

	if err := c.queue.MarkProcessed(game.GameID); err != nil {
		logger.ErrorWithErr(ctx, "Failed to persist processed game", err, "game_id", game.GameID)
	}
	c.metrics.GameProcessed()
}
