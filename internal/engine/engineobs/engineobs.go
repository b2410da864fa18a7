package engineobs

import (
	"context"
	"time"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/trace"
	"mlb-lineup-bot/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Step(ctx context.Context, game types.ScheduleEntry) (*types.GameCard, error) {
	ctx, span := trace.StartGameSpan(ctx, "engine.Step", game.GameID, game.AwayName, game.HomeName)
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting game cycle",
		"game_id", game.GameID,
		"away", game.AwayName,
		"home", game.HomeName,
	)

	card, err := oe.engine.Step(ctx, game)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Game cycle failed", err,
			"game_id", game.GameID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Game cycle completed",
		"game_id", game.GameID,
		"official", card.LineupsOfficial,
		"home_players", len(card.HomeLineup),
		"away_players", len(card.AwayLineup),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return card, nil
}
