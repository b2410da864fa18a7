package interfaces

import (
	"context"

	"mlb-lineup-bot/internal/types"
)

type Engine interface {
	Step(ctx context.Context, game types.ScheduleEntry) (*types.GameCard, error)
}
