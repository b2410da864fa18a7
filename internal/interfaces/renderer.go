package interfaces

import (
	"context"

	"mlb-lineup-bot/internal/types"
)

// Renderer turns a game card into an on-disk artifact and returns its path.
type Renderer interface {
	Render(ctx context.Context, card *types.GameCard) (string, error)
}
