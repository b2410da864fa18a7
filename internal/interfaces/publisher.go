package interfaces

import (
	"context"

	"mlb-lineup-bot/internal/types"
)

// Publisher posts a finished card artifact to a social feed.
type Publisher interface {
	Publish(ctx context.Context, card *types.GameCard, artifactPath string) error
}
