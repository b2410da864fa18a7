package interfaces

import (
	"context"

	"mlb-lineup-bot/internal/types"
)

// StatsSource is the upstream schedule/boxscore/player-lookup provider.
// Implementations may be slow or rate limited; callers go through the
// response cache rather than hitting a StatsSource directly.
type StatsSource interface {
	// LookupPlayer searches players by name and returns all hits, best
	// match first.
	LookupPlayer(ctx context.Context, name string) ([]types.PlayerRef, error)

	// Schedule returns a team's games between two YYYY-MM-DD dates,
	// in chronological order. teamID 0 means the whole league.
	Schedule(ctx context.Context, teamID, season int, startDate, endDate string) ([]types.ScheduleEntry, error)

	// Boxscore returns the full per-game record for both sides.
	Boxscore(ctx context.Context, gameID int) (*types.Boxscore, error)
}
