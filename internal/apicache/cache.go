// Package apicache memoizes the three upstream query types (player
// lookups, team schedules and boxscores) for the duration of one run.
// Every batter's rolling window walks the same handful of games, so
// without this layer the daily job refetches each boxscore once per
// lineup slot.
package apicache

import (
	"context"
	"strings"
	"sync"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/types"
)

// Recorder receives cache hit/miss events. A nil Recorder is valid.
type Recorder interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

type scheduleKey struct {
	TeamID    int
	Season    int
	StartDate string
	EndDate   string
}

// playerEntry caches a resolution outcome, including misses: a name
// that failed to resolve once will fail again all run, and negative
// caching keeps repeated lineups from re-querying a doomed lookup.
type playerEntry struct {
	ID    types.PlayerID
	Found bool
}

// Stats reports how many results each map currently holds.
type Stats struct {
	PlayerIDs int `json:"player_ids_cached"`
	Boxscores int `json:"boxscores_cached"`
	Schedules int `json:"schedules_cached"`
}

// Cache wraps a StatsSource with run-scoped memoization. Safe for
// concurrent use: the fan-out workers may populate it in parallel, and
// because fetches are idempotent a racing duplicate fetch simply
// overwrites an identical value.
type Cache struct {
	src interfaces.StatsSource
	rec Recorder

	mu        sync.RWMutex
	players   map[string]playerEntry
	schedules map[scheduleKey][]types.ScheduleEntry
	boxscores map[int]*types.Boxscore
}

func New(src interfaces.StatsSource, rec Recorder) *Cache {
	return &Cache{
		src:       src,
		rec:       rec,
		players:   make(map[string]playerEntry),
		schedules: make(map[scheduleKey][]types.ScheduleEntry),
		boxscores: make(map[int]*types.Boxscore),
	}
}

func (c *Cache) hit(kind string) {
	if c.rec != nil {
		c.rec.CacheHit(kind)
	}
}

func (c *Cache) miss(kind string) {
	if c.rec != nil {
		c.rec.CacheMiss(kind)
	}
}

// normalizeName builds the player cache key: case-folded and trimmed.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolvePlayerID resolves a player name to an identity. Resolution is
// two-stage: an exact lookup first, then a last-name search whose hits
// are matched case-insensitively against the full name. The fallback is
// a heuristic carried over from the lineup data, where accented or
// abbreviated first names sometimes miss the exact search.
//
// Lookup failures and empty results are negatively cached; remote
// errors never escape this method.
func (c *Cache) ResolvePlayerID(ctx context.Context, name string) (types.PlayerID, bool) {
	key := normalizeName(name)
	if key == "" {
		return 0, false
	}

	c.mu.RLock()
	entry, ok := c.players[key]
	c.mu.RUnlock()
	if ok {
		c.hit("player")
		return entry.ID, entry.Found
	}
	c.miss("player")

	id, found := c.resolve(ctx, name)

	c.mu.Lock()
	c.players[key] = playerEntry{ID: id, Found: found}
	c.mu.Unlock()

	return id, found
}

func (c *Cache) resolve(ctx context.Context, name string) (types.PlayerID, bool) {
	refs, err := c.src.LookupPlayer(ctx, name)
	if err != nil {
		logger.Warn(ctx, "Player lookup failed", "player", name, "error", err)
		return 0, false
	}
	if len(refs) > 0 {
		return refs[0].ID, true
	}

	// Second stage: search by last name, match the full name loosely.
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return 0, false
	}
	lastName := parts[len(parts)-1]
	refs, err = c.src.LookupPlayer(ctx, lastName)
	if err != nil {
		logger.Warn(ctx, "Player last-name lookup failed", "player", name, "error", err)
		return 0, false
	}
	want := normalizeName(name)
	for _, ref := range refs {
		got := normalizeName(ref.FullName)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return ref.ID, true
		}
	}
	if len(refs) > 0 {
		// All hits share the last name; take the best-ranked one.
		return refs[0].ID, true
	}
	return 0, false
}

// Schedule returns the cached schedule for the exact tuple, fetching it
// once. Remote errors degrade to an empty slice and are not cached, so
// a transient failure can be retried by a later call.
func (c *Cache) Schedule(ctx context.Context, teamID, season int, startDate, endDate string) []types.ScheduleEntry {
	key := scheduleKey{TeamID: teamID, Season: season, StartDate: startDate, EndDate: endDate}

	c.mu.RLock()
	entries, ok := c.schedules[key]
	c.mu.RUnlock()
	if ok {
		c.hit("schedule")
		return entries
	}
	c.miss("schedule")

	entries, err := c.src.Schedule(ctx, teamID, season, startDate, endDate)
	if err != nil {
		logger.Warn(ctx, "Schedule fetch failed", "team_id", teamID, "start", startDate, "end", endDate, "error", err)
		return nil
	}

	c.mu.Lock()
	c.schedules[key] = entries
	c.mu.Unlock()

	return entries
}

// Boxscore returns the cached boxscore for a game. Failures are NOT
// cached: a game whose boxscore is momentarily unavailable should be
// retryable later in the same run.
func (c *Cache) Boxscore(ctx context.Context, gameID int) (*types.Boxscore, bool) {
	c.mu.RLock()
	box, ok := c.boxscores[gameID]
	c.mu.RUnlock()
	if ok {
		c.hit("boxscore")
		return box, true
	}
	c.miss("boxscore")

	box, err := c.src.Boxscore(ctx, gameID)
	if err != nil {
		logger.Warn(ctx, "Boxscore fetch failed", "game_id", gameID, "error", err)
		return nil, false
	}

	c.mu.Lock()
	c.boxscores[gameID] = box
	c.mu.Unlock()

	return box, true
}

// RefreshBoxscore always fetches the game from the source, replacing
// any cached copy. The game being stepped must be re-read every poll:
// its lineup turns official at some point during the day, and a copy
// cached before that would hide the change until the next day. The
// plain Boxscore path keeps serving the finished games behind the
// rolling windows, which never change. On a fetch failure any older
// cached copy is left in place.
func (c *Cache) RefreshBoxscore(ctx context.Context, gameID int) (*types.Boxscore, bool) {
	c.miss("boxscore")

	box, err := c.src.Boxscore(ctx, gameID)
	if err != nil {
		logger.Warn(ctx, "Boxscore refresh failed", "game_id", gameID, "error", err)
		return nil, false
	}

	c.mu.Lock()
	c.boxscores[gameID] = box
	c.mu.Unlock()

	return box, true
}

// Clear empties all three maps under one exclusive lock; no reader can
// observe a partially cleared cache. Called on the day transition.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.players = make(map[string]playerEntry)
	c.schedules = make(map[scheduleKey][]types.ScheduleEntry)
	c.boxscores = make(map[int]*types.Boxscore)
}

// GetStats returns current cache occupancy.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		PlayerIDs: len(c.players),
		Boxscores: len(c.boxscores),
		Schedules: len(c.schedules),
	}
}
