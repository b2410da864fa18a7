// Package season caches league-wide season aggregates. The stats
// endpoints return every qualifying player in one response, so the
// whole league is fetched once per day and looked up by name.
package season

import (
	"context"
	"strings"
	"sync"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/logger"
)

// Fetcher is the slice of the stats client this package consumes.
type Fetcher interface {
	SeasonHitting(ctx context.Context, season int) ([]interfaces.SeasonBattingLine, error)
	SeasonPitching(ctx context.Context, season int) ([]interfaces.SeasonPitchingLine, error)
	Standings(ctx context.Context, season int) (map[string]string, error)
}

// Source implements interfaces.SeasonSource over bulk fetches.
type Source struct {
	fetcher Fetcher
	season  int

	mu        sync.Mutex
	batters   map[string]interfaces.SeasonBattingLine
	pitchers  map[string]interfaces.SeasonPitchingLine
	standings map[string]string
}

func New(fetcher Fetcher, season int) *Source {
	return &Source{fetcher: fetcher, season: season}
}

// BatterLine returns the season baseline for a batter by name. The
// first call fetches the full league; later calls are map lookups.
func (s *Source) BatterLine(ctx context.Context, name string) (*interfaces.SeasonBattingLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batters == nil {
		lines, err := s.fetcher.SeasonHitting(ctx, s.season)
		if err != nil {
			logger.ErrorWithErr(ctx, "season hitting fetch failed", err)
			return nil, false
		}
		s.batters = make(map[string]interfaces.SeasonBattingLine, len(lines))
		for _, line := range lines {
			s.batters[normalize(line.Name)] = line
		}
	}
	if line, ok := lookup(s.batters, name); ok {
		return &line, true
	}
	return nil, false
}

// PitcherLine returns the season baseline for a pitcher by name.
func (s *Source) PitcherLine(ctx context.Context, name string) (*interfaces.SeasonPitchingLine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pitchers == nil {
		lines, err := s.fetcher.SeasonPitching(ctx, s.season)
		if err != nil {
			logger.ErrorWithErr(ctx, "season pitching fetch failed", err)
			return nil, false
		}
		s.pitchers = make(map[string]interfaces.SeasonPitchingLine, len(lines))
		for _, line := range lines {
			s.pitchers[normalize(line.Name)] = line
		}
	}
	if line, ok := lookup(s.pitchers, name); ok {
		return &line, true
	}
	return nil, false
}

// TeamRecord returns "W-L" for a team, or "" when unknown.
func (s *Source) TeamRecord(ctx context.Context, teamName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.standings == nil {
		records, err := s.fetcher.Standings(ctx, s.season)
		if err != nil {
			logger.ErrorWithErr(ctx, "standings fetch failed", err)
			return ""
		}
		s.standings = records
	}
	if record, ok := s.standings[teamName]; ok {
		return record
	}
	// Standings key on full team names; card input may carry either.
	for name, record := range s.standings {
		if strings.EqualFold(name, teamName) {
			return record
		}
	}
	return ""
}

// Clear drops all cached aggregates so the next lookup refetches.
// Called on the day transition alongside the response cache.
func (s *Source) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batters = nil
	s.pitchers = nil
	s.standings = nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// lookup matches exactly first, then falls back to a last-name
// substring scan so "J.D. Martinez" finds "J.D.  Martinez" style
// upstream variants.
func lookup[T any](m map[string]T, name string) (T, bool) {
	key := normalize(name)
	if line, ok := m[key]; ok {
		return line, true
	}
	parts := strings.Fields(key)
	if len(parts) > 1 {
		last := parts[len(parts)-1]
		for k, line := range m {
			if strings.Contains(k, last) && strings.Contains(k, parts[0]) {
				return line, true
			}
		}
	}
	var zero T
	return zero, false
}
