package mlbapi

import (
	"fmt"
	"strconv"
	"strings"

	"mlb-lineup-bot/internal/interfaces"
	"mlb-lineup-bot/internal/types"
)

// parseInnings parses an innings-pitched string. Missing or malformed
// values become 0 so a bad field never aborts a whole lineup.
func parseInnings(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseRate parses a rate-stat string like ".315" or "3.21"; bad → 0.
func parseRate(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseOrderSlot converts the upstream battingOrder string ("100".."900",
// hundreds digit is the lineup slot) into a 1-9 slot, 0 when absent.
func parseOrderSlot(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0
	}
	return n / 100
}

func convertSchedule(raw *scheduleResponse) []types.ScheduleEntry {
	var out []types.ScheduleEntry
	for _, d := range raw.Dates {
		for _, g := range d.Games {
			date := g.OfficialDate
			if date == "" {
				date = d.Date
			}
			out = append(out, types.ScheduleEntry{
				GameID:       g.GamePk,
				GameDate:     date,
				GameDatetime: g.GameDate,
				Status:       g.Status.DetailedState,
				HomeName:     g.Teams.Home.Team.Name,
				AwayName:     g.Teams.Away.Team.Name,
				HomeID:       g.Teams.Home.Team.ID,
				AwayID:       g.Teams.Away.Team.ID,
				HomeProbable: g.Teams.Home.ProbablePitcher.FullName,
				AwayProbable: g.Teams.Away.ProbablePitcher.FullName,
				VenueName:    g.Venue.Name,
			})
		}
	}
	return out
}

func convertBoxscore(gameID int, raw *boxscoreResponse) *types.Boxscore {
	return &types.Boxscore{
		GameID: gameID,
		Home:   convertTeamSheet(&raw.Teams.Home),
		Away:   convertTeamSheet(&raw.Teams.Away),
	}
}

func convertTeamSheet(raw *boxscoreTeam) types.TeamSheet {
	sheet := types.TeamSheet{
		TeamName:     raw.Team.Name,
		BattingOrder: make([]types.PlayerID, 0, len(raw.BattingOrder)),
		Players:      make(map[types.PlayerID]types.PlayerEntry, len(raw.Players)),
		Pitchers:     make([]types.PlayerID, 0, len(raw.Pitchers)),
	}
	for _, id := range raw.BattingOrder {
		sheet.BattingOrder = append(sheet.BattingOrder, types.PlayerID(id))
	}
	for _, id := range raw.Pitchers {
		sheet.Pitchers = append(sheet.Pitchers, types.PlayerID(id))
	}

	for _, p := range raw.Players {
		if p.Person.ID == 0 {
			continue
		}
		entry := types.PlayerEntry{
			ID:           types.PlayerID(p.Person.ID),
			Name:         p.Person.FullName,
			Position:     p.Position.Abbreviation,
			BattingOrder: parseOrderSlot(p.BattingOrder),
		}
		if b := p.Stats.Batting; b != nil {
			entry.Batting = &types.BattingLine{
				AtBats:     b.AtBats,
				Hits:       b.Hits,
				RBI:        b.RBI,
				HomeRuns:   b.HomeRuns,
				Walks:      b.BaseOnBalls,
				HitByPitch: b.HitByPitch,
				SacFlies:   b.SacrificeFlies,
				Doubles:    b.Doubles,
				Triples:    b.Triples,
				StrikeOuts: b.StrikeOuts,
			}
		}
		if pt := p.Stats.Pitching; pt != nil {
			entry.Pitching = &types.PitchingLine{
				InningsPitched: parseInnings(pt.InningsPitched),
				EarnedRuns:     pt.EarnedRuns,
				Hits:           pt.Hits,
				Walks:          pt.BaseOnBalls,
				StrikeOuts:     pt.StrikeOuts,
				Wins:           pt.Wins,
				Losses:         pt.Losses,
			}
		}
		sheet.Players[entry.ID] = entry
	}
	return sheet
}

func convertSeasonHitting(raw *statsResponse) []interfaces.SeasonBattingLine {
	var out []interfaces.SeasonBattingLine
	for _, group := range raw.Stats {
		for _, split := range group.Splits {
			if split.Player.FullName == "" {
				continue
			}
			out = append(out, interfaces.SeasonBattingLine{
				Name:     split.Player.FullName,
				AVG:      parseRate(split.Stat.AVG),
				HomeRuns: split.Stat.HomeRuns,
				RBI:      split.Stat.RBI,
				OPS:      parseRate(split.Stat.OPS),
			})
		}
	}
	return out
}

func convertSeasonPitching(raw *statsResponse) []interfaces.SeasonPitchingLine {
	var out []interfaces.SeasonPitchingLine
	for _, group := range raw.Stats {
		for _, split := range group.Splits {
			if split.Player.FullName == "" {
				continue
			}
			out = append(out, interfaces.SeasonPitchingLine{
				Name:   split.Player.FullName,
				Wins:   split.Stat.Wins,
				Losses: split.Stat.Losses,
				ERA:    parseRate(split.Stat.ERA),
			})
		}
	}
	return out
}

func convertStandings(raw *standingsResponse) map[string]string {
	records := make(map[string]string)
	for _, div := range raw.Records {
		for _, tr := range div.TeamRecords {
			if tr.Team.Name == "" {
				continue
			}
			records[tr.Team.Name] = fmt.Sprintf("%d-%d", tr.Wins, tr.Losses)
		}
	}
	return records
}
