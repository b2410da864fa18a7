package types

import "fmt"

// PlayerID is the numeric identity a player name resolves to. Boxscore
// rosters key players as "ID<number>", matching the upstream API.
type PlayerID int

func (id PlayerID) RosterKey() string { return fmt.Sprintf("ID%d", id) }

// PlayerRef is one hit from a player name lookup.
type PlayerRef struct {
	ID       PlayerID `json:"id"`
	FullName string   `json:"fullName"`
}

// ScheduleEntry is one game on a team's (or the league's) schedule.
type ScheduleEntry struct {
	GameID       int    `json:"game_id"`
	GameDate     string `json:"game_date"` // YYYY-MM-DD
	GameDatetime string `json:"game_datetime,omitempty"`
	Status       string `json:"status,omitempty"`
	HomeName     string `json:"home_name"`
	AwayName     string `json:"away_name"`
	HomeID       int    `json:"home_id"`
	AwayID       int    `json:"away_id"`
	HomeProbable string `json:"home_probable_pitcher,omitempty"`
	AwayProbable string `json:"away_probable_pitcher,omitempty"`
	VenueName    string `json:"venue_name,omitempty"`
}

// BattingLine is a single-game batting line.
type BattingLine struct {
	AtBats     int
	Hits       int
	RBI        int
	HomeRuns   int
	Walks      int
	HitByPitch int
	SacFlies   int
	Doubles    int
	Triples    int
	StrikeOuts int
}

// PlateAppearances is AB + BB + HBP + SF, the unit of "did this player
// actually participate offensively".
func (b BattingLine) PlateAppearances() int {
	return b.AtBats + b.Walks + b.HitByPitch + b.SacFlies
}

// TotalBases is H + 2B + 2*3B + 3*HR (singles already counted in hits).
func (b BattingLine) TotalBases() int {
	return b.Hits + b.Doubles + 2*b.Triples + 3*b.HomeRuns
}

// PitchingLine is a single-game pitching line. InningsPitched is parsed
// defensively at the API boundary: missing or malformed values become 0.
type PitchingLine struct {
	InningsPitched float64
	EarnedRuns     int
	Hits           int
	Walks          int
	StrikeOuts     int
	Wins           int
	Losses         int
}

// PlayerEntry is one roster entry inside a boxscore side.
type PlayerEntry struct {
	ID           PlayerID
	Name         string
	Position     string // abbreviation, e.g. "SS", "P"
	BattingOrder int    // 1-9 for starters, 0 when not in the order
	Batting      *BattingLine
	Pitching     *PitchingLine
}

// TeamSheet is one side of a boxscore.
type TeamSheet struct {
	TeamName     string
	BattingOrder []PlayerID
	Players      map[PlayerID]PlayerEntry
	Pitchers     []PlayerID // in the order the upstream API reports them
}

// Boxscore is the full per-game record for both sides.
type Boxscore struct {
	GameID int
	Home   TeamSheet
	Away   TeamSheet
}

// Side returns the requested sheet; side must be "home" or "away".
func (b *Boxscore) Side(side string) *TeamSheet {
	if side == "home" {
		return &b.Home
	}
	return &b.Away
}

// Find locates a player on either side of the boxscore.
func (b *Boxscore) Find(id PlayerID) (PlayerEntry, bool) {
	if p, ok := b.Home.Players[id]; ok {
		return p, true
	}
	p, ok := b.Away.Players[id]
	return p, ok
}

// LineupSlot is one position in a starting lineup, 1-indexed.
type LineupSlot struct {
	Order    int      `json:"order"`
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
}

// PitcherInfo identifies a side's starting pitcher.
type PitcherInfo struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
}

// RollingBattingLine aggregates a batter's most recent qualifying games.
type RollingBattingLine struct {
	Games      int
	AtBats     int
	Hits       int
	RBI        int
	HomeRuns   int
	Walks      int
	HitByPitch int
	SacFlies   int
	TotalBases int
	StrikeOuts int

	AVG float64
	OBP float64
	SLG float64
	OPS float64

	// Activity coverage: of the last lookback scheduled games, how many
	// had any plate appearance. Insufficient is only set when the full
	// lookback window existed and coverage fell below the floor.
	GamesWithPA  int
	LookbackSeen int
	Insufficient bool
}

// RollingPitchingLine aggregates a pitcher's most recent appearances.
type RollingPitchingLine struct {
	Games          int
	InningsPitched float64
	EarnedRuns     int
	Hits           int
	Walks          int
	StrikeOuts     int
	Wins           int
	Losses         int

	ERA  float64
	WHIP float64
}

// Trend labels a batter's recent form against their season baseline.
type Trend string

const (
	TrendHot     Trend = "hot"
	TrendCold    Trend = "cold"
	TrendNeutral Trend = "neutral"
)

// TrendReason explains a neutral label that was forced rather than measured.
type TrendReason string

const (
	ReasonNone                 TrendReason = ""
	ReasonInsufficientActivity TrendReason = "insufficient_recent_activity"
)

// TrendReport is the classifier output for one batter. OPSDiff is nil
// when it was explicitly not computed (insufficient sample or a missing
// baseline), never zero-by-accident.
type TrendReport struct {
	Name      string      `json:"player_name"`
	SeasonOPS float64     `json:"season_ops"`
	RecentOPS float64     `json:"recent_ops"`
	OPSDiff   *float64    `json:"ops_difference"`
	Trend     Trend       `json:"trend"`
	Reason    TrendReason `json:"reason,omitempty"`
}

// CardPlayer is one lineup row on the rendered matchup card.
type CardPlayer struct {
	Order    int    `json:"order"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Stats    string `json:"stats"` // formatted recent line, or "No recent data"
	Trend    Trend  `json:"trend"`
}

// CardPitcher is a probable/starting pitcher row on the card.
type CardPitcher struct {
	Name  string `json:"name"`
	Stats string `json:"stats"`
}

// GameCard is everything the renderer and publisher need for one game.
type GameCard struct {
	GameID          int          `json:"game_id"`
	GameDate        string       `json:"game_date"` // MM/DD/YYYY for display
	GameTime        string       `json:"game_time"`
	Venue           string       `json:"venue"`
	HomeTeam        string       `json:"home_team"`
	AwayTeam        string       `json:"away_team"`
	HomeRecord      string       `json:"home_record"`
	AwayRecord      string       `json:"away_record"`
	HomeLineup      []CardPlayer `json:"home_lineup"`
	AwayLineup      []CardPlayer `json:"away_lineup"`
	HomePitcher     CardPitcher  `json:"home_pitcher"`
	AwayPitcher     CardPitcher  `json:"away_pitcher"`
	LineupsOfficial bool         `json:"lineups_official"`
}

// IsPitcherPosition reports whether a position abbreviation denotes a
// pitcher; pitchers are excluded from batting trend classification.
func IsPitcherPosition(pos string) bool {
	switch pos {
	case "P", "SP", "RP", "CP":
		return true
	}
	return false
}
