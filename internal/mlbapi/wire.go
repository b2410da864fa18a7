package mlbapi

// Wire structs mirror the subset of the Stats API payloads this bot
// reads. Numeric fields the upstream serves as strings (inningsPitched,
// battingOrder) stay strings here and are parsed defensively in convert.go.

type peopleSearchResponse struct {
	People []struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"people"`
}

type scheduleResponse struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GamePk       int    `json:"gamePk"`
			GameDate     string `json:"gameDate"` // ISO datetime
			OfficialDate string `json:"officialDate"`
			Status       struct {
				DetailedState string `json:"detailedState"`
			} `json:"status"`
			Teams struct {
				Home scheduleTeam `json:"home"`
				Away scheduleTeam `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleTeam struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	ProbablePitcher struct {
		FullName string `json:"fullName"`
	} `json:"probablePitcher"`
}

type boxscoreResponse struct {
	Teams struct {
		Home boxscoreTeam `json:"home"`
		Away boxscoreTeam `json:"away"`
	} `json:"teams"`
}

type boxscoreTeam struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	BattingOrder []int                     `json:"battingOrder"`
	Pitchers     []int                     `json:"pitchers"`
	Players      map[string]boxscorePlayer `json:"players"`
}

type boxscorePlayer struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	BattingOrder string `json:"battingOrder"` // "100".."900", hundreds = lineup slot
	Stats        struct {
		Batting  *wireBatting  `json:"batting"`
		Pitching *wirePitching `json:"pitching"`
	} `json:"stats"`
}

type wireBatting struct {
	AtBats         int `json:"atBats"`
	Hits           int `json:"hits"`
	RBI            int `json:"rbi"`
	HomeRuns       int `json:"homeRuns"`
	BaseOnBalls    int `json:"baseOnBalls"`
	HitByPitch     int `json:"hitByPitch"`
	SacrificeFlies int `json:"sacFlies"`
	Doubles        int `json:"doubles"`
	Triples        int `json:"triples"`
	StrikeOuts     int `json:"strikeOuts"`
}

type wirePitching struct {
	InningsPitched string `json:"inningsPitched"`
	EarnedRuns     int    `json:"earnedRuns"`
	Hits           int    `json:"hits"`
	BaseOnBalls    int    `json:"baseOnBalls"`
	StrikeOuts     int    `json:"strikeOuts"`
	Wins           int    `json:"wins"`
	Losses         int    `json:"losses"`
}

type statsResponse struct {
	Stats []struct {
		Splits []struct {
			Player struct {
				ID       int    `json:"id"`
				FullName string `json:"fullName"`
			} `json:"player"`
			Stat statSplit `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// statSplit carries both hitting and pitching season fields; the API
// serves rate stats as strings ("avg":".315", "era":"3.21").
type statSplit struct {
	AVG      string `json:"avg"`
	OPS      string `json:"ops"`
	HomeRuns int    `json:"homeRuns"`
	RBI      int    `json:"rbi"`
	ERA      string `json:"era"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}

type standingsResponse struct {
	Records []struct {
		TeamRecords []struct {
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
		} `json:"teamRecords"`
	} `json:"records"`
}
