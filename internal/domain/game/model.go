package game

import "errors"

// League identifies which upstream feed a game belongs to.
type League string

const (
	LeagueNHL  League = "nhl"
	LeagueNCAA League = "ncaa"
)

var ErrNotFound = errors.New("game not found")

// ParseLeague normalizes a league query value. "ncaah" is a legacy alias.
func ParseLeague(raw string) (League, bool) {
	switch raw {
	case "nhl":
		return LeagueNHL, true
	case "ncaa", "ncaah":
		return LeagueNCAA, true
	default:
		return "", false
	}
}

// StateRecord is the canonical per-game live state shared by both leagues.
// Scores are pointers so that "unknown" stays distinguishable from a
// scoreless game; the NCAA feed routinely omits one side mid-update.
type StateRecord struct {
	GameID string
	League League

	AwayScore *int
	HomeScore *int

	Label          string
	IsLive         bool
	IsIntermission bool
	IsFinal        bool

	// Raw NCAA fields passed through to clients that build their own labels.
	Status  string
	Period  string
	Minutes *int
	Seconds *int
}

// NHLMeta is the stored schedule row needed to address an NHL boxscore
// upstream (season + date + matchup form the upstream URL).
type NHLMeta struct {
	GameID   int64
	Season   string
	Date     string
	AwayAbbr string
	HomeAbbr string
}

// NCAAMeta is the stored schedule row for an NCAA contest. StartTimeLocal is
// the free-text local tip-off string ("07:00PM ET"); StartTime is the plain
// TIME column fallback.
type NCAAMeta struct {
	GameID         string
	Date           string
	StartTimeLocal string
	StartTime      string
	AwayName       string
	HomeName       string
}

// TeamLine is one team's totals for the boxscore detail view.
type TeamLine struct {
	Abbr           string
	Goals          int
	Shots          int
	PPGoals        int
	PPOpportunity  int
	PPPercent      *float64
	PenaltyMinutes int
	FaceoffWins    int
	FaceoffLosses  int
	Blocks         int
	Saves          int
}

// ScorerLine is one skater's goal/assist tally for the detail view.
type ScorerLine struct {
	Name    string
	Goals   int
	Assists int
	Points  int
}

// HistoricalBoxscore is a persisted final boxscore, used when the live
// provider is no longer authoritative for a completed game.
type HistoricalBoxscore struct {
	Away        TeamLine
	Home        TeamLine
	AwayScorers []ScorerLine
	HomeScorers []ScorerLine
}
