package msf

import (
	"strings"

	"github.com/sjms/livescores/internal/domain/game"
)

// Boxscore is the subset of the provider's boxscore payload the service
// consumes. Numeric fields the provider omits for pregame payloads stay
// pointers so absence survives the round trip.
type Boxscore struct {
	LastUpdatedOn string  `json:"lastUpdatedOn"`
	Game          Game    `json:"game"`
	Scoring       Scoring `json:"scoring"`
	Stats         Stats   `json:"stats"`
}

type Game struct {
	ID            int64  `json:"id"`
	StartTime     string `json:"startTime"`
	PlayedStatus  string `json:"playedStatus"`
	AwayTeam      Team   `json:"awayTeam"`
	HomeTeam      Team   `json:"homeTeam"`
}

type Team struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
}

type Scoring struct {
	CurrentPeriod                 *int            `json:"currentPeriod"`
	CurrentPeriodSecondsRemaining *int            `json:"currentPeriodSecondsRemaining"`
	CurrentIntermission           *int            `json:"currentIntermission"`
	AwayScoreTotal                *int            `json:"awayScoreTotal"`
	HomeScoreTotal                *int            `json:"homeScoreTotal"`
	Periods                       []ScoringPeriod `json:"periods"`
}

type ScoringPeriod struct {
	PeriodNumber int           `json:"periodNumber"`
	ScoringPlays []ScoringPlay `json:"scoringPlays"`
}

type ScoringPlay struct {
	Team                 *Team  `json:"team"`
	PeriodSecondsElapsed *int   `json:"periodSecondsElapsed"`
	PlayDescription      string `json:"playDescription"`
}

type Stats struct {
	Away SideStats `json:"away"`
	Home SideStats `json:"home"`
}

type SideStats struct {
	TeamStats []TeamStatGroup `json:"teamStats"`
}

type TeamStatGroup struct {
	Faceoffs      Faceoffs      `json:"faceoffs"`
	Powerplay     Powerplay     `json:"powerplay"`
	Miscellaneous Miscellaneous `json:"miscellaneous"`
}

type Faceoffs struct {
	FaceoffWins   int `json:"faceoffWins"`
	FaceoffLosses int `json:"faceoffLosses"`
}

type Powerplay struct {
	Powerplays        int      `json:"powerplays"`
	PowerplayGoals    int      `json:"powerplayGoals"`
	PowerplayPercent  *float64 `json:"powerplayPercent"`
}

type Miscellaneous struct {
	GoalsFor       int `json:"goalsFor"`
	GoalsAgainst   int `json:"goalsAgainst"`
	Shots          int `json:"shots"`
	ShotsAgainst   int `json:"shAgainst"`
	PenaltyMinutes int `json:"penaltyMinutes"`
	BlockedShots   int `json:"blockedShots"`
}

// StatusInput maps the payload onto the shared status machine.
func (b *Boxscore) StatusInput() game.NHLStatusInput {
	return game.NHLStatusInput{
		PlayedStatus:        b.Game.PlayedStatus,
		CurrentPeriod:       b.Scoring.CurrentPeriod,
		CurrentIntermission: b.Scoring.CurrentIntermission,
		SecondsRemaining:    b.Scoring.CurrentPeriodSecondsRemaining,
	}
}

// TeamTotals flattens one side's first teamStats group into the
// league-neutral line used by the detail view. Saves are derived from
// shots against minus goals against; a negative difference (stat feed
// mid-correction) clamps to zero.
func (b *Boxscore) TeamTotals(side string, abbr string) game.TeamLine {
	var group TeamStatGroup
	switch strings.ToLower(side) {
	case "away":
		if len(b.Stats.Away.TeamStats) > 0 {
			group = b.Stats.Away.TeamStats[0]
		}
	case "home":
		if len(b.Stats.Home.TeamStats) > 0 {
			group = b.Stats.Home.TeamStats[0]
		}
	}

	saves := 0
	if group.Miscellaneous.ShotsAgainst > 0 {
		saves = group.Miscellaneous.ShotsAgainst - group.Miscellaneous.GoalsAgainst
		if saves < 0 {
			saves = 0
		}
	}

	short := strings.ToUpper(strings.TrimSpace(abbr))
	if short == "" {
		short = strings.ToUpper(side)
	}

	return game.TeamLine{
		Abbr:           short,
		Goals:          group.Miscellaneous.GoalsFor,
		Shots:          group.Miscellaneous.Shots,
		PPGoals:        group.Powerplay.PowerplayGoals,
		PPOpportunity:  group.Powerplay.Powerplays,
		PPPercent:      group.Powerplay.PowerplayPercent,
		PenaltyMinutes: group.Miscellaneous.PenaltyMinutes,
		FaceoffWins:    group.Faceoffs.FaceoffWins,
		FaceoffLosses:  group.Faceoffs.FaceoffLosses,
		Blocks:         group.Miscellaneous.BlockedShots,
		Saves:          saves,
	}
}
