package postgres

import "database/sql"

type msfGameRow struct {
	GameID   int64  `db:"msf_game_id"`
	Season   string `db:"season"`
	GameDate string `db:"game_date"`
	AwayAbbr string `db:"away_team_abbr"`
	HomeAbbr string `db:"home_team_abbr"`
}

type msfTeamGamelogRow struct {
	GameID          int64           `db:"msf_game_id"`
	TeamAbbr        string          `db:"team_abbr"`
	GoalsFor        int             `db:"goals_for"`
	GoalsAgainst    int             `db:"goals_against"`
	Shots           int             `db:"shots"`
	ShotsAgainst    int             `db:"shots_against"`
	PowerplayGoals  int             `db:"powerplay_goals"`
	Powerplays      int             `db:"powerplays"`
	PowerplayPct    sql.NullFloat64 `db:"powerplay_percent"`
	PenaltyMinutes  int             `db:"penalty_minutes"`
	FaceoffWins     int             `db:"faceoff_wins"`
	FaceoffLosses   int             `db:"faceoff_losses"`
	BlockedShots    int             `db:"blocked_shots"`
}

type msfPlayerGamelogRow struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Goals     int    `db:"goals"`
	Assists   int    `db:"assists"`
}

type ncaaGameRow struct {
	GameID         int64          `db:"game_id"`
	GameDate       string         `db:"game_date"`
	StartTime      sql.NullString `db:"start_time"`
	StartTimeLocal sql.NullString `db:"start_time_local_str"`
	AwayTeamShort  string         `db:"away_team_short"`
	AwayTeamFull   string         `db:"away_team_full"`
	HomeTeamShort  string         `db:"home_team_short"`
	HomeTeamFull   string         `db:"home_team_full"`
}

type ncaaTeamGamelogRow struct {
	ContestID        int64           `db:"contest_id"`
	TeamSide         string          `db:"team_side"`
	TeamNameShort    string          `db:"team_name_short"`
	TeamNameFull     string          `db:"team_name_full"`
	Goals            int             `db:"goals"`
	Shots            int             `db:"shots"`
	PPGoals          int             `db:"pp_goals"`
	PPOpportunities  int             `db:"pp_opportunities"`
	PPPercentage     sql.NullFloat64 `db:"pp_percentage"`
	PIMMinutes       int             `db:"pim_minutes"`
	Blocks           int             `db:"blocks"`
	FaceoffWon       int             `db:"faceoff_won"`
	FaceoffLost      int             `db:"faceoff_lost"`
	Saves            int             `db:"saves"`
}

type ncaaPlayerGamelogRow struct {
	FirstName string `db:"player_first_name"`
	LastName  string `db:"player_last_name"`
	Goals     int    `db:"goals"`
	Assists   int    `db:"assists"`
}
