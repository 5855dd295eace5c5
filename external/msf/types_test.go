package msf

import "testing"

func TestBoxscore_TeamTotals(t *testing.T) {
	t.Parallel()

	pct := 25.0
	box := &Boxscore{
		Stats: Stats{
			Away: SideStats{TeamStats: []TeamStatGroup{{
				Faceoffs:  Faceoffs{FaceoffWins: 28, FaceoffLosses: 31},
				Powerplay: Powerplay{Powerplays: 4, PowerplayGoals: 1, PowerplayPercent: &pct},
				Miscellaneous: Miscellaneous{
					GoalsFor:       3,
					GoalsAgainst:   2,
					Shots:          31,
					ShotsAgainst:   29,
					PenaltyMinutes: 8,
					BlockedShots:   14,
				},
			}}},
		},
	}

	line := box.TeamTotals("away", "bos")
	if line.Abbr != "BOS" {
		t.Fatalf("abbr = %q", line.Abbr)
	}
	if line.Goals != 3 || line.Shots != 31 {
		t.Fatalf("goals/shots = %d/%d", line.Goals, line.Shots)
	}
	if line.Saves != 27 {
		t.Fatalf("saves = %d, want shots against minus goals against", line.Saves)
	}
	if line.PPGoals != 1 || line.PPOpportunity != 4 {
		t.Fatalf("powerplay = %d/%d", line.PPGoals, line.PPOpportunity)
	}
	if line.PPPercent == nil || *line.PPPercent != 25.0 {
		t.Fatalf("pp percent = %v", line.PPPercent)
	}
	if line.FaceoffWins != 28 || line.FaceoffLosses != 31 {
		t.Fatalf("faceoffs = %d/%d", line.FaceoffWins, line.FaceoffLosses)
	}
	if line.PenaltyMinutes != 8 || line.Blocks != 14 {
		t.Fatalf("pim/blocks = %d/%d", line.PenaltyMinutes, line.Blocks)
	}
}

func TestBoxscore_TeamTotals_SavesNeverNegative(t *testing.T) {
	t.Parallel()

	box := &Boxscore{
		Stats: Stats{
			Home: SideStats{TeamStats: []TeamStatGroup{{
				// Feed mid-correction: more goals against than shots against.
				Miscellaneous: Miscellaneous{GoalsAgainst: 3, ShotsAgainst: 2},
			}}},
		},
	}

	if got := box.TeamTotals("home", "TOR").Saves; got != 0 {
		t.Fatalf("saves = %d, want 0", got)
	}
}

func TestBoxscore_TeamTotals_MissingStats(t *testing.T) {
	t.Parallel()

	box := &Boxscore{}
	line := box.TeamTotals("home", "")
	if line.Abbr != "HOME" {
		t.Fatalf("abbr fallback = %q", line.Abbr)
	}
	if line.Goals != 0 || line.Saves != 0 {
		t.Fatalf("expected zeroed line, got %+v", line)
	}
}

func TestBoxscore_StatusInput(t *testing.T) {
	t.Parallel()

	period := 2
	remaining := 605
	box := &Boxscore{
		Game: Game{PlayedStatus: "LIVE"},
		Scoring: Scoring{
			CurrentPeriod:                 &period,
			CurrentPeriodSecondsRemaining: &remaining,
		},
	}

	in := box.StatusInput()
	if in.PlayedStatus != "LIVE" {
		t.Fatalf("playedStatus = %q", in.PlayedStatus)
	}
	if in.CurrentPeriod == nil || *in.CurrentPeriod != 2 {
		t.Fatalf("currentPeriod = %v", in.CurrentPeriod)
	}
	if in.SecondsRemaining == nil || *in.SecondsRemaining != 605 {
		t.Fatalf("secondsRemaining = %v", in.SecondsRemaining)
	}
	if in.CurrentIntermission != nil {
		t.Fatalf("currentIntermission = %v, want nil", in.CurrentIntermission)
	}
}
