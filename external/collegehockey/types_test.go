package collegehockey

import (
	"testing"
	"time"
)

func intp(v int) *int { return &v }

func TestBoxscore_Scores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		box      *Boxscore
		wantAway *int
		wantHome *int
	}{
		{
			name: "both sides present",
			box: &Boxscore{
				Teams: []TeamMeta{
					{TeamID: 101, IsHome: false},
					{TeamID: 202, IsHome: true},
				},
				TeamBoxscore: []TeamBoxscore{
					{TeamID: 101, TeamStats: TeamStats{Goals: intp(2)}},
					{TeamID: 202, TeamStats: TeamStats{Goals: intp(5)}},
				},
			},
			wantAway: intp(2),
			wantHome: intp(5),
		},
		{
			name: "missing boxscore row leaves side unknown",
			box: &Boxscore{
				Teams: []TeamMeta{
					{TeamID: 101, IsHome: false},
					{TeamID: 202, IsHome: true},
				},
				TeamBoxscore: []TeamBoxscore{
					{TeamID: 202, TeamStats: TeamStats{Goals: intp(0)}},
				},
			},
			wantAway: nil,
			wantHome: intp(0),
		},
		{
			name: "team absent from teams array is ignored",
			box: &Boxscore{
				Teams: []TeamMeta{{TeamID: 202, IsHome: true}},
				TeamBoxscore: []TeamBoxscore{
					{TeamID: 999, TeamStats: TeamStats{Goals: intp(4)}},
					{TeamID: 202, TeamStats: TeamStats{Goals: intp(1)}},
				},
			},
			wantAway: nil,
			wantHome: intp(1),
		},
		{
			name: "nil goals never become zero",
			box: &Boxscore{
				Teams: []TeamMeta{
					{TeamID: 101, IsHome: false},
					{TeamID: 202, IsHome: true},
				},
				TeamBoxscore: []TeamBoxscore{
					{TeamID: 101, TeamStats: TeamStats{}},
					{TeamID: 202, TeamStats: TeamStats{}},
				},
			},
		},
		{
			name: "empty payload",
			box:  &Boxscore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			away, home := tt.box.Scores()
			checkScore(t, "away", away, tt.wantAway)
			checkScore(t, "home", home, tt.wantHome)
		})
	}
}

func checkScore(t *testing.T, side string, got, want *int) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Fatalf("%s = %d, want nil", side, *got)
	case want != nil && got == nil:
		t.Fatalf("%s = nil, want %d", side, *want)
	case want != nil && *got != *want:
		t.Fatalf("%s = %d, want %d", side, *got, *want)
	}
}

func TestBoxscore_DetailSides(t *testing.T) {
	t.Parallel()

	zero := 0.0
	box := &Boxscore{
		Teams: []TeamMeta{
			{TeamID: 101, IsHome: false, NameShort: "Michigan"},
			{TeamID: 202, IsHome: true, NameShort: "Boston Univ."},
		},
		TeamBoxscore: []TeamBoxscore{
			{
				TeamID: 101,
				TeamStats: TeamStats{
					Goals: intp(2), Shots: 24,
					PowerPlayGoals: 1, PowerPlayOpportunities: 4, PowerPlayPercentage: &zero,
					Minutes: 10, Blocks: 9, FaceoffsWon: 22, FaceoffsLost: 30,
				},
				PlayerStats: []PlayerStat{
					{FirstName: "GAVIN", LastName: "BRINDLEY", Position: "F", Goals: 1, Assists: 1},
					{FirstName: "JAKE", LastName: "BARCZEWSKI", Position: "G", Saves: 31},
					{FirstName: "SEAMUS", LastName: "CASEY", Position: "D", Assists: 1},
				},
			},
			{
				TeamID:    202,
				TeamStats: TeamStats{Goals: intp(4), Shots: 35},
				PlayerStats: []PlayerStat{
					{FirstName: "MACKLIN", LastName: "CELEBRINI", Position: "F", Goals: 2},
				},
			},
		},
	}

	away, home, ok := box.DetailSides()
	if !ok {
		t.Fatal("DetailSides reported not ok")
	}

	if away.Line.Abbr != "Michigan" || home.Line.Abbr != "Boston Univ." {
		t.Fatalf("abbrs = %q / %q", away.Line.Abbr, home.Line.Abbr)
	}
	if away.Line.Goals != 2 || away.Line.Shots != 24 {
		t.Fatalf("away line = %+v", away.Line)
	}
	if away.Line.Saves != 31 {
		t.Fatalf("away saves = %d, want goalie saves only", away.Line.Saves)
	}
	// Feed reported 0% despite 1-for-4; the percentage is recomputed.
	if away.Line.PPPercent == nil || *away.Line.PPPercent != 25.0 {
		t.Fatalf("away pp pct = %v", away.Line.PPPercent)
	}

	if len(away.Scorers) != 2 {
		t.Fatalf("away scorers = %+v", away.Scorers)
	}
	if away.Scorers[0].Name != "Gavin Brindley" || away.Scorers[0].Points != 2 {
		t.Fatalf("top away scorer = %+v", away.Scorers[0])
	}
	if away.Scorers[1].Name != "Seamus Casey" {
		t.Fatalf("second away scorer = %+v", away.Scorers[1])
	}

	if len(home.Scorers) != 1 || home.Scorers[0].Name != "Macklin Celebrini" || home.Scorers[0].Goals != 2 {
		t.Fatalf("home scorers = %+v", home.Scorers)
	}
}

func TestBoxscore_DetailSides_Incomplete(t *testing.T) {
	t.Parallel()

	box := &Boxscore{
		Teams:        []TeamMeta{{TeamID: 202, IsHome: true}},
		TeamBoxscore: []TeamBoxscore{{TeamID: 202}},
	}
	if _, _, ok := box.DetailSides(); ok {
		t.Fatal("expected not ok with a single team")
	}
}

func TestScoreboardGame_Meta(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-01-16 00:00:00 UTC == 2026-01-15 19:00:00 ET.
	row := ScoreboardGame{
		GameID:         "6498537",
		StartDate:      "01-15-2026",
		StartTime:      "07:00PM ET",
		StartTimeEpoch: "1768521600",
		Home:           ScoreboardTeam{Names: TeamNames{Short: "Boston Univ."}},
		Away:           ScoreboardTeam{Names: TeamNames{Short: "Michigan"}},
	}

	meta := row.Meta("2026-01-14", loc)
	if meta.GameID != "6498537" {
		t.Fatalf("game id = %q", meta.GameID)
	}
	if meta.Date != "2026-01-15" {
		t.Fatalf("date = %q, want parsed start date", meta.Date)
	}
	if meta.StartTimeLocal != "07:00PM ET" {
		t.Fatalf("start time local = %q", meta.StartTimeLocal)
	}
	if meta.StartTime != "19:00:00" {
		t.Fatalf("start time = %q, want epoch rendered in ET", meta.StartTime)
	}
	if meta.AwayName != "Michigan" || meta.HomeName != "Boston Univ." {
		t.Fatalf("names = %q / %q", meta.AwayName, meta.HomeName)
	}
}

func TestScoreboardGame_Meta_Fallbacks(t *testing.T) {
	t.Parallel()

	meta := ScoreboardGame{GameID: "1"}.Meta("2026-01-14", time.UTC)
	if meta.Date != "2026-01-14" {
		t.Fatalf("date = %q, want fallback", meta.Date)
	}
	if meta.StartTime != "" {
		t.Fatalf("start time = %q, want empty without epoch", meta.StartTime)
	}
	if meta.AwayName != "Away" || meta.HomeName != "Home" {
		t.Fatalf("names = %q / %q", meta.AwayName, meta.HomeName)
	}
}
