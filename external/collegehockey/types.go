package collegehockey

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sjms/livescores/internal/domain/game"
)

// Boxscore is the scraping service's per-game payload. The service emits
// single-letter status codes: "F" final, "I" in progress, "P" pregame.
type Boxscore struct {
	Status  string `json:"status"`
	Period  string `json:"period"`
	Minutes *int   `json:"minutes"`
	Seconds *int   `json:"seconds"`

	Teams        []TeamMeta     `json:"teams"`
	TeamBoxscore []TeamBoxscore `json:"teamBoxscore"`
}

type TeamMeta struct {
	TeamID    int64  `json:"teamId"`
	IsHome    bool   `json:"isHome"`
	NameShort string `json:"nameShort"`
	NameFull  string `json:"nameFull"`
}

type TeamBoxscore struct {
	TeamID      int64        `json:"teamId"`
	TeamStats   TeamStats    `json:"teamStats"`
	PlayerStats []PlayerStat `json:"playerStats"`
}

// TeamStats uses the scraping service's own field names; "minutes" is
// penalty minutes, "blk" blocked shots, "facewon"/"facelost" faceoffs.
type TeamStats struct {
	Goals                  *int     `json:"goals"`
	Shots                  int      `json:"shots"`
	PowerPlayGoals         int      `json:"powerPlayGoals"`
	PowerPlayOpportunities int      `json:"powerPlayOpportunities"`
	PowerPlayPercentage    *float64 `json:"powerPlayPercentage"`
	Minutes                int      `json:"minutes"`
	Blocks                 int      `json:"blk"`
	FaceoffsWon            int      `json:"facewon"`
	FaceoffsLost           int      `json:"facelost"`
}

type PlayerStat struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
	Goals     int    `json:"goals"`
	Assists   int    `json:"assists"`
	Saves     int    `json:"saves"`
}

// Scores resolves per-side goal totals by joining teamBoxscore rows onto
// the home/away flags in teams. A side missing from either array stays
// nil; downstream treats nil as "unknown", never 0.
func (b *Boxscore) Scores() (away, home *int) {
	if b == nil {
		return nil, nil
	}

	homeByID := make(map[int64]bool, len(b.Teams))
	for _, team := range b.Teams {
		if team.TeamID == 0 {
			continue
		}
		homeByID[team.TeamID] = team.IsHome
	}

	for _, box := range b.TeamBoxscore {
		if box.TeamID == 0 || box.TeamStats.Goals == nil {
			continue
		}
		isHome, known := homeByID[box.TeamID]
		if !known {
			continue
		}
		goals := *box.TeamStats.Goals
		if isHome {
			home = &goals
		} else {
			away = &goals
		}
	}

	return away, home
}

// DetailSides normalizes both teams into the league-neutral detail
// shape: totals plus per-skater scorer tallies. It reports false when
// either side cannot be identified, which callers treat as "no detail
// view for this game yet".
func (b *Boxscore) DetailSides() (away, home DetailSide, ok bool) {
	if b == nil || len(b.Teams) < 2 || len(b.TeamBoxscore) < 2 {
		return DetailSide{}, DetailSide{}, false
	}

	metaByID := make(map[int64]TeamMeta, len(b.Teams))
	for _, team := range b.Teams {
		if team.TeamID != 0 {
			metaByID[team.TeamID] = team
		}
	}

	var haveAway, haveHome bool
	for _, box := range b.TeamBoxscore {
		if box.TeamID == 0 {
			continue
		}
		meta := metaByID[box.TeamID]
		side := DetailSide{
			Line:    teamLineFromStats(meta, box),
			Scorers: scorersFromPlayers(box.PlayerStats),
		}
		if meta.IsHome {
			home, haveHome = side, true
		} else {
			away, haveAway = side, true
		}
	}

	if !haveAway || !haveHome {
		return DetailSide{}, DetailSide{}, false
	}
	return away, home, true
}

type DetailSide struct {
	Line    game.TeamLine
	Scorers []game.ScorerLine
}

func teamLineFromStats(meta TeamMeta, box TeamBoxscore) game.TeamLine {
	stats := box.TeamStats

	// Goalie saves are not on the team stats node; sum them up.
	saves := 0
	for _, player := range box.PlayerStats {
		if strings.EqualFold(strings.TrimSpace(player.Position), "G") {
			saves += player.Saves
		}
	}

	goals := 0
	if stats.Goals != nil {
		goals = *stats.Goals
	}

	abbr := strings.TrimSpace(meta.NameShort)
	if abbr == "" {
		abbr = strings.TrimSpace(meta.NameFull)
	}

	return game.TeamLine{
		Abbr:           abbr,
		Goals:          goals,
		Shots:          stats.Shots,
		PPGoals:        stats.PowerPlayGoals,
		PPOpportunity:  stats.PowerPlayOpportunities,
		PPPercent:      powerplayPercent(stats.PowerPlayGoals, stats.PowerPlayOpportunities, stats.PowerPlayPercentage),
		PenaltyMinutes: stats.Minutes,
		FaceoffWins:    stats.FaceoffsWon,
		FaceoffLosses:  stats.FaceoffsLost,
		Blocks:         stats.Blocks,
		Saves:          saves,
	}
}

// powerplayPercent trusts the feed's percentage unless it reports 0
// despite recorded powerplay goals, which some feeds emit while a game
// is in progress; in that case (or when absent) it is recomputed.
func powerplayPercent(goals, opportunities int, fromFeed *float64) *float64 {
	if fromFeed != nil {
		if !(*fromFeed == 0 && goals > 0 && opportunities > 0) {
			return fromFeed
		}
	}
	if opportunities <= 0 {
		return nil
	}
	pct := float64(goals) / float64(opportunities) * 100.0
	return &pct
}

func scorersFromPlayers(players []PlayerStat) []game.ScorerLine {
	out := make([]game.ScorerLine, 0, 4)
	for _, player := range players {
		if player.Goals <= 0 && player.Assists <= 0 {
			continue
		}
		out = append(out, game.ScorerLine{
			Name:    strings.TrimSpace(titleCase(player.FirstName) + " " + titleCase(player.LastName)),
			Goals:   player.Goals,
			Assists: player.Assists,
			Points:  player.Goals + player.Assists,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Assists != out[j].Assists {
			return out[i].Assists > out[j].Assists
		}
		return out[i].Name < out[j].Name
	})

	return out
}

// titleCase tames the feed's ALL-CAPS player names.
func titleCase(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	return strings.ToUpper(raw[:1]) + raw[1:]
}

// StatusInput maps the payload onto the shared status machine.
func (b *Boxscore) StatusInput(scheduledLabel string) game.NCAAStatusInput {
	return game.NCAAStatusInput{
		Status:         b.Status,
		Period:         b.Period,
		Minutes:        b.Minutes,
		Seconds:        b.Seconds,
		ScheduledLabel: scheduledLabel,
	}
}

// Scoreboard is the daily schedule payload from the scraping service.
type Scoreboard struct {
	Games []ScoreboardEntry `json:"games"`
}

type ScoreboardEntry struct {
	Game ScoreboardGame `json:"game"`
}

type ScoreboardGame struct {
	GameID         string         `json:"gameID"`
	StartDate      string         `json:"startDate"`      // "11-01-2024"
	StartTime      string         `json:"startTime"`      // "07:00PM ET"
	StartTimeEpoch string         `json:"startTimeEpoch"` // unix seconds, as text
	GameState      string         `json:"gameState"`
	Home           ScoreboardTeam `json:"home"`
	Away           ScoreboardTeam `json:"away"`
}

type ScoreboardTeam struct {
	Names TeamNames `json:"names"`
}

type TeamNames struct {
	Short string `json:"short"`
	Full  string `json:"full"`
}

// Meta converts a scoreboard row into the stored schedule shape.
// fallbackDate (2006-01-02) is used when the row's own date is absent or
// malformed; loc is the league's home timezone for the clock-only
// start time derived from the epoch.
func (g ScoreboardGame) Meta(fallbackDate string, loc *time.Location) game.NCAAMeta {
	date := fallbackDate
	if parsed, err := time.Parse("01-02-2006", strings.TrimSpace(g.StartDate)); err == nil {
		date = parsed.Format("2006-01-02")
	}

	startTime := ""
	if epoch, err := strconv.ParseInt(strings.TrimSpace(g.StartTimeEpoch), 10, 64); err == nil && epoch > 0 {
		startTime = time.Unix(epoch, 0).In(loc).Format("15:04:05")
	}

	awayName := strings.TrimSpace(g.Away.Names.Short)
	if awayName == "" {
		awayName = "Away"
	}
	homeName := strings.TrimSpace(g.Home.Names.Short)
	if homeName == "" {
		homeName = "Home"
	}

	return game.NCAAMeta{
		GameID:         strings.TrimSpace(g.GameID),
		Date:           date,
		StartTimeLocal: strings.TrimSpace(g.StartTime),
		StartTime:      startTime,
		AwayName:       awayName,
		HomeName:       homeName,
	}
}
