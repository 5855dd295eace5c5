package msf

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sjms/livescores/internal/domain/game"
)

// The provider does not expose structured scorer data on the live feed,
// only narrative play descriptions. These patterns mirror the fixed
// phrasing of its goal plays:
//
//	"Goal scored by John Smith (5), assisted by A. Jones and B. Brown."
var (
	scorerRegex  = regexp.MustCompile(`(?i)Goal scored by\s+([^,(]+?)(?:\s*\(|,|\.|$)`)
	assistsRegex = regexp.MustCompile(`(?i)assisted by\s+(.+?)\.`)
)

// LiveScorers tallies goals and assists per skater from the scoring
// plays, split by team. Plays whose team does not match either
// abbreviation are ignored.
func (b *Boxscore) LiveScorers(awayAbbr, homeAbbr string) (away, home []game.ScorerLine) {
	awayAbbr = strings.ToUpper(strings.TrimSpace(awayAbbr))
	homeAbbr = strings.ToUpper(strings.TrimSpace(homeAbbr))

	awayTally := make(map[string]*game.ScorerLine)
	homeTally := make(map[string]*game.ScorerLine)

	for _, period := range b.Scoring.Periods {
		for _, play := range period.ScoringPlays {
			desc := play.PlayDescription
			if !strings.Contains(strings.ToLower(desc), "goal scored by") {
				continue
			}

			var teamAbbr string
			if play.Team != nil {
				teamAbbr = strings.ToUpper(play.Team.Abbreviation)
			}

			var tally map[string]*game.ScorerLine
			switch teamAbbr {
			case awayAbbr:
				tally = awayTally
			case homeAbbr:
				tally = homeTally
			default:
				continue
			}

			scorer, assists := parseGoalPlay(desc)
			if scorer != "" {
				addTally(tally, scorer, 1, 0)
			}
			for _, assist := range assists {
				addTally(tally, assist, 0, 1)
			}
		}
	}

	return tallyToSortedList(awayTally), tallyToSortedList(homeTally)
}

func parseGoalPlay(desc string) (scorer string, assists []string) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return "", nil
	}

	if m := scorerRegex.FindStringSubmatch(desc); m != nil {
		scorer = cleanName(m[1])
	}

	if m := assistsRegex.FindStringSubmatch(desc); m != nil {
		list := strings.ReplaceAll(strings.TrimSpace(m[1]), " and ", ", ")
		for _, part := range strings.Split(list, ",") {
			if name := cleanName(part); name != "" {
				assists = append(assists, name)
			}
		}
	}

	return scorer, assists
}

func cleanName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

func addTally(tally map[string]*game.ScorerLine, name string, goals, assists int) {
	line, ok := tally[name]
	if !ok {
		line = &game.ScorerLine{Name: name}
		tally[name] = line
	}
	line.Goals += goals
	line.Assists += assists
}

func tallyToSortedList(tally map[string]*game.ScorerLine) []game.ScorerLine {
	out := make([]game.ScorerLine, 0, len(tally))
	for _, line := range tally {
		if line.Goals <= 0 && line.Assists <= 0 {
			continue
		}
		line.Points = line.Goals + line.Assists
		out = append(out, *line)
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
