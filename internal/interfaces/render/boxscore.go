// Package render produces the HTML fragments embedded in forum game
// threads. The markup contract (section/table classes) is owned by the
// forum theme; changes here must stay in sync with its stylesheet.
package render

import (
	"fmt"
	"html/template"

	"github.com/valyala/bytebufferpool"

	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/usecase"
)

const boxscoreFragment = `<section class="thread-boxscore {{leagueClass .League}}">
  <header class="thread-boxscore__header">
    <h2>Box Score</h2>
    <div class="thread-boxscore__scoreline">
      <span class="team team--away">{{.Away.Abbr}} {{.Away.Goals}}</span>
      <span class="status">{{.Label}}</span>
      <span class="team team--home">{{.Home.Abbr}} {{.Home.Goals}}</span>
    </div>
    <p class="thread-boxscore__date">{{.Date}}</p>
  </header>

  <div class="thread-boxscore__grid">
    <div class="thread-boxscore__col thread-boxscore__col--table">
      <table class="boxscore-table">
        <thead>
          <tr><th>Stat</th><th>{{.Away.Abbr}}</th><th>{{.Home.Abbr}}</th></tr>
        </thead>
        <tbody>
          <tr><th>Goals</th><td>{{.Away.Goals}}</td><td>{{.Home.Goals}}</td></tr>
          <tr><th>Shots</th><td>{{.Away.Shots}}</td><td>{{.Home.Shots}}</td></tr>
          <tr><th>Power Play</th><td>{{powerPlay .Away}}</td><td>{{powerPlay .Home}}</td></tr>
          <tr><th>PIM</th><td>{{.Away.PenaltyMinutes}}</td><td>{{.Home.PenaltyMinutes}}</td></tr>
          <tr><th>Faceoffs</th><td>{{.Away.FaceoffWins}} / {{.Away.FaceoffLosses}}</td><td>{{.Home.FaceoffWins}} / {{.Home.FaceoffLosses}}</td></tr>
          <tr><th>Blocks</th><td>{{.Away.Blocks}}</td><td>{{.Home.Blocks}}</td></tr>
          <tr><th>Saves</th><td>{{.Away.Saves}}</td><td>{{.Home.Saves}}</td></tr>
        </tbody>
      </table>
    </div>

    <div class="thread-boxscore__col thread-boxscore__col--scorers">
      <div class="thread-scorers">
        {{scorerTable .Away.Abbr .AwayScorers}}
        {{scorerTable .Home.Abbr .HomeScorers}}
      </div>
    </div>
  </div>
</section>
`

const scorerTableFragment = `<div class="thread-scorers__team">
  <table class="boxscore-table boxscore-table--scorers">
    <thead>
      <tr><th colspan="4">{{.Abbr}} Scorers</th></tr>
      <tr><th></th><th>G</th><th>A</th><th>PTS</th></tr>
    </thead>
    <tbody>
      {{- if .Scorers}}
      {{- range .Scorers}}
      <tr><td>{{.Name}}</td><td>{{.Goals}}</td><td>{{.Assists}}</td><td>{{.Points}}</td></tr>
      {{- end}}
      {{- else}}
      <tr><td colspan="4">No scorers.</td></tr>
      {{- end}}
    </tbody>
  </table>
</div>`

// BoxscoreRenderer renders usecase views into thread fragments. Safe
// for concurrent use; templates are parsed once at construction.
type BoxscoreRenderer struct {
	tmpl *template.Template
}

func NewBoxscoreRenderer() *BoxscoreRenderer {
	scorers := template.Must(template.New("scorers").Parse(scorerTableFragment))

	funcs := template.FuncMap{
		"leagueClass": leagueClass,
		"powerPlay":   powerPlayCell,
		"scorerTable": func(abbr string, lines []game.ScorerLine) (template.HTML, error) {
			buf := bytebufferpool.Get()
			defer bytebufferpool.Put(buf)
			data := struct {
				Abbr    string
				Scorers []game.ScorerLine
			}{Abbr: abbr, Scorers: lines}
			if err := scorers.Execute(buf, data); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}

	return &BoxscoreRenderer{
		tmpl: template.Must(template.New("boxscore").Funcs(funcs).Parse(boxscoreFragment)),
	}
}

func (r *BoxscoreRenderer) Render(view usecase.BoxscoreView) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.tmpl.Execute(buf, view); err != nil {
		return "", fmt.Errorf("render boxscore: %w", err)
	}
	return buf.String(), nil
}

func leagueClass(league game.League) string {
	if league == game.LeagueNCAA {
		return "thread-boxscore--ncaa"
	}
	return "thread-boxscore--nhl"
}

// powerPlayCell formats "goals/opportunities" with the percentage
// appended only when the source reported one.
func powerPlayCell(line game.TeamLine) string {
	if line.PPPercent != nil {
		return fmt.Sprintf("%d/%d (%.1f%%)", line.PPGoals, line.PPOpportunity, *line.PPPercent)
	}
	return fmt.Sprintf("%d/%d", line.PPGoals, line.PPOpportunity)
}
