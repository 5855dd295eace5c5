package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sjms/livescores/internal/domain/game"
	qb "github.com/sjms/livescores/internal/platform/querybuilder"
)

// BoxscoreRepository loads persisted final boxscores from the gamelog
// tables, used once the live provider is past its authority window.
type BoxscoreRepository struct {
	db *sqlx.DB
}

func NewBoxscoreRepository(db *sqlx.DB) *BoxscoreRepository {
	return &BoxscoreRepository{db: db}
}

func (r *BoxscoreRepository) NHLBoxscore(ctx context.Context, gameID int64) (game.HistoricalBoxscore, error) {
	var box game.HistoricalBoxscore

	meta, err := r.nhlGameRow(ctx, gameID)
	if err != nil {
		return box, err
	}

	query, args, err := qb.Select("*").From("msf_team_gamelogs").
		Where(qb.Eq("msf_game_id", gameID)).
		ToSQL()
	if err != nil {
		return box, fmt.Errorf("build select nhl team gamelogs query: %w", err)
	}

	var rows []msfTeamGamelogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return box, fmt.Errorf("select nhl team gamelogs %d: %w", gameID, err)
	}
	if len(rows) == 0 {
		return box, game.ErrNotFound
	}

	for _, row := range rows {
		line := nhlTeamLineFromRow(row)
		switch strings.ToUpper(row.TeamAbbr) {
		case strings.ToUpper(meta.AwayAbbr):
			box.Away = line
		case strings.ToUpper(meta.HomeAbbr):
			box.Home = line
		}
	}

	box.AwayScorers, err = r.nhlScorers(ctx, gameID, meta.AwayAbbr)
	if err != nil {
		return box, err
	}
	box.HomeScorers, err = r.nhlScorers(ctx, gameID, meta.HomeAbbr)
	if err != nil {
		return box, err
	}

	return box, nil
}

func (r *BoxscoreRepository) NCAABoxscore(ctx context.Context, gameID string) (game.HistoricalBoxscore, error) {
	var box game.HistoricalBoxscore

	contestID, parseErr := strconv.ParseInt(gameID, 10, 64)
	if parseErr != nil {
		return box, game.ErrNotFound
	}

	query, args, err := qb.Select("*").From("ncaa_team_gamelogs").
		Where(qb.Eq("contest_id", contestID)).
		ToSQL()
	if err != nil {
		return box, fmt.Errorf("build select ncaa team gamelogs query: %w", err)
	}

	var rows []ncaaTeamGamelogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return box, fmt.Errorf("select ncaa team gamelogs %s: %w", gameID, err)
	}
	if len(rows) == 0 {
		return box, game.ErrNotFound
	}

	for _, row := range rows {
		line := ncaaTeamLineFromRow(row)
		switch row.TeamSide {
		case "away":
			box.Away = line
		case "home":
			box.Home = line
		}
	}

	box.AwayScorers, err = r.ncaaScorers(ctx, contestID, "away")
	if err != nil {
		return box, err
	}
	box.HomeScorers, err = r.ncaaScorers(ctx, contestID, "home")
	if err != nil {
		return box, err
	}

	return box, nil
}

func (r *BoxscoreRepository) nhlGameRow(ctx context.Context, gameID int64) (msfGameRow, error) {
	query, args, err := qb.Select(msfGameColumns).From("msf_games").
		Where(qb.Eq("msf_game_id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return msfGameRow{}, fmt.Errorf("build select msf game query: %w", err)
	}

	var row msfGameRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return msfGameRow{}, game.ErrNotFound
		}
		return msfGameRow{}, fmt.Errorf("select msf game %d: %w", gameID, err)
	}
	return row, nil
}

// nhlScorers lists skaters with a point, highest goal and assist
// totals first, the same ordering the thread fragment always used.
func (r *BoxscoreRepository) nhlScorers(ctx context.Context, gameID int64, teamAbbr string) ([]game.ScorerLine, error) {
	teamAbbr = strings.ToUpper(strings.TrimSpace(teamAbbr))
	if teamAbbr == "" {
		return nil, nil
	}

	query, args, err := qb.Select("first_name", "last_name", "goals", "assists").
		From("msf_player_gamelogs").
		Where(
			qb.Eq("msf_game_id", gameID),
			qb.Expr("UPPER(team_abbr) = ?", teamAbbr),
			qb.Expr("(goals > 0 OR assists > 0)"),
		).
		OrderBy("goals DESC", "assists DESC", "last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select nhl scorers query: %w", err)
	}

	var rows []msfPlayerGamelogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select nhl scorers %d/%s: %w", gameID, teamAbbr, err)
	}

	out := make([]game.ScorerLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, scorerLine(row.FirstName, row.LastName, row.Goals, row.Assists))
	}
	return out, nil
}

func (r *BoxscoreRepository) ncaaScorers(ctx context.Context, contestID int64, side string) ([]game.ScorerLine, error) {
	query, args, err := qb.Select("player_first_name", "player_last_name", "goals", "assists").
		From("ncaa_player_gamelogs").
		Where(
			qb.Eq("contest_id", contestID),
			qb.Eq("team_side", side),
			qb.Expr("(goals > 0 OR assists > 0)"),
		).
		OrderBy("goals DESC", "assists DESC", "player_last_name", "player_first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ncaa scorers query: %w", err)
	}

	var rows []ncaaPlayerGamelogRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ncaa scorers %d/%s: %w", contestID, side, err)
	}

	out := make([]game.ScorerLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, scorerLine(row.FirstName, row.LastName, row.Goals, row.Assists))
	}
	return out, nil
}

func nhlTeamLineFromRow(row msfTeamGamelogRow) game.TeamLine {
	saves := row.ShotsAgainst - row.GoalsAgainst
	if saves < 0 {
		saves = 0
	}
	line := game.TeamLine{
		Abbr:           row.TeamAbbr,
		Goals:          row.GoalsFor,
		Shots:          row.Shots,
		PPGoals:        row.PowerplayGoals,
		PPOpportunity:  row.Powerplays,
		PenaltyMinutes: row.PenaltyMinutes,
		FaceoffWins:    row.FaceoffWins,
		FaceoffLosses:  row.FaceoffLosses,
		Blocks:         row.BlockedShots,
		Saves:          saves,
	}
	if row.PowerplayPct.Valid {
		pct := row.PowerplayPct.Float64
		line.PPPercent = &pct
	}
	return line
}

func ncaaTeamLineFromRow(row ncaaTeamGamelogRow) game.TeamLine {
	line := game.TeamLine{
		Abbr:           row.TeamNameShort,
		Goals:          row.Goals,
		Shots:          row.Shots,
		PPGoals:        row.PPGoals,
		PPOpportunity:  row.PPOpportunities,
		PenaltyMinutes: row.PIMMinutes,
		FaceoffWins:    row.FaceoffWon,
		FaceoffLosses:  row.FaceoffLost,
		Blocks:         row.Blocks,
		Saves:          row.Saves,
	}
	if row.PPPercentage.Valid {
		pct := row.PPPercentage.Float64
		line.PPPercent = &pct
	}
	return line
}

func scorerLine(first, last string, goals, assists int) game.ScorerLine {
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		name = "Unknown"
	}
	return game.ScorerLine{
		Name:    name,
		Goals:   goals,
		Assists: assists,
		Points:  goals + assists,
	}
}
