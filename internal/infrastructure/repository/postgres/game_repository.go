package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/sjms/livescores/internal/domain/game"
	qb "github.com/sjms/livescores/internal/platform/querybuilder"
)

// msf_games stores DATE/TIME columns; the domain wants plain strings.
const (
	msfGameColumns  = "msf_game_id, season, to_char(game_date, 'YYYY-MM-DD') AS game_date, away_team_abbr, home_team_abbr"
	ncaaGameColumns = "game_id, to_char(game_date, 'YYYY-MM-DD') AS game_date, to_char(start_time, 'HH24:MI:SS') AS start_time, start_time_local_str, away_team_short, away_team_full, home_team_short, home_team_full"
)

// GameRepository resolves schedule metadata from the msf_games and
// ncaa_games tables.
type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) NHLGames(ctx context.Context, ids []int64) (map[int64]game.NHLMeta, error) {
	out := make(map[int64]game.NHLMeta, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select(msfGameColumns).From("msf_games").
		Where(qb.In("msf_game_id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select msf games query: %w", err)
	}

	var rows []msfGameRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select msf games: %w", err)
	}

	for _, row := range rows {
		out[row.GameID] = nhlMetaFromRow(row)
	}
	return out, nil
}

func (r *GameRepository) NHLGame(ctx context.Context, id int64) (game.NHLMeta, error) {
	query, args, err := qb.Select(msfGameColumns).From("msf_games").
		Where(qb.Eq("msf_game_id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.NHLMeta{}, fmt.Errorf("build select msf game query: %w", err)
	}

	var row msfGameRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.NHLMeta{}, game.ErrNotFound
		}
		return game.NHLMeta{}, fmt.Errorf("select msf game %d: %w", id, err)
	}
	return nhlMetaFromRow(row), nil
}

func (r *GameRepository) NCAAGames(ctx context.Context, ids []string) (map[string]game.NCAAMeta, error) {
	out := make(map[string]game.NCAAMeta, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, parsed)
	}
	if len(values) == 0 {
		return out, nil
	}

	query, args, err := qb.Select(ncaaGameColumns).From("ncaa_games").
		Where(qb.In("game_id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ncaa games query: %w", err)
	}

	var rows []ncaaGameRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ncaa games: %w", err)
	}

	for _, row := range rows {
		meta := ncaaMetaFromRow(row)
		out[meta.GameID] = meta
	}
	return out, nil
}

func (r *GameRepository) NCAAGame(ctx context.Context, id string) (game.NCAAMeta, error) {
	parsed, parseErr := strconv.ParseInt(id, 10, 64)
	if parseErr != nil {
		return game.NCAAMeta{}, game.ErrNotFound
	}

	query, args, err := qb.Select(ncaaGameColumns).From("ncaa_games").
		Where(qb.Eq("game_id", parsed)).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.NCAAMeta{}, fmt.Errorf("build select ncaa game query: %w", err)
	}

	var row ncaaGameRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.NCAAMeta{}, game.ErrNotFound
		}
		return game.NCAAMeta{}, fmt.Errorf("select ncaa game %s: %w", id, err)
	}
	return ncaaMetaFromRow(row), nil
}

// UpsertNCAAGames writes schedule rows keyed on game_id, the schedule
// import's one write path. Rows with a non-numeric id are skipped.
func (r *GameRepository) UpsertNCAAGames(ctx context.Context, metas []game.NCAAMeta) (int, error) {
	upserted := 0
	for _, meta := range metas {
		gameID, err := strconv.ParseInt(meta.GameID, 10, 64)
		if err != nil {
			continue
		}

		query, args, buildErr := qb.InsertInto("ncaa_games").
			Columns(
				"game_id", "sport", "division",
				"game_date", "start_time_local_str",
				"away_team_short", "away_team_full",
				"home_team_short", "home_team_full",
			).
			Values(
				gameID, "icehockey-men", "d1",
				meta.Date, meta.StartTimeLocal,
				meta.AwayName, meta.AwayName,
				meta.HomeName, meta.HomeName,
			).
			Suffix(`ON CONFLICT (game_id) DO UPDATE SET
				game_date = EXCLUDED.game_date,
				start_time_local_str = EXCLUDED.start_time_local_str,
				away_team_short = EXCLUDED.away_team_short,
				away_team_full = EXCLUDED.away_team_full,
				home_team_short = EXCLUDED.home_team_short,
				home_team_full = EXCLUDED.home_team_full,
				updated_at = now()`).
			ToSQL()
		if buildErr != nil {
			return upserted, fmt.Errorf("build upsert ncaa game query: %w", buildErr)
		}

		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return upserted, fmt.Errorf("upsert ncaa game %s: %w", meta.GameID, err)
		}
		upserted++
	}
	return upserted, nil
}

func nhlMetaFromRow(row msfGameRow) game.NHLMeta {
	return game.NHLMeta{
		GameID:   row.GameID,
		Season:   row.Season,
		Date:     row.GameDate,
		AwayAbbr: row.AwayAbbr,
		HomeAbbr: row.HomeAbbr,
	}
}

func ncaaMetaFromRow(row ncaaGameRow) game.NCAAMeta {
	return game.NCAAMeta{
		GameID:         strconv.FormatInt(row.GameID, 10),
		Date:           row.GameDate,
		StartTimeLocal: row.StartTimeLocal.String,
		StartTime:      row.StartTime.String,
		AwayName:       row.AwayTeamShort,
		HomeName:       row.HomeTeamShort,
	}
}
