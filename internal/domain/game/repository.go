package game

import "context"

// MetadataRepository resolves stored schedule rows for game ids. Lookups for
// unknown ids simply omit the id from the result map; single-row lookups
// return ErrNotFound.
type MetadataRepository interface {
	NHLGames(ctx context.Context, ids []int64) (map[int64]NHLMeta, error)
	NHLGame(ctx context.Context, id int64) (NHLMeta, error)
	NCAAGames(ctx context.Context, ids []string) (map[string]NCAAMeta, error)
	NCAAGame(ctx context.Context, id string) (NCAAMeta, error)
	UpsertNCAAGames(ctx context.Context, metas []NCAAMeta) (int, error)
}

// HistoricalRepository loads persisted final boxscores for games past the
// live provider's authority window.
type HistoricalRepository interface {
	NHLBoxscore(ctx context.Context, gameID int64) (HistoricalBoxscore, error)
	NCAABoxscore(ctx context.Context, gameID string) (HistoricalBoxscore, error)
}
