package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sjms/livescores/internal/domain/game"
)

// GameRepository is an in-memory metadata store for tests and local
// development without Postgres.
type GameRepository struct {
	mu   sync.RWMutex
	nhl  map[int64]game.NHLMeta
	ncaa map[string]game.NCAAMeta
}

func NewGameRepository(nhl []game.NHLMeta, ncaa []game.NCAAMeta) *GameRepository {
	nhlByID := make(map[int64]game.NHLMeta, len(nhl))
	for _, meta := range nhl {
		nhlByID[meta.GameID] = meta
	}
	ncaaByID := make(map[string]game.NCAAMeta, len(ncaa))
	for _, meta := range ncaa {
		ncaaByID[meta.GameID] = meta
	}

	return &GameRepository{nhl: nhlByID, ncaa: ncaaByID}
}

func (r *GameRepository) NHLGames(_ context.Context, ids []int64) (map[int64]game.NHLMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]game.NHLMeta, len(ids))
	for _, id := range ids {
		if meta, ok := r.nhl[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}

func (r *GameRepository) NHLGame(_ context.Context, id int64) (game.NHLMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.nhl[id]
	if !ok {
		return game.NHLMeta{}, game.ErrNotFound
	}
	return meta, nil
}

func (r *GameRepository) NCAAGames(_ context.Context, ids []string) (map[string]game.NCAAMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]game.NCAAMeta, len(ids))
	for _, id := range ids {
		if meta, ok := r.ncaa[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}

func (r *GameRepository) NCAAGame(_ context.Context, id string) (game.NCAAMeta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.ncaa[id]
	if !ok {
		return game.NCAAMeta{}, game.ErrNotFound
	}
	return meta, nil
}

func (r *GameRepository) UpsertNCAAGames(_ context.Context, metas []game.NCAAMeta) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	upserted := 0
	for _, meta := range metas {
		gameID := strings.TrimSpace(meta.GameID)
		if gameID == "" {
			continue
		}
		meta.GameID = gameID
		r.ncaa[gameID] = meta
		upserted++
	}
	return upserted, nil
}
