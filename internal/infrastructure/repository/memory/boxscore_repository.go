package memory

import (
	"context"
	"sync"

	"github.com/sjms/livescores/internal/domain/game"
)

// BoxscoreRepository is an in-memory historical boxscore store for
// tests and local development.
type BoxscoreRepository struct {
	mu   sync.RWMutex
	nhl  map[int64]game.HistoricalBoxscore
	ncaa map[string]game.HistoricalBoxscore
}

func NewBoxscoreRepository() *BoxscoreRepository {
	return &BoxscoreRepository{
		nhl:  map[int64]game.HistoricalBoxscore{},
		ncaa: map[string]game.HistoricalBoxscore{},
	}
}

func (r *BoxscoreRepository) NHLBoxscore(_ context.Context, gameID int64) (game.HistoricalBoxscore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	box, ok := r.nhl[gameID]
	if !ok {
		return game.HistoricalBoxscore{}, game.ErrNotFound
	}
	return box, nil
}

func (r *BoxscoreRepository) NCAABoxscore(_ context.Context, gameID string) (game.HistoricalBoxscore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	box, ok := r.ncaa[gameID]
	if !ok {
		return game.HistoricalBoxscore{}, game.ErrNotFound
	}
	return box, nil
}

// SeedNHL stores a final boxscore for an NHL game.
func (r *BoxscoreRepository) SeedNHL(gameID int64, box game.HistoricalBoxscore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nhl[gameID] = box
}

// SeedNCAA stores a final boxscore for an NCAA contest.
func (r *BoxscoreRepository) SeedNCAA(gameID string, box game.HistoricalBoxscore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ncaa[gameID] = box
}
