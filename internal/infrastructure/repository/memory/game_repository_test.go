package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/sjms/livescores/internal/domain/game"
)

func TestGameRepository_LookupAndMisses(t *testing.T) {
	t.Parallel()

	repo := NewGameRepository(
		[]game.NHLMeta{{GameID: 100, Season: "2025-2026-regular", Date: "2026-01-15", AwayAbbr: "BOS", HomeAbbr: "SJS"}},
		[]game.NCAAMeta{{GameID: "6308569", Date: "2026-01-15", StartTimeLocal: "07:00PM ET"}},
	)

	ctx := context.Background()

	got, err := repo.NHLGames(ctx, []int64{100, 999})
	if err != nil {
		t.Fatalf("nhl games: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 nhl game, got %d", len(got))
	}
	if got[100].AwayAbbr != "BOS" {
		t.Fatalf("unexpected away abbr: %q", got[100].AwayAbbr)
	}

	if _, err := repo.NHLGame(ctx, 999); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown nhl game, got %v", err)
	}

	meta, err := repo.NCAAGame(ctx, "6308569")
	if err != nil {
		t.Fatalf("ncaa game: %v", err)
	}
	if meta.StartTimeLocal != "07:00PM ET" {
		t.Fatalf("unexpected start time: %q", meta.StartTimeLocal)
	}
}

func TestGameRepository_UpsertNCAAGames(t *testing.T) {
	t.Parallel()

	repo := NewGameRepository(nil, []game.NCAAMeta{{GameID: "1", Date: "2026-01-14"}})

	count, err := repo.UpsertNCAAGames(context.Background(), []game.NCAAMeta{
		{GameID: "1", Date: "2026-01-15"},
		{GameID: " 2 ", Date: "2026-01-15"},
		{GameID: "", Date: "2026-01-15"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 upserted, got %d", count)
	}

	meta, err := repo.NCAAGame(context.Background(), "1")
	if err != nil {
		t.Fatalf("ncaa game: %v", err)
	}
	if meta.Date != "2026-01-15" {
		t.Fatalf("expected date overwritten, got %q", meta.Date)
	}
	if _, err := repo.NCAAGame(context.Background(), "2"); err != nil {
		t.Fatalf("expected trimmed id stored, got %v", err)
	}
}

func TestBoxscoreRepository_SeedAndLookup(t *testing.T) {
	t.Parallel()

	repo := NewBoxscoreRepository()
	ctx := context.Background()

	if _, err := repo.NHLBoxscore(ctx, 100); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before seeding, got %v", err)
	}

	repo.SeedNHL(100, game.HistoricalBoxscore{
		Away: game.TeamLine{Abbr: "BOS", Goals: 3},
		Home: game.TeamLine{Abbr: "SJS", Goals: 2},
	})
	repo.SeedNCAA("6308569", game.HistoricalBoxscore{
		Away: game.TeamLine{Abbr: "Denver", Goals: 4},
	})

	box, err := repo.NHLBoxscore(ctx, 100)
	if err != nil {
		t.Fatalf("nhl boxscore: %v", err)
	}
	if box.Away.Goals != 3 || box.Home.Abbr != "SJS" {
		t.Fatalf("unexpected boxscore: %+v", box)
	}

	ncaaBox, err := repo.NCAABoxscore(ctx, "6308569")
	if err != nil {
		t.Fatalf("ncaa boxscore: %v", err)
	}
	if ncaaBox.Away.Goals != 4 {
		t.Fatalf("unexpected ncaa goals: %d", ncaaBox.Away.Goals)
	}
}
