package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/platform/logging"
)

type stubScoreSource struct {
	mu        sync.Mutex
	nhlCalls  [][]int64
	ncaaCalls [][]string
	nhl       map[string]Score
	ncaa      map[string]Score
	nhlErr    error
	ncaaErr   error
}

func (s *stubScoreSource) NHLScores(_ context.Context, gameIDs []int64) (map[string]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nhlCalls = append(s.nhlCalls, gameIDs)
	if s.nhlErr != nil {
		return nil, s.nhlErr
	}
	return s.nhl, nil
}

func (s *stubScoreSource) NCAAScores(_ context.Context, gameIDs []string) (map[string]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ncaaCalls = append(s.ncaaCalls, gameIDs)
	if s.ncaaErr != nil {
		return nil, s.ncaaErr
	}
	return s.ncaa, nil
}

func (s *stubScoreSource) calls() (nhl, ncaa int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nhlCalls), len(s.ncaaCalls)
}

func newTestLoop(source ScoreSource, index *TargetIndex) *Loop {
	loop := NewLoop(Config{
		Timezone:      time.UTC,
		BackfillPause: time.Millisecond,
	}, source, index, logging.NewNop())
	loop.now = func() time.Time {
		return time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC)
	}
	return loop
}

func TestLoop_TickPicksLiveInterval(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	index.CardsChanged([]*Card{pendingCard(game.LeagueNHL, "100", "2026-01-15")})

	source := &stubScoreSource{nhl: map[string]Score{
		"100": {Away: scorePtr(1), Home: scorePtr(0), Label: "1st – 8:16", IsLive: true},
	}}
	loop := newTestLoop(source, index)

	if got := loop.tick(context.Background()); got != loop.cfg.LiveInterval {
		t.Fatalf("interval = %v, want live %v", got, loop.cfg.LiveInterval)
	}

	card, _ := index.Snapshot("100")
	if card.Pill != "1st – 8:16" || !card.Live() {
		t.Fatalf("card not reconciled: pill=%q live=%v", card.Pill, card.Live())
	}
}

func TestLoop_TickPicksIdleIntervalWhenNothingLive(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	index.CardsChanged([]*Card{pendingCard(game.LeagueNHL, "100", "2026-01-15")})

	source := &stubScoreSource{nhl: map[string]Score{
		"100": {Away: scorePtr(4), Home: scorePtr(2), IsFinal: true},
	}}
	loop := newTestLoop(source, index)

	if got := loop.tick(context.Background()); got != loop.cfg.IdleInterval {
		t.Fatalf("interval = %v, want idle %v", got, loop.cfg.IdleInterval)
	}
}

func TestLoop_TickSkipsWhileHidden(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	index.CardsChanged([]*Card{pendingCard(game.LeagueNHL, "100", "2026-01-15")})

	source := &stubScoreSource{}
	loop := newTestLoop(source, index)
	loop.SetVisible(false)

	loop.tick(context.Background())

	if nhl, ncaa := source.calls(); nhl != 0 || ncaa != 0 {
		t.Fatalf("hidden tick made network calls: nhl=%d ncaa=%d", nhl, ncaa)
	}
}

func TestLoop_TickIdlesWithNothingToPoll(t *testing.T) {
	t.Parallel()

	source := &stubScoreSource{}
	loop := newTestLoop(source, NewTargetIndex())

	if got := loop.tick(context.Background()); got != loop.cfg.IdleInterval {
		t.Fatalf("interval = %v, want idle", got)
	}
	if nhl, ncaa := source.calls(); nhl != 0 || ncaa != 0 {
		t.Fatalf("empty tick made network calls: nhl=%d ncaa=%d", nhl, ncaa)
	}
}

func TestLoop_PartialLeagueFailureStillApplies(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	index.CardsChanged([]*Card{
		pendingCard(game.LeagueNHL, "100", "2026-01-15"),
		pendingCard(game.LeagueNCAA, "6308569", "2026-01-15"),
	})

	source := &stubScoreSource{
		nhlErr: context.DeadlineExceeded,
		ncaa: map[string]Score{
			"6308569": {Away: scorePtr(2), Home: scorePtr(2), Label: "3rd – 0:45", IsLive: true},
		},
	}
	loop := newTestLoop(source, index)

	if got := loop.tick(context.Background()); got != loop.cfg.LiveInterval {
		t.Fatalf("interval = %v, want live from the surviving league", got)
	}
	card, _ := index.Snapshot("6308569")
	if card.Pill != "3rd – 0:45" {
		t.Fatalf("ncaa card not reconciled after nhl failure: pill=%q", card.Pill)
	}
}

func TestLoop_BackfillSettlesOldCardsOnce(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	index.CardsChanged([]*Card{
		pendingCard(game.LeagueNHL, "100", "2026-01-10"),
		pendingCard(game.LeagueNHL, "200", "2026-01-15"),
	})

	source := &stubScoreSource{nhl: map[string]Score{
		"100": {Away: scorePtr(5), Home: scorePtr(3), IsFinal: true},
	}}
	loop := newTestLoop(source, index)

	loop.Backfill(context.Background())

	card, _ := index.Snapshot("100")
	if card.Pill != "Final" || card.Outcome != OutcomeAwayWin {
		t.Fatalf("old card not settled: pill=%q outcome=%v", card.Pill, card.Outcome)
	}
	if today, _ := index.Snapshot("200"); today.Pill != "7:00 PM" {
		t.Fatalf("today's card was touched by backfill: pill=%q", today.Pill)
	}

	nhlBefore, _ := source.calls()
	if nhlBefore != 1 {
		t.Fatalf("backfill made %d nhl calls, want 1 (card resolved on first round)", nhlBefore)
	}

	// A second sweep finds nothing unresolved and stays off the network.
	loop.Backfill(context.Background())
	if nhlAfter, _ := source.calls(); nhlAfter != nhlBefore {
		t.Fatalf("second backfill made calls for settled cards")
	}
}

func TestLoop_StartStop(t *testing.T) {
	t.Parallel()

	index := NewTargetIndex()
	source := &stubScoreSource{}
	loop := NewLoop(Config{
		InitialDelay:  time.Millisecond,
		BackfillPause: time.Millisecond,
		Timezone:      time.UTC,
	}, source, index, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop.Start(ctx)
	loop.Start(ctx) // second call is a no-op
	time.Sleep(20 * time.Millisecond)
	loop.Stop()
	loop.Stop()
}
