package poller

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sjms/livescores/internal/domain/game"
)

// TargetIndex is the id -> card map the reconciler renders into. It is
// rebuilt wholesale on CardsChanged rather than patched incrementally,
// so pagination ("load more") can never leave it stale. All card
// mutation happens under the index lock; the main poll loop and the
// backfill sweep may overlap in wall-clock time.
type TargetIndex struct {
	mu            sync.Mutex
	cards         []*Card
	byID          map[string]*Card
	lastSignature string
}

func NewTargetIndex() *TargetIndex {
	return &TargetIndex{byID: map[string]*Card{}}
}

// CardsChanged rebuilds the index from the full current card set.
// First-seen cards get their insertion position as the stable original
// order and keep their server-rendered pill as the pregame fallback.
// Any card not explicitly showing "Final" has its outcome styling
// scrubbed, so server-rendered classes can't linger past a rebuild.
func (x *TargetIndex) CardsChanged(cards []*Card) {
	x.mu.Lock()
	defer x.mu.Unlock()

	byID := make(map[string]*Card, len(cards))
	for idx, card := range cards {
		if card.GameID == "" {
			continue
		}
		if !card.tracked {
			card.tracked = true
			card.originalOrder = idx
			card.initialPill = strings.TrimSpace(card.Pill)
		}
		if !strings.EqualFold(strings.TrimSpace(card.Pill), "Final") {
			card.Outcome = OutcomeNone
		}
		if _, dup := byID[card.GameID]; dup {
			continue
		}
		byID[card.GameID] = card
	}

	x.cards = cards
	x.byID = byID
}

// Collect gathers up to limit pollable ids split per league. Today's
// games always come first; remaining slots go to yesterday's games that
// still look unresolved. If that yields nothing, any yesterday game
// qualifies.
func (x *TargetIndex) Collect(today, yesterday string, limit int) (nhl []int64, ncaa []string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	seen := map[string]struct{}{}
	push := func(card *Card) {
		if len(nhl)+len(ncaa) >= limit {
			return
		}
		if _, dup := seen[card.GameID]; dup {
			return
		}
		seen[card.GameID] = struct{}{}

		if card.League == game.LeagueNHL {
			if id, err := strconv.ParseInt(card.GameID, 10, 64); err == nil && id > 0 {
				nhl = append(nhl, id)
			}
			return
		}
		ncaa = append(ncaa, card.GameID)
	}

	for _, card := range x.cards {
		if len(nhl)+len(ncaa) >= limit {
			break
		}
		if card.Date == today {
			push(card)
		}
	}

	for _, card := range x.cards {
		if len(nhl)+len(ncaa) >= limit {
			break
		}
		if card.Date == yesterday && card.Unresolved() {
			push(card)
		}
	}

	if len(nhl) == 0 && len(ncaa) == 0 {
		for _, card := range x.cards {
			if len(nhl)+len(ncaa) >= limit {
				break
			}
			if card.Date == yesterday {
				push(card)
			}
		}
	}

	return nhl, ncaa
}

// CollectBackfill gathers up to limit unresolved games dated strictly
// before today, so old cards can be settled once and stop polling.
func (x *TargetIndex) CollectBackfill(today string, limit int) (nhl []int64, ncaa []string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if today == "" {
		return nil, nil
	}

	seen := map[string]struct{}{}
	for _, card := range x.cards {
		if len(nhl)+len(ncaa) >= limit {
			break
		}
		if card.Date == "" || card.Date >= today || !card.Unresolved() {
			continue
		}
		if _, dup := seen[card.GameID]; dup {
			continue
		}
		seen[card.GameID] = struct{}{}

		if card.League == game.LeagueNHL {
			if id, err := strconv.ParseInt(card.GameID, 10, 64); err == nil && id > 0 {
				nhl = append(nhl, id)
			}
			continue
		}
		ncaa = append(ncaa, card.GameID)
	}

	return nhl, ncaa
}

// Apply reconciles fetched records into their cards. Ids with no card
// are dropped. Reports whether any reconciled card is live.
func (x *TargetIndex) Apply(scores map[string]Score, today string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	anyLive := false
	for id, score := range scores {
		card, ok := x.byID[id]
		if !ok {
			continue
		}
		if applyScore(card, score, today) {
			anyLive = true
		}
	}
	return anyLive
}

// Reorder moves live cards to the front, stable by original insertion
// order, and reports whether the visible order actually changed. The
// move is suppressed entirely when the viewport is not near the top:
// reordering under a scrolled-down reader would yank cards out from
// beneath them.
func (x *TargetIndex) Reorder(nearTop bool) bool {
	if !nearTop {
		return false
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	sorted := make([]*Card, len(x.cards))
	copy(sorted, x.cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].live != sorted[j].live {
			return sorted[i].live
		}
		return sorted[i].originalOrder < sorted[j].originalOrder
	})

	ids := make([]string, 0, len(sorted))
	for _, card := range sorted {
		ids = append(ids, card.GameID)
	}
	signature := strings.Join(ids, "|")
	if signature == x.lastSignature {
		return false
	}
	x.lastSignature = signature
	x.cards = sorted
	return true
}

// Order returns the game ids in current display order.
func (x *TargetIndex) Order() []string {
	x.mu.Lock()
	defer x.mu.Unlock()

	ids := make([]string, 0, len(x.cards))
	for _, card := range x.cards {
		ids = append(ids, card.GameID)
	}
	return ids
}

// Snapshot returns a copy of one card's render state.
func (x *TargetIndex) Snapshot(gameID string) (Card, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	card, ok := x.byID[gameID]
	if !ok {
		return Card{}, false
	}
	return *card, true
}
