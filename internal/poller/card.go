// Package poller drives the score-card refresh cycle for an index page:
// it collects pollable game ids, fetches batched state from the score
// gateway, reconciles the tracked render targets, and backfills stale
// older cards so they resolve once and drop out of future polling.
package poller

import (
	"strings"

	"github.com/sjms/livescores/internal/domain/game"
)

// Outcome is the win/loss/tie styling applied to a settled card.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAwayWin
	OutcomeHomeWin
	OutcomeTie
)

// Card is one renderable score card. The page bootstrap constructs
// cards from whatever the server rendered and hands them to the index;
// the reconciler owns them from then on.
type Card struct {
	League game.League
	GameID string
	Date   string // 2006-01-02

	AwayText  string
	HomeText  string
	Pill      string
	PillFinal bool
	Outcome   Outcome

	live          bool
	tracked       bool
	originalOrder int
	initialPill   string
}

// Live reports whether the card showed a live or intermission state on
// the last reconcile.
func (c *Card) Live() bool { return c.live }

// Unresolved reports whether the card still needs a settling poll:
// missing score text, or a status pill that is anything but "Final".
func (c *Card) Unresolved() bool {
	if c.AwayText == "" || c.HomeText == "" {
		return true
	}
	pill := strings.TrimSpace(c.Pill)
	if pill == "" || pill == " " {
		return true
	}
	return !strings.EqualFold(pill, "Final")
}
