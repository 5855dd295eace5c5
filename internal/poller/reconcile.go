package poller

import (
	"strconv"
	"strings"

	"github.com/sjms/livescores/internal/domain/game"
)

// applyScore reconciles one card from a fetched record and reports
// whether the card is now live or in intermission. Outcome styling is
// only computed when both scores are numeric and the game is either
// final or dated strictly before today; an in-progress or same-day
// pregame card never carries win/loss classes.
func applyScore(card *Card, score Score, today string) bool {
	card.AwayText = scoreText(score.Away)
	card.HomeText = scoreText(score.Home)

	label := strings.TrimSpace(score.Label)
	if card.League == game.LeagueNCAA && label == "" {
		label = ncaaFallbackLabel(score)
	}

	beforeToday := card.Date != "" && today != "" && card.Date < today
	if score.Away != nil && score.Home != nil && (score.IsFinal || beforeToday) {
		card.Outcome = outcomeOf(*score.Away, *score.Home)
	} else {
		card.Outcome = OutcomeNone
	}

	switch {
	case score.IsFinal:
		card.Pill = "Final"
		card.PillFinal = true
	case score.IsIntermission:
		card.Pill = orDefault(label, "INT")
		card.PillFinal = false
	case score.IsLive:
		card.Pill = orDefault(label, "LIVE")
		card.PillFinal = false
	default:
		card.Pill = orDefault(card.initialPill, "Game Day")
		card.PillFinal = false
	}

	card.live = score.IsLive || score.IsIntermission
	return card.live
}

// ncaaFallbackLabel rebuilds a display label from the raw pass-through
// fields when the gateway sent none.
func ncaaFallbackLabel(score Score) string {
	period := game.NCAAPeriodLabel(score.Period)
	clock := game.ClockLabel(score.Minutes, score.Seconds)
	switch {
	case period != "" && clock != "":
		return period + " – " + clock
	case period != "":
		return period
	}
	return clock
}

func outcomeOf(away, home int) Outcome {
	switch {
	case away > home:
		return OutcomeAwayWin
	case home > away:
		return OutcomeHomeWin
	}
	return OutcomeTie
}

func scoreText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
