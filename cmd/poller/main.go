package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sjms/livescores/internal/config"
	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/platform/logging"
	"github.com/sjms/livescores/internal/poller"
)

// Headless score monitor: tracks a fixed set of games against a running
// score API and logs card state as it settles. Mirrors what the index
// page widget does, minus the DOM.
func main() {
	_ = godotenv.Load()

	nhlIDs := flag.String("nhl", "", "comma-separated NHL game ids to track")
	ncaaIDs := flag.String("ncaa", "", "comma-separated NCAA contest ids to track")
	date := flag.String("date", "", "card date as 2006-01-02 (default today)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if !cfg.PollerEnabled {
		fmt.Fprintln(os.Stderr, "poller disabled: set POLLER_ENABLED=true and POLLER_BASE_URL")
		os.Exit(2)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	cardDate := strings.TrimSpace(*date)
	if cardDate == "" {
		cardDate = time.Now().In(cfg.DisplayTimezone).Format("2006-01-02")
	}

	cards := buildCards(*nhlIDs, *ncaaIDs, cardDate)
	if len(cards) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to track: pass -nhl and/or -ncaa game ids")
		os.Exit(2)
	}

	source := poller.NewHTTPSource(poller.HTTPSourceConfig{
		BaseURL:        cfg.PollerBaseURL,
		RequestTimeout: cfg.NCAARequestTimeout,
		ConnectTimeout: cfg.NCAAConnectTimeout,
	})

	index := poller.NewTargetIndex()
	loop := poller.NewLoop(poller.Config{
		LiveInterval: cfg.PollerLiveInterval,
		IdleInterval: cfg.PollerIdleInterval,
		Timezone:     cfg.DisplayTimezone,
	}, source, index, logger)
	loop.CardsChanged(cards)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop.Start(ctx)
	defer loop.Stop()

	report := time.NewTicker(cfg.PollerLiveInterval)
	defer report.Stop()

	logger.Info("poller started",
		"base_url", cfg.PollerBaseURL,
		"cards", len(cards),
		"date", cardDate,
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("poller stopped")
			return
		case <-report.C:
			for _, id := range index.Order() {
				card, ok := index.Snapshot(id)
				if !ok {
					continue
				}
				logger.Info("card state",
					"league", string(card.League),
					"game_id", card.GameID,
					"away", card.AwayText,
					"home", card.HomeText,
					"pill", card.Pill,
					"live", card.Live(),
				)
			}
		}
	}
}

func buildCards(nhlCSV, ncaaCSV, date string) []*poller.Card {
	var cards []*poller.Card
	for _, id := range splitIDs(nhlCSV) {
		cards = append(cards, &poller.Card{League: game.LeagueNHL, GameID: id, Date: date})
	}
	for _, id := range splitIDs(ncaaCSV) {
		cards = append(cards, &poller.Card{League: game.LeagueNCAA, GameID: id, Date: date})
	}
	return cards
}

func splitIDs(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	return out
}
