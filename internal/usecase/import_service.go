package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sjms/livescores/external/collegehockey"
	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/platform/logging"
)

// NCAAScheduleProvider fetches the daily scoreboard used for schedule import.
type NCAAScheduleProvider interface {
	FetchScoreboard(ctx context.Context, date string) (*collegehockey.Scoreboard, error)
}

type ImportConfig struct {
	// Timezone is the league's home timezone; date arguments and the
	// default "today" resolve in it. Defaults to America/New_York.
	Timezone *time.Location
	// DayDelay is the pause between scoreboard fetches when importing a
	// range, to stay gentle on the upstream service.
	DayDelay time.Duration
}

func (c ImportConfig) withDefaults() ImportConfig {
	if c.Timezone == nil {
		if loc, err := time.LoadLocation("America/New_York"); err == nil {
			c.Timezone = loc
		} else {
			c.Timezone = time.UTC
		}
	}
	if c.DayDelay < 0 {
		c.DayDelay = 0
	}
	return c
}

// ImportResult summarizes one schedule import run.
type ImportResult struct {
	Dates    int `json:"dates"`
	Games    int `json:"games"`
	Upserted int `json:"upserted"`
}

// ImportService pulls the NCAA daily scoreboard and persists schedule rows,
// so score and boxscore reads can resolve contest metadata locally.
type ImportService struct {
	cfg    ImportConfig
	sched  NCAAScheduleProvider
	meta   game.MetadataRepository
	logger *logging.Logger
	now    func() time.Time
}

func NewImportService(cfg ImportConfig, sched NCAAScheduleProvider, meta game.MetadataRepository, logger *logging.Logger) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{
		cfg:    cfg.withDefaults(),
		sched:  sched,
		meta:   meta,
		logger: logger,
		now:    time.Now,
	}
}

// ImportNCAASchedule imports every date in [startDate, endDate], both
// YYYY-MM-DD. An empty startDate means today; an empty endDate means a
// single-day run. A date whose scoreboard fetch fails is logged and
// skipped rather than aborting the rest of the range.
func (s *ImportService) ImportNCAASchedule(ctx context.Context, startDate, endDate string) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportNCAASchedule")
	defer span.End()

	start, end, err := s.resolveRange(startDate, endDate)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if result.Dates > 0 && s.cfg.DayDelay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.cfg.DayDelay):
			}
		}
		result.Dates++

		date := day.Format("2006-01-02")
		board, err := s.sched.FetchScoreboard(ctx, date)
		if err != nil {
			s.logger.WarnContext(ctx, "ncaa scoreboard fetch failed", "date", date, "error", err)
			continue
		}

		metas := make([]game.NCAAMeta, 0, len(board.Games))
		for _, entry := range board.Games {
			meta := entry.Game.Meta(date, s.cfg.Timezone)
			if meta.GameID == "" {
				continue
			}
			metas = append(metas, meta)
		}
		result.Games += len(metas)
		if len(metas) == 0 {
			s.logger.InfoContext(ctx, "no ncaa games on scoreboard", "date", date)
			continue
		}

		n, err := s.meta.UpsertNCAAGames(ctx, metas)
		if err != nil {
			return result, fmt.Errorf("upsert ncaa games for %s: %w", date, err)
		}
		result.Upserted += n
		s.logger.InfoContext(ctx, "imported ncaa schedule", "date", date, "games", len(metas), "upserted", n)
	}

	return result, nil
}

func (s *ImportService) resolveRange(startDate, endDate string) (start, end time.Time, err error) {
	loc := s.cfg.Timezone

	if startDate == "" {
		local := s.now().In(loc)
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	} else {
		start, err = time.ParseInLocation("2006-01-02", startDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %q", ErrInvalidInput, startDate)
		}
	}

	if endDate == "" {
		end = start
	} else {
		end, err = time.ParseInLocation("2006-01-02", endDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %q", ErrInvalidInput, endDate)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	return start, end, nil
}
