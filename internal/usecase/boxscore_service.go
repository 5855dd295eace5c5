package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sjms/livescores/external/collegehockey"
	"github.com/sjms/livescores/external/msf"
	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/platform/filecache"
	"github.com/sjms/livescores/internal/platform/logging"
)

const (
	nhlHTMLKeyPrefix  = "boxscore_html_nhl_"
	ncaaHTMLKeyPrefix = "boxscore_html_ncaa_"
)

// NCAADetailProvider fetches a single contest's full boxscore.
type NCAADetailProvider interface {
	FetchBoxscore(ctx context.Context, gameID string) (*collegehockey.Boxscore, error)
}

// BoxscoreView is the resolved detail payload handed to the renderer.
type BoxscoreView struct {
	League game.League
	Date   string
	Label  string

	Away game.TeamLine
	Home game.TeamLine

	AwayScorers []game.ScorerLine
	HomeScorers []game.ScorerLine
}

// Renderer turns a view into the HTML fragment served to clients.
type Renderer interface {
	Render(view BoxscoreView) (string, error)
}

type BoxscoreConfig struct {
	// NHLHTMLTTL is the rendered-fragment cache window for NHL games.
	NHLHTMLTTL time.Duration
	// NCAAHTMLTTL caps the lifetime of one rendered NCAA fragment.
	NCAAHTMLTTL time.Duration
	// NCAABucketWindow widens the NCAA cache key so all viewers inside
	// one window land on the same entry.
	NCAABucketWindow time.Duration
	// Timezone is the provider's home timezone, used for the live vs
	// stored authority decision. Defaults to America/New_York.
	Timezone *time.Location
}

func (c BoxscoreConfig) withDefaults() BoxscoreConfig {
	if c.NHLHTMLTTL <= 0 {
		c.NHLHTMLTTL = 10 * time.Second
	}
	if c.NCAAHTMLTTL <= 0 {
		c.NCAAHTMLTTL = 20 * time.Second
	}
	if c.NCAABucketWindow <= 0 {
		c.NCAABucketWindow = 8 * time.Second
	}
	if c.Timezone == nil {
		if loc, err := time.LoadLocation("America/New_York"); err == nil {
			c.Timezone = loc
		} else {
			c.Timezone = time.UTC
		}
	}
	return c
}

// BoxscoreService builds the per-game detail fragment: it picks the
// authoritative source (live provider vs persisted finals), flattens the
// payload into a view, renders it, and caches the rendered HTML.
type BoxscoreService struct {
	cfg      BoxscoreConfig
	cache    *filecache.Store
	meta     game.MetadataRepository
	hist     game.HistoricalRepository
	nhl      NHLProvider
	ncaa     NCAADetailProvider
	renderer Renderer
	logger   *logging.Logger
	now      func() time.Time
}

func NewBoxscoreService(cfg BoxscoreConfig, cache *filecache.Store, meta game.MetadataRepository, hist game.HistoricalRepository, nhl NHLProvider, ncaa NCAADetailProvider, renderer Renderer, logger *logging.Logger) *BoxscoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoxscoreService{
		cfg:      cfg.withDefaults(),
		cache:    cache,
		meta:     meta,
		hist:     hist,
		nhl:      nhl,
		ncaa:     ncaa,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// HTML returns the rendered boxscore fragment for one game.
func (s *BoxscoreService) HTML(ctx context.Context, league game.League, gameID string) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoxscoreService.HTML")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return "", fmt.Errorf("%w: empty game id", ErrInvalidInput)
	}

	switch league {
	case game.LeagueNHL:
		id, err := strconv.ParseInt(gameID, 10, 64)
		if err != nil || id <= 0 {
			return "", fmt.Errorf("%w: nhl game id must be numeric", ErrInvalidInput)
		}
		return s.nhlHTML(ctx, id)
	case game.LeagueNCAA:
		if !isDigits(gameID) {
			return "", fmt.Errorf("%w: ncaa game id must be numeric", ErrInvalidInput)
		}
		return s.ncaaHTML(ctx, gameID)
	}
	return "", fmt.Errorf("%w: unknown league %q", ErrInvalidInput, league)
}

// nhlHTML probes the live provider first so the freshness decision can
// see the game's current played status, then renders from whichever
// source is authoritative. Games past the live window with no stored
// rows still render from the feed rather than going blank.
func (s *BoxscoreService) nhlHTML(ctx context.Context, id int64) (string, error) {
	key := nhlHTMLKeyPrefix + strconv.FormatInt(id, 10)
	if raw := s.cache.Get(key, s.cfg.NHLHTMLTTL); raw != nil {
		return string(raw), nil
	}

	meta, err := s.meta.NHLGame(ctx, id)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			return "", fmt.Errorf("%w: nhl game %d", ErrNotFound, id)
		}
		return "", err
	}

	box, fetchErr := s.nhl.FetchBoxscore(ctx, meta.Season, meta.Date, meta.AwayAbbr, meta.HomeAbbr)
	if fetchErr != nil {
		s.logger.DebugContext(ctx, "nhl boxscore fetch failed", "game_id", id, "error", fetchErr)
		box = nil
	}

	if box != nil && game.PreferLive(meta.Date, box.Game.PlayedStatus, s.now(), s.cfg.Timezone) {
		return s.renderAndCache(ctx, key, s.nhlLiveView(meta, box))
	}

	hist, histErr := s.hist.NHLBoxscore(ctx, id)
	if histErr == nil {
		// Stored finals carry no clock, so the label is always Final.
		return s.renderAndCache(ctx, key, BoxscoreView{
			League:      game.LeagueNHL,
			Date:        meta.Date,
			Label:       "Final",
			Away:        hist.Away,
			Home:        hist.Home,
			AwayScorers: hist.AwayScorers,
			HomeScorers: hist.HomeScorers,
		})
	}
	if !errors.Is(histErr, game.ErrNotFound) {
		s.logger.WarnContext(ctx, "nhl stored boxscore load failed", "game_id", id, "error", histErr)
	}

	if box != nil {
		return s.renderAndCache(ctx, key, s.nhlLiveView(meta, box))
	}
	return "", fmt.Errorf("%w: nhl boxscore %d", ErrDependencyUnavailable, id)
}

func (s *BoxscoreService) nhlLiveView(meta game.NHLMeta, box *msf.Boxscore) BoxscoreView {
	status := game.DeriveNHLStatus(box.StatusInput())
	awaySc, homeSc := box.LiveScorers(meta.AwayAbbr, meta.HomeAbbr)
	return BoxscoreView{
		League:      game.LeagueNHL,
		Date:        meta.Date,
		Label:       status.Label,
		Away:        box.TeamTotals("away", meta.AwayAbbr),
		Home:        box.TeamTotals("home", meta.HomeAbbr),
		AwayScorers: awaySc,
		HomeScorers: homeSc,
	}
}

// ncaaHTML always consults the scraping service first: the status it
// reports decides whether persisted gamelogs take over. The cache key is
// time-bucketed because fragments for live games go stale within seconds.
func (s *BoxscoreService) ncaaHTML(ctx context.Context, gameID string) (string, error) {
	bucket := filecache.TimeBucket(s.now(), s.cfg.NCAABucketWindow)
	key := ncaaHTMLKeyPrefix + gameID + "_" + strconv.FormatInt(bucket, 10)
	if raw := s.cache.Get(key, s.cfg.NCAAHTMLTTL); raw != nil {
		return string(raw), nil
	}

	meta, err := s.meta.NCAAGame(ctx, gameID)
	if err != nil && !errors.Is(err, game.ErrNotFound) {
		return "", err
	}

	box, fetchErr := s.ncaa.FetchBoxscore(ctx, gameID)
	if fetchErr != nil || box == nil {
		s.logger.DebugContext(ctx, "ncaa boxscore fetch failed", "game_id", gameID, "error", fetchErr)
		return "", fmt.Errorf("%w: ncaa boxscore %s", ErrDependencyUnavailable, gameID)
	}

	scheduled := game.ScheduledLabel(meta.StartTimeLocal, meta.StartTime)
	status := game.DeriveNCAAStatus(box.StatusInput(scheduled))
	label := status.Label
	if !status.Live && !status.Intermission && !status.Final && scheduled == "" {
		if st := strings.ToUpper(strings.TrimSpace(box.Status)); st != "" {
			label = st
		} else {
			label = "Game Day"
		}
	}

	if status.Final {
		hist, histErr := s.hist.NCAABoxscore(ctx, gameID)
		if histErr == nil {
			return s.renderAndCache(ctx, key, BoxscoreView{
				League:      game.LeagueNCAA,
				Date:        meta.Date,
				Label:       label,
				Away:        hist.Away,
				Home:        hist.Home,
				AwayScorers: hist.AwayScorers,
				HomeScorers: hist.HomeScorers,
			})
		}
		if !errors.Is(histErr, game.ErrNotFound) {
			s.logger.WarnContext(ctx, "ncaa stored boxscore load failed", "game_id", gameID, "error", histErr)
		}
	}

	away, home, ok := box.DetailSides()
	if !ok {
		return "", fmt.Errorf("%w: ncaa boxscore %s incomplete", ErrDependencyUnavailable, gameID)
	}

	return s.renderAndCache(ctx, key, BoxscoreView{
		League:      game.LeagueNCAA,
		Date:        meta.Date,
		Label:       label,
		Away:        away.Line,
		Home:        home.Line,
		AwayScorers: away.Scorers,
		HomeScorers: home.Scorers,
	})
}

func (s *BoxscoreService) renderAndCache(ctx context.Context, key string, view BoxscoreView) (string, error) {
	html, err := s.renderer.Render(view)
	if err != nil {
		return "", fmt.Errorf("render boxscore: %w", err)
	}
	s.cache.Set(key, []byte(html))
	return html, nil
}
