package usecase

import (
	"context"
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
	nhlSnapshotKeyPrefix = "msf_live_"
	ncaaBatchKeyPrefix   = "ncaa_current_scores_"
)

type NHLProvider interface {
	FetchBoxscore(ctx context.Context, season, date, awayAbbr, homeAbbr string) (*msf.Boxscore, error)
}

type NCAAProvider interface {
	FetchBoxscores(ctx context.Context, gameIDs []string) map[string]*collegehockey.Boxscore
}

type ScoreConfig struct {
	// NHLSnapshotTTL bounds how often one game's raw boxscore is
	// re-fetched while many viewers poll it.
	NHLSnapshotTTL time.Duration
	// NCAABatchTTL is the micro-cache window over a whole computed batch.
	NCAABatchTTL time.Duration
	// NCAAMaxIDs caps one batch request toward the scraping service.
	NCAAMaxIDs int
}

func (c ScoreConfig) withDefaults() ScoreConfig {
	if c.NHLSnapshotTTL <= 0 {
		c.NHLSnapshotTTL = 20 * time.Second
	}
	if c.NCAABatchTTL <= 0 {
		c.NCAABatchTTL = 8 * time.Second
	}
	if c.NCAAMaxIDs <= 0 {
		c.NCAAMaxIDs = 60
	}
	return c
}

// ScoreService is the cache gateway for live score reads: metadata
// resolution, provider fetches, status derivation, and the file-cache
// layer that keeps many concurrent viewers from hammering upstream.
type ScoreService struct {
	cfg    ScoreConfig
	cache  *filecache.Store
	meta   game.MetadataRepository
	nhl    NHLProvider
	ncaa   NCAAProvider
	logger *logging.Logger
}

func NewScoreService(cfg ScoreConfig, cache *filecache.Store, meta game.MetadataRepository, nhl NHLProvider, ncaa NCAAProvider, logger *logging.Logger) *ScoreService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoreService{
		cfg:    cfg.withDefaults(),
		cache:  cache,
		meta:   meta,
		nhl:    nhl,
		ncaa:   ncaa,
		logger: logger,
	}
}

// NHLScores returns current state for the requested games. Games whose
// metadata cannot be resolved, or whose snapshot can be neither read
// from cache nor fetched, are silently absent from the result; callers
// keep whatever they last rendered for those.
func (s *ScoreService) NHLScores(ctx context.Context, gameIDs []int64) (map[int64]game.StateRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.NHLScores")
	defer span.End()

	out := make(map[int64]game.StateRecord, len(gameIDs))
	if len(gameIDs) == 0 {
		return out, nil
	}

	metas, err := s.meta.NHLGames(ctx, gameIDs)
	if err != nil {
		return nil, err
	}

	for _, gameID := range gameIDs {
		meta, ok := metas[gameID]
		if !ok {
			continue
		}

		box := s.nhlSnapshot(ctx, meta)
		if box == nil {
			continue
		}

		status := game.DeriveNHLStatus(box.StatusInput())
		out[gameID] = game.StateRecord{
			GameID:         strconv.FormatInt(gameID, 10),
			League:         game.LeagueNHL,
			AwayScore:      box.Scoring.AwayScoreTotal,
			HomeScore:      box.Scoring.HomeScoreTotal,
			Label:          status.Label,
			IsLive:         status.Live,
			IsIntermission: status.Intermission,
			IsFinal:        status.Final,
		}
	}

	return out, nil
}

// nhlSnapshot returns the cached raw boxscore for a game, fetching and
// best-effort caching on a miss. nil means no data right now.
func (s *ScoreService) nhlSnapshot(ctx context.Context, meta game.NHLMeta) *msf.Boxscore {
	key := nhlSnapshotKeyPrefix + filecache.HashKey(meta.Season, meta.Date, meta.AwayAbbr, meta.HomeAbbr)

	var cached msf.Boxscore
	if s.cache.GetJSON(key, s.cfg.NHLSnapshotTTL, &cached) {
		return &cached
	}

	box, err := s.nhl.FetchBoxscore(ctx, meta.Season, meta.Date, meta.AwayAbbr, meta.HomeAbbr)
	if err != nil {
		s.logger.DebugContext(ctx, "nhl snapshot unavailable", "game_id", meta.GameID, "error", err)
		return nil
	}

	s.cache.SetJSON(key, box)
	return box
}

// NCAAScores returns current state for the requested contests. Unlike
// the NHL path, every requested id gets an entry: games the provider
// cannot report come back as pregame records with nil scores. Input is
// capped, deduplicated, and the whole computed batch is micro-cached so
// concurrent viewers inside one window share a single upstream batch.
func (s *ScoreService) NCAAScores(ctx context.Context, gameIDs []string) (map[string]game.StateRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreService.NCAAScores")
	defer span.End()

	ids := normalizeNCAAIDs(gameIDs, s.cfg.NCAAMaxIDs)
	out := make(map[string]game.StateRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	batchKey := ncaaBatchKeyPrefix + filecache.HashKey(strings.Join(ids, ","))
	if s.cache.GetJSON(batchKey, s.cfg.NCAABatchTTL, &out) {
		return out, nil
	}

	metas, err := s.meta.NCAAGames(ctx, ids)
	if err != nil {
		return nil, err
	}

	boxes := s.ncaa.FetchBoxscores(ctx, ids)

	for _, gameID := range ids {
		scheduled := ""
		if meta, ok := metas[gameID]; ok {
			scheduled = game.ScheduledLabel(meta.StartTimeLocal, meta.StartTime)
		}

		box := boxes[gameID]
		if box == nil {
			out[gameID] = ncaaFallbackRecord(gameID, scheduled)
			continue
		}

		away, home := box.Scores()
		status := game.DeriveNCAAStatus(box.StatusInput(scheduled))
		out[gameID] = game.StateRecord{
			GameID:         gameID,
			League:         game.LeagueNCAA,
			AwayScore:      away,
			HomeScore:      home,
			Label:          status.Label,
			IsLive:         status.Live,
			IsIntermission: status.Intermission,
			IsFinal:        status.Final,
			Status:         strings.ToUpper(strings.TrimSpace(box.Status)),
			Period:         box.Period,
			Minutes:        box.Minutes,
			Seconds:        box.Seconds,
		}
	}

	s.cache.SetJSON(batchKey, out)
	return out, nil
}

func ncaaFallbackRecord(gameID, scheduled string) game.StateRecord {
	label := scheduled
	if label == "" {
		label = "Scheduled"
	}
	return game.StateRecord{
		GameID: gameID,
		League: game.LeagueNCAA,
		Label:  label,
	}
}

// normalizeNCAAIDs trims, keeps numeric ids only, deduplicates
// preserving order, and truncates to the batch cap.
func normalizeNCAAIDs(raw []string, limit int) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || !isDigits(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
