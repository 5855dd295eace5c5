package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sjms/livescores/internal/domain/game"
	"github.com/sjms/livescores/internal/usecase"
)

type Handler struct {
	scoreService    *usecase.ScoreService
	boxscoreService *usecase.BoxscoreService
	importService   *usecase.ImportService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	scoreService *usecase.ScoreService,
	boxscoreService *usecase.BoxscoreService,
	importService *usecase.ImportService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		scoreService:    scoreService,
		boxscoreService: boxscoreService,
		importService:   importService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]any{"ok": true, "status": "ok"})
}

func (h *Handler) NHLScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NHLScores")
	defer span.End()

	raw := strings.TrimSpace(r.URL.Query().Get("game_ids"))
	if raw == "" {
		writeError(ctx, w, fmt.Errorf("%w: missing game_ids", usecase.ErrInvalidInput))
		return
	}
	ids := parseNHLGameIDs(raw)
	if len(ids) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: no valid game ids", usecase.ErrInvalidInput))
		return
	}

	states, err := h.scoreService.NHLScores(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "nhl scores failed", "game_ids", raw, "error", err)
		writeError(ctx, w, err)
		return
	}

	games := make(map[string]nhlGameDTO, len(states))
	for id, rec := range states {
		games[strconv.FormatInt(id, 10)] = nhlStateToDTO(rec)
	}
	writeGames(ctx, w, games)
}

func (h *Handler) NCAAScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NCAAScores")
	defer span.End()

	raw := strings.TrimSpace(r.URL.Query().Get("game_ids"))
	if raw == "" {
		writeError(ctx, w, fmt.Errorf("%w: missing game_ids", usecase.ErrInvalidInput))
		return
	}
	ids := splitGameIDs(raw)
	if len(ids) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: no valid game ids", usecase.ErrInvalidInput))
		return
	}

	states, err := h.scoreService.NCAAScores(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "ncaa scores failed", "game_ids", raw, "error", err)
		writeError(ctx, w, err)
		return
	}

	if r.URL.Query().Get("debug") == "1" {
		h.logger.DebugContext(ctx, "ncaa scores batch", "requested", len(ids), "returned", len(states))
	}

	games := make(map[string]ncaaGameDTO, len(states))
	for id, rec := range states {
		games[id] = ncaaStateToDTO(rec)
	}
	writeGames(ctx, w, games)
}

func (h *Handler) Boxscore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Boxscore")
	defer span.End()

	leagueRaw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("league")))
	gameID := strings.TrimSpace(r.URL.Query().Get("id"))
	if leagueRaw == "" || gameID == "" {
		writeError(ctx, w, fmt.Errorf("%w: league and id are required", usecase.ErrInvalidInput))
		return
	}

	league, ok := game.ParseLeague(leagueRaw)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: unknown league %q", usecase.ErrInvalidInput, leagueRaw))
		return
	}

	html, err := h.boxscoreService.HTML(ctx, league, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "boxscore failed", "league", leagueRaw, "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeHTML(ctx, w, html)
}

func (h *Handler) RunImportNCAAScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImportNCAAScheduleJob")
	defer span.End()

	var req importScheduleRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.importService.ImportNCAASchedule(ctx, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.ErrorContext(ctx, "ncaa schedule import failed", "start_date", req.StartDate, "end_date", req.EndDate, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, importJobResponse{
		OK:       true,
		Dates:    result.Dates,
		Games:    result.Games,
		Upserted: result.Upserted,
	})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type importScheduleRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type importJobResponse struct {
	OK       bool `json:"ok"`
	Dates    int  `json:"dates"`
	Games    int  `json:"games"`
	Upserted int  `json:"upserted"`
}

type nhlGameDTO struct {
	Away           *int   `json:"away"`
	Home           *int   `json:"home"`
	Label          string `json:"label"`
	IsLive         bool   `json:"is_live"`
	IsIntermission bool   `json:"is_intermission"`
	IsFinal        bool   `json:"is_final"`
}

type ncaaGameDTO struct {
	Home           *int   `json:"home"`
	Away           *int   `json:"away"`
	Label          string `json:"label"`
	IsFinal        bool   `json:"is_final"`
	IsLive         bool   `json:"is_live"`
	IsIntermission bool   `json:"is_intermission"`
	Status         string `json:"status"`
	Period         string `json:"period"`
	Minutes        *int   `json:"minutes"`
	Seconds        *int   `json:"seconds"`
}

func nhlStateToDTO(rec game.StateRecord) nhlGameDTO {
	return nhlGameDTO{
		Away:           rec.AwayScore,
		Home:           rec.HomeScore,
		Label:          rec.Label,
		IsLive:         rec.IsLive,
		IsIntermission: rec.IsIntermission,
		IsFinal:        rec.IsFinal,
	}
}

func ncaaStateToDTO(rec game.StateRecord) ncaaGameDTO {
	return ncaaGameDTO{
		Home:           rec.HomeScore,
		Away:           rec.AwayScore,
		Label:          rec.Label,
		IsFinal:        rec.IsFinal,
		IsLive:         rec.IsLive,
		IsIntermission: rec.IsIntermission,
		Status:         rec.Status,
		Period:         rec.Period,
		Minutes:        rec.Minutes,
		Seconds:        rec.Seconds,
	}
}

func parseNHLGameIDs(raw string) []int64 {
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		out = append(out, id)
	}
	return out
}

func splitGameIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
