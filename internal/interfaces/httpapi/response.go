package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/sjms/livescores/internal/usecase"
)

// The wire envelope is fixed by the polling clients: `{ok, games}` for
// score batches, `{ok, html}` for boxscore fragments, `{ok:false, error}`
// for failures.

type errorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type scoresEnvelope struct {
	OK    bool `json:"ok"`
	Games any  `json:"games"`
}

type htmlEnvelope struct {
	OK   bool   `json:"ok"`
	HTML string `json:"html"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeGames(ctx context.Context, w http.ResponseWriter, games any) {
	ctx, span := startSpan(ctx, "httpapi.writeGames")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, scoresEnvelope{OK: true, Games: games})
}

func writeHTML(ctx context.Context, w http.ResponseWriter, html string) {
	ctx, span := startSpan(ctx, "httpapi.writeHTML")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, htmlEnvelope{OK: true, HTML: html})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	writeJSON(ctx, w, errorStatus(err), errorEnvelope{Error: err.Error()})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{Error: "internal server error"})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
