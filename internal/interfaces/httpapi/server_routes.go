package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScoreRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /scores", handler.NHLScores)
	mux.HandleFunc("GET /scores/ncaa", handler.NCAAScores)
	mux.HandleFunc("GET /boxscore", handler.Boxscore)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/import-ncaa-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunImportNCAAScheduleJob)))
}
