package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sjms/livescores/external/collegehockey"
	"github.com/sjms/livescores/external/msf"
	"github.com/sjms/livescores/internal/config"
	"github.com/sjms/livescores/internal/infrastructure/repository/postgres"
	"github.com/sjms/livescores/internal/interfaces/httpapi"
	"github.com/sjms/livescores/internal/interfaces/render"
	"github.com/sjms/livescores/internal/platform/filecache"
	"github.com/sjms/livescores/internal/platform/logging"
	"github.com/sjms/livescores/internal/platform/resilience"
	"github.com/sjms/livescores/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	svcLogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(svcLogger)

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info("database connected", "name", dbNameFromURL(cfg.DBURL))

	cache := filecache.NewStore(cfg.CacheDir, svcLogger)

	nhlClient := msf.NewClient(msf.ClientConfig{
		BaseURL:    cfg.MSFBaseURL,
		APIKey:     cfg.MSFAPIKey,
		Timeout:    cfg.MSFTimeout,
		MaxRetries: cfg.MSFMaxRetries,
		Logger:     svcLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.MSFCircuitEnabled,
			FailureThreshold: cfg.MSFCircuitFailureCount,
			OpenTimeout:      cfg.MSFCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.MSFCircuitHalfOpenMaxReq,
		},
	})

	ncaaClient := collegehockey.NewClient(collegehockey.ClientConfig{
		BaseURL:        cfg.NCAABaseURL,
		RequestTimeout: cfg.NCAARequestTimeout,
		ConnectTimeout: cfg.NCAAConnectTimeout,
		BatchWorkers:   cfg.NCAABatchWorkers,
		Logger:         svcLogger,
	})

	metaRepo := postgres.NewGameRepository(db)
	histRepo := postgres.NewBoxscoreRepository(db)

	scoreSvc := usecase.NewScoreService(usecase.ScoreConfig{
		NHLSnapshotTTL: cfg.NHLSnapshotTTL,
		NCAABatchTTL:   cfg.NCAABatchTTL,
	}, cache, metaRepo, nhlClient, ncaaClient, svcLogger)

	boxscoreSvc := usecase.NewBoxscoreService(usecase.BoxscoreConfig{
		NHLHTMLTTL:  cfg.NHLBoxscoreTTL,
		NCAAHTMLTTL: cfg.NCAABoxscoreTTL,
		Timezone:    cfg.DisplayTimezone,
	}, cache, metaRepo, histRepo, nhlClient, ncaaClient, render.NewBoxscoreRenderer(), svcLogger)

	importSvc := usecase.NewImportService(usecase.ImportConfig{
		Timezone: cfg.DisplayTimezone,
		DayDelay: cfg.ImportDayDelay,
	}, ncaaClient, metaRepo, svcLogger)

	handler := httpapi.NewHandler(scoreSvc, boxscoreSvc, importSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
		_ = svcLogger.Sync()
	}

	return server, cleanup, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
