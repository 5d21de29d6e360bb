package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/vibecheck/backend/internal/background"
	"github.com/vibecheck/backend/internal/catalog"
	"github.com/vibecheck/backend/internal/cohort"
	"github.com/vibecheck/backend/internal/config"
	"github.com/vibecheck/backend/internal/handlers"
	"github.com/vibecheck/backend/internal/repository"
	"github.com/vibecheck/backend/internal/router"
	"github.com/vibecheck/backend/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	cat := catalog.Default()
	if err := cat.Validate(); err != nil {
		slog.Error("Catalog validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL (connection refused or invalid). Ensure Postgres is running, e.g. make dev-up or docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL database successfully!")

	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("Invalid REDIS_URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("Cannot reach Redis. Rate limiting and karma throttles need it", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to Redis successfully!")

	// River migrations
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed. If the error is 'connection refused', start PostgreSQL first (e.g. make dev-up)", "error", err)
		os.Exit(1)
	}
	slog.Info("River migrations applied")

	// Repositories
	ledgerRepo := repository.NewLedgerRepo(pool)
	capRepo := repository.NewCapRepo(pool)
	txRepo := repository.NewTransactionRepo(pool)
	fraudRepo := repository.NewFraudRepo(pool)
	badgeRepo := repository.NewBadgeRepo(pool)
	statsRepo := repository.NewStatsRepo(pool)
	missionRepo := repository.NewMissionRepo(pool)
	cohortRepo := repository.NewCohortRepo(pool)
	contentRepo := repository.NewContentRepo(pool)

	// Background jobs
	workers := river.NewWorkers()
	river.AddWorker(workers, background.NewCohortRefreshWorker(capRepo, cohortRepo, logger))
	river.AddWorker(workers, background.NewCapSweepWorker(capRepo, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers:      workers,
		PeriodicJobs: background.PeriodicJobs(),
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	// Engine
	orch := &services.Orchestrator{
		DB:          pool,
		Ledgers:     ledgerRepo,
		Caps:        capRepo,
		TxLog:       txRepo,
		Frauds:      fraudRepo,
		Badges:      badgeRepo,
		Stats:       statsRepo,
		Claims:      missionRepo,
		Missions:    services.NewMissionTracker(cat, missionRepo),
		Calc:        services.NewRewardCalculator(cat),
		Detector:    services.NewFraudDetector(cat),
		Policy:      services.NewSanctionPolicy(),
		Karma:       services.NewKarmaService(cat, services.NewRedisKarmaThrottle(redisClient), logger),
		Eligibility: services.NewEligibilityEngine(cat),
		Limiter:     services.NewVelocityLimiter(cat, services.NewRedisWindows(redisClient), logger),
		Content:     contentRepo,
		Cohort:      cohort.NewProvider(cohortRepo, cfg.CohortCacheTTL, logger),
		Catalog:     cat,
		Logger:      logger,
	}

	actionHandler := &handlers.ActionHandler{Engine: orch, Logger: logger}
	progressHandler := &handlers.ProgressHandler{
		Ledgers:      ledgerRepo,
		Transactions: txRepo,
		Badges:       badgeRepo,
		Stats:        statsRepo,
		MissionLog:   missionRepo,
		Missions:     orch.Missions,
		Eligibility:  orch.Eligibility,
		Catalog:      cat,
		Logger:       logger,
	}

	apiHandler := router.New(actionHandler, progressHandler, handlers.ListCatalog(cat), []byte(cfg.JWTSecret))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(apiHandler)

	// Start River client (runs the periodic jobs)
	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	serverAddr := "0.0.0.0:" + cfg.Port
	slog.Info("Starting HTTP server", "addr", serverAddr)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
