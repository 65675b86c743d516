package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/eartune/internal/api"
	"github.com/vytor/eartune/internal/config"
	"github.com/vytor/eartune/internal/content"
	"github.com/vytor/eartune/internal/db"
	"github.com/vytor/eartune/internal/game"
	"github.com/vytor/eartune/internal/jobs"
	"github.com/vytor/eartune/internal/logger"
	"github.com/vytor/eartune/internal/repository/sqlite"
	"github.com/vytor/eartune/internal/services"
	"github.com/vytor/eartune/internal/telemetry"
	"github.com/vytor/eartune/internal/worker"
)

const serviceName = "eartune"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(cfg.LogColors),
		logger.WithFile(cfg.LogFile),
	)
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("EarTune Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("max_attempts=%d", cfg.MaxAttempts)
	log.Debug("rhythm_tolerance_ms=%.0f", cfg.RhythmToleranceMs)
	log.Debug("streak_sweep_schedule=%q", cfg.StreakSweepSchedule)
	log.Debug("rate_limit=%.1f/s burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		log.Error("failed to set up tracing: %v", err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	challengeRepo := sqlite.NewChallengeRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	achievementRepo := sqlite.NewAchievementRepository(database.DB)
	submissionRepo := sqlite.NewSubmissionRepository(database.DB)

	if cfg.SeedContent {
		if _, err := content.Seed(ctx, challengeRepo, achievementRepo); err != nil {
			log.Error("failed to seed content: %v", err)
			os.Exit(1)
		}
	}

	// Initialize services
	loc := cfg.Location()
	locks := services.NewUserLocks()
	engine := game.NewEngine(game.Config{
		MaxAttempts: cfg.MaxAttempts,
		ToleranceMs: cfg.RhythmToleranceMs,
	})

	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(ctx, 10*time.Minute)

	srv := &api.Server{
		DB:         database.DB,
		Challenges: services.NewChallengeService(challengeRepo),
		Games: services.NewGameService(engine,
			challengeRepo, sessionRepo, profileRepo, achievementRepo, submissionRepo,
			services.WithLocation(loc), services.WithUserLocks(locks)),
		Profiles: services.NewProfileService(profileRepo, achievementRepo,
			services.WithLocation(loc), services.WithUserLocks(locks)),
		Achievements: services.NewAchievementService(achievementRepo),
		Limiter:      limiter,
	}

	// Background jobs
	sweepPool := worker.NewPool(cfg.SweepWorkerCount, cfg.SweepQueueSize)
	sweepPool.Start(ctx)

	scheduler := jobs.NewScheduler(sweepPool, loc)
	if cfg.StreakSweepSchedule != "" {
		sweep := &jobs.StreakSweepJob{Profiles: profileRepo, Locks: locks, Location: loc}
		if err := scheduler.Add(cfg.StreakSweepSchedule, sweep); err != nil {
			log.Error("failed to schedule streak sweep: %v", err)
			os.Exit(1)
		}
		// Catch up on anything that lapsed while the server was down.
		scheduler.Trigger(sweep)
	}
	scheduler.Start()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping scheduler")
	scheduler.Stop(shutdownCtx)
	cancel()
	log.Debug("stopping sweep pool")
	sweepPool.Stop()

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("EarTune Server Stopped")
	log.Info("===========================================")
}
