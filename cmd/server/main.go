package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/database"
	"github.com/stemsi/kelas-backend/internal/handler"
	"github.com/stemsi/kelas-backend/internal/logger"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/router"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Kelas Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	classRepo := repository.NewClassRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	sessionRepo := repository.NewSessionRepository(rdb)
	classCache := repository.NewClassCache(rdb, cfg.ClassCacheTTL)
	activityBroker := repository.NewActivityBroker(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, sessionRepo)
	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, activityBroker, log)
	classService := service.NewClassService(classRepo, assignmentService, classCache, activityBroker, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth: handler.NewAuthHandler(authService, userService, handler.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SessionCookieSecure,
		}),
		Class:      handler.NewClassHandler(classService),
		Assignment: handler.NewAssignmentHandler(assignmentService, classService),
		WS:         handler.NewWSHandler(classService, activityBroker, log, cfg.AllowedOrigins),
	}

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	if _, err := classService.List(ctx); err != nil {
		log.Warn().Err(err).Msg("Class cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	authn := middleware.NewAuthenticator(authService, userService, cfg.SessionCookieName)
	r := router.SetupRouter(authn, handlers, database.NewChecker(pool, rdb), cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
