package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/database"
	"github.com/hestonauto/appraise-backend/internal/handler"
	"github.com/hestonauto/appraise-backend/internal/logger"
	"github.com/hestonauto/appraise-backend/internal/mail"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/hestonauto/appraise-backend/internal/repository"
	"github.com/hestonauto/appraise-backend/internal/router"
	"github.com/hestonauto/appraise-backend/internal/service"
	"github.com/hestonauto/appraise-backend/internal/session"
	"github.com/hestonauto/appraise-backend/internal/validator"
	"github.com/hestonauto/appraise-backend/internal/worker"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting appraisal backend")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

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
	adminRepo := repository.NewAdminRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	appraisalRepo := repository.NewAppraisalRepository(pool)

	// ─── Seed Default Admin ────────────────────────────────────────────
	if cfg.SeedAdmin {
		seedDefaultAdmin(ctx, adminRepo, cfg.BcryptCost, log)
	}

	// ─── Sessions & Mail ───────────────────────────────────────────────
	sessions := session.NewRedisStore(rdb, cfg.SessionTTL)
	mailQueue := mail.NewQueue(rdb)
	mailer := mail.NewMailer(cfg)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, adminRepo, staffRepo, mailQueue, log)
	staffService := service.NewStaffService(staffRepo, cfg.BcryptCost, log)
	appraisalService := service.NewAppraisalService(appraisalRepo, log)
	lookupService := service.NewLookupService(cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, authService, sessions),
		Staff:     handler.NewStaffHandler(staffService),
		Appraisal: handler.NewAppraisalHandler(appraisalService),
		DVLA:      handler.NewDVLAHandler(lookupService),
	}

	// ─── Start Mail Worker ─────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	mailWorker := worker.NewMailWorker(rdb, mailer, log)
	go mailWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(sessions, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the mail worker and let it drain pending deliveries.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// seedDefaultAdmin creates the bootstrap admin account if it does not exist.
// Dev convenience; disable with SEED_ADMIN=false and use cmd/create-admin
// in production.
func seedDefaultAdmin(ctx context.Context, repo *repository.AdminRepository, cost int, log zerolog.Logger) {
	const (
		defaultUsername = "admin"
		defaultPassword = "1234"
	)

	if _, err := repo.GetByUsername(ctx, defaultUsername); err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), cost)
	if err != nil {
		log.Error().Err(err).Msg("Admin seed error")
		return
	}

	admin := &model.Admin{Username: defaultUsername, PasswordHash: string(hash)}
	if err := repo.Create(ctx, admin); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Admin seed error")
		}
		return
	}

	log.Info().Str("username", defaultUsername).Msg("Seeded default admin account")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
