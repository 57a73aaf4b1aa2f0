package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"campuseventhub/config"
	"campuseventhub/internal/adapters/auth"
	delivery "campuseventhub/internal/delivery/http"
	"campuseventhub/internal/delivery/http/controllers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/repository/postgres"
	"campuseventhub/internal/services"
	"campuseventhub/migrations"
)

const shutdownTimeout = 10 * time.Second

// @title Campus Event Hub API
// @version 1.0
// @description Event lifecycle and seat allocation engine for campus events.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(startupCtx); err != nil {
		logger.Error("database ping", "err", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, db); err != nil {
		logger.Error("apply migrations", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	lifecycleSvc := services.NewLifecycleService(eventRepo, cfg.RequestTimeout)
	catalogSvc := services.NewCatalogService(eventRepo, cfg.RequestTimeout)
	registrationSvc := services.NewRegistrationService(eventRepo, registrationRepo, cfg.RequestTimeout)

	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL)

	eventController := controllers.NewEventController(logger, lifecycleSvc, catalogSvc)
	registrationController := controllers.NewRegistrationController(logger, registrationSvc)

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
		IdleTTL: 5 * time.Minute,
	})
	mux := delivery.NewRouter(eventController, registrationController, tokenCodec, limiter)

	handler := middleware.LoggingMiddleware(logger,
		middleware.CORS(cfg.CORSOrigins, mux))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	logger.Info("api listening", "port", cfg.Port, "env", cfg.Environment)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
