// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"go-storefront/config"
	"go-storefront/logging"
	"go-storefront/routes"
	"go-storefront/store"
	"go-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	cfg := config.Load()

	logger, err := logging.Setup(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)
	utils.TokenTTL = cfg.TokenTTL

	if cfg.DemoMode {
		zap.L().Warn("INSECURE DEMO MODE: registrations whose email contains \"admin\" become administrators")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := store.Open(ctx, cfg)
	if err != nil {
		cancel()
		zap.L().Fatal("failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := store.Seed(ctx, db, cfg.AdminPassword); err != nil {
		cancel()
		zap.L().Fatal("failed to seed database", zap.Error(err))
	}
	cancel()
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			zap.L().Error("failed to close database", zap.Error(err))
		}
	}()

	// Initialize EmailService
	emailService := utils.NewEmailService(cfg.Email)

	var google utils.GoogleVerifier
	switch {
	case cfg.GoogleMockMode():
		zap.L().Warn("GOOGLE_CLIENT_ID is a mock value, Google tokens are not verified")
		google = utils.NewGoogleVerifier(cfg.GoogleClientID, true)
	case cfg.GoogleEnabled():
		google = utils.NewGoogleVerifier(cfg.GoogleClientID, false)
	default:
		zap.L().Info("GOOGLE_CLIENT_ID not usable, Google login disabled", zap.Bool("demo_mode", cfg.DemoMode))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(db, emailService, google, cfg.DemoMode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server is running", zap.String("port", cfg.Port), zap.String("driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
}
