package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nhasan/channelhub/internal/config"
	"github.com/nhasan/channelhub/internal/jsonstore"
	"github.com/nhasan/channelhub/internal/logging"
	"github.com/nhasan/channelhub/internal/password"
	"github.com/nhasan/channelhub/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	if !cfg.GoogleConfigured() {
		slog.Warn("Google OAuth not configured, /api/auth/google will report it")
	}

	users := jsonstore.NewUserRepo(cfg.UsersPath())
	channels := jsonstore.NewChannelRepo(cfg.ChannelsPath())
	analytics := jsonstore.NewAnalyticsRepo(cfg.AnalyticsPath())
	passwords := password.NewService()

	srv := server.NewServer(cfg, users, channels, analytics, passwords, clock)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
