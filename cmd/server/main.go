// Package main provides the entry point for the advisory API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/krishimitra/advisory/internal/assistant"
	"github.com/krishimitra/advisory/internal/config"
	db "github.com/krishimitra/advisory/internal/db/gorm"
	"github.com/krishimitra/advisory/internal/scheduler"
	"github.com/krishimitra/advisory/internal/server"
	"github.com/krishimitra/advisory/internal/weather"
)

var Version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("version", Version).
		Str("environment", cfg.Environment).
		Msg("Starting advisory server")

	gormLogLevel := logger.Silent
	if cfg.Environment == "development" {
		gormLogLevel = logger.Warn
	}

	store, err := db.NewStore(db.Config{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.MaxConns,
		LogLevel: gormLogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	ctx := context.Background()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		cancelPing()
		log.Fatal().Err(err).Msg("Database is not reachable")
	}
	cancelPing()

	advisor, err := assistant.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create assistant")
	}

	questionStore := db.NewQuestionStore(store)
	notificationStore := db.NewNotificationStore(store)

	svc := server.NewService(Version, cfg, server.Deps{
		Users:         db.NewUserStore(store),
		Questions:     questionStore,
		Notifications: notificationStore,
		Soil:          db.NewSoilStore(store),
		Chats:         db.NewChatStore(store),
		Advisor:       advisor,
		Weather:       weather.NewClient(cfg.OpenWeatherAPIKey, ""),
		DB:            store,
	})

	jobs, err := scheduler.New(scheduler.Config{
		Questions:     questionStore,
		Notifications: notificationStore,
		Maintainer:    store,
		Notifier:      svc.Broadcaster(),
		ReminderSpec:  cfg.ReminderCronSpec,
		ReminderAge:   cfg.ReminderAge,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	jobs.Start()

	if err := svc.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	jobs.Stop()
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}
