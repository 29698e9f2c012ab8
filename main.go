package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medikeep/medikeep-api/config"
	"github.com/medikeep/medikeep-api/data"
	"github.com/medikeep/medikeep-api/handlers"
	"github.com/medikeep/medikeep-api/health"
	"github.com/medikeep/medikeep-api/logging"
	"github.com/medikeep/medikeep-api/scheduler"
	"github.com/medikeep/medikeep-api/server"
	"github.com/medikeep/medikeep-api/storage"
	"github.com/medikeep/medikeep-api/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir, cfg.LogRetentionWeeks, logging.ParseLevel(cfg.LogLevel))

	store, err := openStore(cfg)
	if err != nil {
		logging.Error("Failed to open storage backend", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error("Failed to close storage", "error", err)
		}
	}()

	registry := data.NewRegistry(store)
	registry.Load(context.Background())

	// Catch up on conditions that became true while the app was not running
	registry.OnMedicinesChanged(context.Background())

	housekeeper := scheduler.NewHousekeeper(registry)
	if err := housekeeper.Start(); err != nil {
		logging.Error("Failed to start housekeeper", "error", err)
		os.Exit(1)
	}
	defer housekeeper.Stop()

	handler := handlers.New(registry, validation.New())
	checker := health.NewChecker(registry)
	srv := server.NewServer(cfg, handler, checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
	}
}

// openStore builds the configured persistence backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return storage.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendMemory:
		logging.Warn("Using in-memory storage, data will not survive restarts")
		return storage.NewMemoryStore(), nil
	default:
		return storage.OpenBadger(cfg.BadgerDir)
	}
}
