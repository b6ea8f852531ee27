// Command train runs one model training pass and exits. It exists so
// training can be driven by an external scheduler or run by hand after a
// history backfill, without touching the daemon.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/evetools/marketpulse/internal/config"
	"github.com/evetools/marketpulse/internal/database"
	"github.com/evetools/marketpulse/internal/forecast"
	"github.com/evetools/marketpulse/internal/store"
	"github.com/evetools/marketpulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketd.local.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting training run", "version", version.Version)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	artifacts, err := forecast.NewFileStore(cfg.Forecast.ModelDir)
	if err != nil {
		logger.Error("failed to open model store", "error", err)
		os.Exit(1)
	}

	history := store.NewHistory(pool, logger)
	trainer := forecast.NewTrainer(forecast.TrainerConfig{
		TrainConfig: forecast.TrainConfig{
			MinHistoryDays: cfg.Forecast.MinHistoryDays,
			TrainSplit:     cfg.Forecast.TrainSplit,
		},
		HistoryFetchDays: cfg.Forecast.HistoryFetchDays,
	}, history, history, artifacts, logger)

	if err := trainer.TrainAll(ctx); err != nil {
		logger.Error("training run failed", "error", err)
		os.Exit(1)
	}
}
