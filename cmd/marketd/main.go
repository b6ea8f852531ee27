package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/evetools/marketpulse/internal/analysis"
	"github.com/evetools/marketpulse/internal/config"
	"github.com/evetools/marketpulse/internal/database"
	"github.com/evetools/marketpulse/internal/fetch"
	"github.com/evetools/marketpulse/internal/forecast"
	"github.com/evetools/marketpulse/internal/ingest"
	"github.com/evetools/marketpulse/internal/refdata"
	"github.com/evetools/marketpulse/internal/scheduler"
	"github.com/evetools/marketpulse/internal/store"
	"github.com/evetools/marketpulse/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketd.local.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting marketd",
		"version", version.Version,
		"commit", version.Commit,
		"instance_id", cfg.Instance.ID,
		"config", *configPath,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.InitSchema(ctx, pool); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready")

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Sources.Timeout),
		fetch.WithRetries(cfg.Sources.MaxRetries, time.Second),
		fetch.WithUserAgent(cfg.Sources.UserAgent),
		fetch.WithLogger(logger),
	)

	orders := store.NewOrders(pool, logger)
	history := store.NewHistory(pool, logger)
	results := store.NewAnalysis(pool, logger)
	watermark := store.NewWatermark(pool)
	refNames := store.NewRefNames(pool)

	names := refdata.New(refNames, logger,
		refdata.WithItemLoader(refdata.APIItemLoader(client, cfg.Sources.APIBaseURL)),
		refdata.WithRegionLoader(refdata.APIRegionLoader(client, cfg.Sources.APIBaseURL)),
	)
	if err := names.Preload(ctx); err != nil {
		logger.Error("failed to preload reference names", "error", err)
		os.Exit(1)
	}

	reconciler := ingest.New(ingest.Config{
		Strategy:       cfg.Pipeline.Strategy,
		Regions:        cfg.Pipeline.Regions,
		RetentionDays:  cfg.Pipeline.RetentionDays,
		Concurrency:    cfg.Pipeline.Concurrency,
		SnapshotURL:    cfg.Sources.SnapshotURL,
		HistoryBaseURL: cfg.Sources.HistoryBaseURL,
		TotalsURL:      cfg.Sources.TotalsURL,
		APIBaseURL:     cfg.Sources.APIBaseURL,
	}, client, orders, history, watermark, logger)

	engine := analysis.New(analysis.Config{
		BrokerFee:      cfg.Analysis.BrokerFee,
		TransactionTax: cfg.Analysis.TransactionTax,
		WindowDays:     cfg.Analysis.WindowDays,
		TrendThreshold: cfg.Analysis.TrendThreshold,
		Regions:        cfg.Pipeline.Regions,
	}, orders, history, results, logger)

	artifacts, err := forecast.NewFileStore(cfg.Forecast.ModelDir)
	if err != nil {
		logger.Error("failed to open model store", "error", err)
		os.Exit(1)
	}
	trainer := forecast.NewTrainer(forecast.TrainerConfig{
		TrainConfig: forecast.TrainConfig{
			MinHistoryDays: cfg.Forecast.MinHistoryDays,
			TrainSplit:     cfg.Forecast.TrainSplit,
		},
		HistoryFetchDays: cfg.Forecast.HistoryFetchDays,
	}, history, history, artifacts, logger)

	// A fresh database has no order book to analyze; run one cycle up front
	// instead of waiting for the first scheduled tick.
	n, err := orders.Count(ctx)
	if err != nil {
		logger.Error("failed to check order table", "error", err)
		os.Exit(1)
	}
	if n == 0 {
		logger.Info("order table empty, running initial ingestion cycle")
		if err := reconciler.Run(ctx); err != nil {
			logger.Warn("initial ingestion cycle incomplete", "error", err)
		}
	}

	sched := scheduler.New(ctx, logger)
	jobs := []struct {
		spec string
		job  scheduler.Job
	}{
		{cfg.Schedule.Pipeline, scheduler.JobFunc{JobName: "pipeline", Fn: reconciler.Run}},
		{cfg.Schedule.Analysis, scheduler.JobFunc{JobName: "analysis", Fn: engine.RunAll}},
		{cfg.Schedule.Training, scheduler.JobFunc{JobName: "training", Fn: trainer.TrainAll}},
	}
	for _, j := range jobs {
		if err := sched.AddJob(j.spec, j.job); err != nil {
			logger.Error("failed to register job", "job", j.job.Name(), "error", err)
			os.Exit(1)
		}
	}
	sched.Start()
	defer sched.Stop()

	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: healthHandler(pool, watermark),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("marketd running",
		"instance_id", cfg.Instance.ID,
		"strategy", cfg.Pipeline.Strategy,
		"regions", len(cfg.Pipeline.Regions),
	)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("marketd stopped")
}

// healthHandler reports database reachability and pipeline freshness.
func healthHandler(pool *pgxpool.Pool, watermark *store.Watermark) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"

			lastRun, ok, err := watermark.Get(ctx, store.KeyLastRunAt)
			switch {
			case err != nil:
				health.Components["pipeline"] = map[string]string{
					"status": "unknown",
					"error":  err.Error(),
				}
			case !ok:
				health.Status = "degraded"
				health.Components["pipeline"] = "never ran"
			default:
				health.Components["pipeline"] = map[string]string{
					"last_run_at": lastRun,
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
