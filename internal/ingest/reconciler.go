package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/evetools/marketpulse/internal/config"
	"github.com/evetools/marketpulse/internal/model"
	"github.com/evetools/marketpulse/internal/store"
)

// Fetcher retrieves remote datasets. Implemented by *fetch.Client.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	LastModified(ctx context.Context, url string) (time.Time, bool, error)
	FetchPaged(ctx context.Context, url string, concurrency int) ([][]byte, error)
}

// OrderStore persists live orders. Implemented by *store.Orders.
type OrderStore interface {
	ReplaceAll(ctx context.Context, orders []model.MarketOrder) error
	Upsert(ctx context.Context, orders []model.MarketOrder) (int, error)
	EvictStale(ctx context.Context, regionIDs []int64, before time.Time) (int64, error)
}

// HistoryStore persists daily history. Implemented by *store.History.
type HistoryStore interface {
	Upsert(ctx context.Context, recs []model.HistoryRecord) (int, error)
	LatestDate(ctx context.Context) (time.Time, bool, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// WatermarkStore records pipeline freshness state. Implemented by *store.Watermark.
type WatermarkStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Config holds reconciler settings.
type Config struct {
	Strategy       string  // config.StrategyFullReplace or config.StrategyIncrementalUpsert
	Regions        []int64 // regions polled by the incremental strategy
	RetentionDays  int     // history retention horizon
	Concurrency    int     // max concurrent fetches per cycle
	SnapshotURL    string
	HistoryBaseURL string
	TotalsURL      string
	APIBaseURL     string
}

// Reconciler drives one ingestion cycle: orders, history, retention.
type Reconciler struct {
	cfg       Config
	fetcher   Fetcher
	orders    OrderStore
	history   HistoryStore
	watermark WatermarkStore
	logger    *slog.Logger

	now func() time.Time // injectable for tests
}

// New creates a Reconciler.
func New(cfg Config, fetcher Fetcher, orders OrderStore, history HistoryStore, watermark WatermarkStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Reconciler{
		cfg:       cfg,
		fetcher:   fetcher,
		orders:    orders,
		history:   history,
		watermark: watermark,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one full ingestion cycle. Fetch-side failures degrade to
// "no new data"; only persistence failures surface as errors. The retention
// purge runs regardless of what happened earlier in the cycle.
func (r *Reconciler) Run(ctx context.Context) error {
	cycleID := uuid.New().String()
	logger := r.logger.With("cycle_id", cycleID)
	start := r.now()

	logger.Info("ingestion cycle started", "strategy", r.cfg.Strategy)

	var firstErr error

	switch r.cfg.Strategy {
	case config.StrategyIncrementalUpsert:
		if err := r.SyncOrdersPolled(ctx, logger); err != nil {
			firstErr = err
		}
	default:
		if err := r.SyncOrderSnapshot(ctx, logger); err != nil {
			firstErr = err
		}
	}

	if err := r.SyncHistory(ctx, logger); err != nil && firstErr == nil {
		firstErr = err
	}

	// Retention is unconditional so storage stays bounded even when fetches
	// repeatedly fail.
	cutoff := r.today().AddDate(0, 0, -r.cfg.RetentionDays)
	purged, err := r.history.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		if firstErr == nil {
			firstErr = err
		}
		logger.Error("retention purge failed", "error", err)
	} else if purged > 0 {
		logger.Info("purged old history", "rows", purged, "cutoff", cutoff.Format(dateLayout))
	}

	status := "ok"
	if firstErr != nil {
		status = "error: " + firstErr.Error()
	}
	r.recordRun(ctx, cycleID, status, logger)

	logger.Info("ingestion cycle finished",
		"status", status,
		"duration", r.now().Sub(start),
	)
	return firstErr
}

// recordRun writes the cycle outcome to the watermark store, best effort.
func (r *Reconciler) recordRun(ctx context.Context, cycleID, status string, logger *slog.Logger) {
	for key, value := range map[string]string{
		store.KeyLastRunID:     cycleID,
		store.KeyLastRunAt:     r.now().UTC().Format(time.RFC3339),
		store.KeyLastRunStatus: status,
	} {
		if err := r.watermark.Set(ctx, key, value); err != nil {
			logger.Warn("failed to record run state", "key", key, "error", err)
		}
	}
}

// today returns the current UTC calendar day at midnight.
func (r *Reconciler) today() time.Time {
	t := r.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
