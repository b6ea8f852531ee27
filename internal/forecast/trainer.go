package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evetools/marketpulse/internal/model"
	"github.com/evetools/marketpulse/internal/store"
)

// PairSource lists pairs eligible for training. Implemented by *store.History.
type PairSource interface {
	PairsWithMinDays(ctx context.Context, minDays int) ([]store.Pair, error)
}

// SeriesSource loads one pair's history. Implemented by *store.History.
type SeriesSource interface {
	ForPair(ctx context.Context, typeID, regionID int64, since time.Time) ([]model.HistoryRecord, error)
}

// TrainerConfig holds training run settings.
type TrainerConfig struct {
	TrainConfig

	HistoryFetchDays int // trailing window of history loaded per pair
}

// Trainer fits and persists models for every eligible pair.
type Trainer struct {
	cfg       TrainerConfig
	pairs     PairSource
	series    SeriesSource
	artifacts ArtifactStore
	logger    *slog.Logger

	now func() time.Time
}

// NewTrainer creates a Trainer.
func NewTrainer(cfg TrainerConfig, pairs PairSource, series SeriesSource, artifacts ArtifactStore, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{
		cfg:       cfg,
		pairs:     pairs,
		series:    series,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// TrainAll fits one model per eligible pair. A pair that fails to train is
// logged and skipped; only listing pairs or persisting an artifact is fatal,
// since those point at the store rather than the data.
func (t *Trainer) TrainAll(ctx context.Context) error {
	start := t.now()

	pairs, err := t.pairs.PairsWithMinDays(ctx, t.cfg.MinHistoryDays)
	if err != nil {
		return fmt.Errorf("list trainable pairs: %w", err)
	}

	var trained, skipped int
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := t.trainPair(ctx, p.TypeID, p.RegionID); err != nil {
			if ctx.Err() != nil {
				return err
			}
			t.logger.Warn("pair not trained",
				"type_id", p.TypeID,
				"region_id", p.RegionID,
				"error", err,
			)
			skipped++
			continue
		}
		trained++
	}

	t.logger.Info("training run complete",
		"pairs", len(pairs),
		"trained", trained,
		"skipped", skipped,
		"duration", time.Since(start),
	)
	return nil
}

func (t *Trainer) trainPair(ctx context.Context, typeID, regionID int64) error {
	since := t.now().UTC().AddDate(0, 0, -t.cfg.HistoryFetchDays)
	recs, err := t.series.ForPair(ctx, typeID, regionID, since)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	m, err := Train(typeID, regionID, recs, t.cfg.TrainConfig, t.now())
	if err != nil {
		return err
	}
	if err := t.artifacts.Put(m); err != nil {
		return err
	}

	t.logger.Debug("model trained",
		"type_id", typeID,
		"region_id", regionID,
		"samples", m.Samples,
		"confidence", m.Confidence,
	)
	return nil
}
