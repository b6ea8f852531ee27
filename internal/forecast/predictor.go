package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/evetools/marketpulse/internal/model"
)

// Null-prediction reasons. These travel to the caller, so they stay stable.
const (
	ReasonNoModel            = "no trained model for pair"
	ReasonInsufficientData   = "insufficient recent history"
	ReasonIncompleteFeatures = "incomplete feature window"
)

// spreadFactor scales 7-day volatility into the half-width of the predicted
// buy/sell band.
const spreadFactor = 0.5

// Predictor serves next-day price predictions from stored artifacts.
type Predictor struct {
	cfg       TrainerConfig
	series    SeriesSource
	artifacts ArtifactStore
	logger    *slog.Logger

	now func() time.Time
}

// NewPredictor creates a Predictor.
func NewPredictor(cfg TrainerConfig, series SeriesSource, artifacts ArtifactStore, logger *slog.Logger) *Predictor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Predictor{
		cfg:       cfg,
		series:    series,
		artifacts: artifacts,
		logger:    logger,
		now:       time.Now,
	}
}

// Predict forecasts the next day's buy/sell band for one pair. Missing
// models and thin history produce a null prediction carrying the reason;
// only a failing history store is an error.
func (p *Predictor) Predict(ctx context.Context, typeID, regionID int64) (model.Prediction, error) {
	pred := model.Prediction{TypeID: typeID, RegionID: regionID}

	m, err := p.artifacts.Get(typeID, regionID)
	if errors.Is(err, ErrModelNotFound) {
		pred.Reason = ReasonNoModel
		return pred, nil
	}
	if err != nil {
		p.logger.Warn("model artifact unreadable",
			"type_id", typeID,
			"region_id", regionID,
			"error", err,
		)
		pred.Reason = ReasonNoModel
		return pred, nil
	}

	since := p.now().UTC().AddDate(0, 0, -p.cfg.HistoryFetchDays)
	recs, err := p.series.ForPair(ctx, typeID, regionID, since)
	if err != nil {
		return pred, fmt.Errorf("load history for %d/%d: %w", typeID, regionID, err)
	}
	if len(recs) < p.cfg.MinHistoryDays {
		pred.Reason = ReasonInsufficientData
		return pred, nil
	}

	rows := BuildFeatures(recs, p.cfg.MinHistoryDays, ModeInference)
	if len(rows) == 0 {
		pred.Reason = ReasonIncompleteFeatures
		return pred, nil
	}
	latest := rows[len(rows)-1]

	mid, err := m.Predict(latest.Vector())
	if err != nil {
		p.logger.Warn("stored model incompatible",
			"type_id", typeID,
			"region_id", regionID,
			"error", err,
		)
		pred.Reason = ReasonNoModel
		return pred, nil
	}

	spread := spreadFactor * latest.Volatility7D
	buy := mid - spread
	sell := mid + spread
	confidence := m.Confidence

	pred.BuyPrice = &buy
	pred.SellPrice = &sell
	pred.Confidence = &confidence
	pred.Date = latest.Date.AddDate(0, 0, 1)
	return pred, nil
}
