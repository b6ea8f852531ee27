package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evetools/marketpulse/internal/model"
)

// Analysis persists per-region profitability snapshots.
type Analysis struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewAnalysis creates an analysis repository.
func NewAnalysis(db *pgxpool.Pool, logger *slog.Logger) *Analysis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analysis{db: db, logger: logger}
}

// ReplaceRegion swaps the stored snapshot for a region with the given rows.
// Replace, not merge: a rerun with fewer profitable items must shrink the
// stored set.
func (s *Analysis) ReplaceRegion(ctx context.Context, regionID int64, rows []model.AnalysisResult) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin analysis replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM market_analysis WHERE region_id = $1`, regionID,
	); err != nil {
		return fmt.Errorf("clear analysis for region %d: %w", regionID, err)
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO market_analysis (type_id, region_id, avg_buy_price, avg_sell_price,
				profit_per_unit, roi_percent, avg_daily_volume, volatility_30d,
				trend_direction, price_volume_correlation, profit_score, computed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, r.TypeID, r.RegionID, r.AvgBuyPrice, r.AvgSellPrice,
			r.ProfitPerUnit, r.ROIPercent, r.AvgDailyVolume, r.Volatility30D,
			r.TrendDirection, r.PriceVolumeCorrelation, r.ProfitScore, r.ComputedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert analysis row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close analysis batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit analysis replace: %w", err)
	}

	s.logger.Debug("replaced analysis snapshot",
		"region_id", regionID,
		"rows", len(rows),
	)
	return nil
}
