package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/evetools/marketpulse/internal/model"
)

// OrderSource provides the current order book. Implemented by *store.Orders.
type OrderSource interface {
	ForRegion(ctx context.Context, regionID int64) ([]model.MarketOrder, error)
}

// HistorySource provides daily history. Implemented by *store.History.
type HistorySource interface {
	ForRegionSince(ctx context.Context, regionID int64, since time.Time) ([]model.HistoryRecord, error)
}

// ResultSink stores ranked snapshots. Implemented by *store.Analysis.
type ResultSink interface {
	ReplaceRegion(ctx context.Context, regionID int64, rows []model.AnalysisResult) error
}

// Config holds analysis engine settings.
type Config struct {
	BrokerFee      float64 // fraction taken by the broker on a sale
	TransactionTax float64 // fraction taken as transaction tax
	WindowDays     int     // history window for volume/volatility/trend
	TrendThreshold float64 // slope dead zone for trend classification
	Regions        []int64 // regions analyzed by RunAll
}

// Engine computes profitability metrics from orders and history.
type Engine struct {
	cfg     Config
	orders  OrderSource
	history HistorySource
	results ResultSink
	logger  *slog.Logger

	now func() time.Time
}

// New creates an Engine.
func New(cfg Config, orders OrderSource, history HistorySource, results ResultSink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		orders:  orders,
		history: history,
		results: results,
		logger:  logger,
		now:     time.Now,
	}
}

// itemSeries accumulates per-item inputs before scoring.
type itemSeries struct {
	buyPrices  []float64
	sellPrices []float64

	// history, ordered by date after sorting
	dates   []float64 // day ordinals
	prices  []float64 // daily average price
	volumes []float64 // daily traded volume
}

// AnalyzeRegion computes the ranked profitability set for one region.
// Items missing a buy estimate, a sell estimate or volume data are excluded;
// only items with strictly positive profit per unit are retained, sorted
// descending by profit score.
func (e *Engine) AnalyzeRegion(ctx context.Context, regionID int64) ([]model.AnalysisResult, error) {
	orders, err := e.orders.ForRegion(ctx, regionID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	since := e.now().UTC().AddDate(0, 0, -e.cfg.WindowDays)
	history, err := e.history.ForRegionSince(ctx, regionID, since)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	items := make(map[int64]*itemSeries)
	series := func(typeID int64) *itemSeries {
		s, ok := items[typeID]
		if !ok {
			s = &itemSeries{}
			items[typeID] = s
		}
		return s
	}

	for _, o := range orders {
		s := series(o.TypeID)
		if o.IsBuyOrder {
			s.buyPrices = append(s.buyPrices, o.Price)
		} else {
			s.sellPrices = append(s.sellPrices, o.Price)
		}
	}

	// History rows arrive unordered; sort per item so the trend regression
	// sees a consistent series.
	byItem := make(map[int64][]model.HistoryRecord)
	for _, h := range history {
		byItem[h.TypeID] = append(byItem[h.TypeID], h)
	}
	for typeID, recs := range byItem {
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })
		s := series(typeID)
		for _, h := range recs {
			s.dates = append(s.dates, dayOrdinal(h.Date.Unix()))
			s.prices = append(s.prices, h.Average)
			s.volumes = append(s.volumes, float64(h.Volume))
		}
	}

	computedAt := e.now().UTC()
	var results []model.AnalysisResult
	for typeID, s := range items {
		row, ok := e.score(typeID, regionID, s, computedAt)
		if ok {
			results = append(results, row)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ProfitScore > results[j].ProfitScore
	})
	return results, nil
}

// score derives the metrics for one item, reporting ok=false when a required
// input is missing or the item is not profitable.
func (e *Engine) score(typeID, regionID int64, s *itemSeries, computedAt time.Time) (model.AnalysisResult, bool) {
	buyEst, haveBuy := topDecileMean(s.buyPrices)
	sellEst, haveSell := bottomDecileMean(s.sellPrices)
	if !haveBuy || !haveSell || len(s.volumes) == 0 || buyEst <= 0 {
		return model.AnalysisResult{}, false
	}

	avgVolume := mean(s.volumes)
	profit := sellEst*(1-e.cfg.TransactionTax-e.cfg.BrokerFee) - buyEst
	if profit <= 0 {
		return model.AnalysisResult{}, false
	}
	roi := profit / buyEst * 100

	return model.AnalysisResult{
		TypeID:                 typeID,
		RegionID:               regionID,
		AvgBuyPrice:            buyEst,
		AvgSellPrice:           sellEst,
		ProfitPerUnit:          profit,
		ROIPercent:             roi,
		AvgDailyVolume:         avgVolume,
		Volatility30D:          sampleStdDev(s.prices),
		TrendDirection:         TrendDirection(s.dates, s.prices, e.cfg.TrendThreshold),
		PriceVolumeCorrelation: correlation(s.prices, s.volumes),
		ProfitScore:            roi * math.Log1p(avgVolume),
		ComputedAt:             computedAt,
	}, true
}

// RunAll analyzes every configured region and replaces the stored snapshots.
func (e *Engine) RunAll(ctx context.Context) error {
	start := e.now()
	var firstErr error

	for _, regionID := range e.cfg.Regions {
		rows, err := e.AnalyzeRegion(ctx, regionID)
		if err != nil {
			e.logger.Error("region analysis failed", "region_id", regionID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := e.results.ReplaceRegion(ctx, regionID, rows); err != nil {
			e.logger.Error("region analysis store failed", "region_id", regionID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.logger.Info("region analyzed",
			"region_id", regionID,
			"profitable_items", len(rows),
		)
	}

	e.logger.Info("analysis run complete",
		"regions", len(e.cfg.Regions),
		"duration", time.Since(start),
	)
	return firstErr
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
