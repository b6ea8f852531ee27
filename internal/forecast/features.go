package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/evetools/marketpulse/internal/analysis"
	"github.com/evetools/marketpulse/internal/model"
)

// Mode selects whether BuildFeatures emits training rows (with a next-day
// target) or a single inference row for the latest day.
type Mode int

const (
	ModeTraining Mode = iota
	ModeInference
)

const (
	shortWindow = 7
	longWindow  = 30

	// trendMinPoints and trendThreshold govern the trend feature: the slope
	// over the trailing window is classified only once enough points exist,
	// with a tight dead zone since daily noise dominates short windows.
	trendMinPoints = 10
	trendThreshold = 0.01
)

// FeatureRow is one day's model input, in the column order Vector returns.
type FeatureRow struct {
	Date time.Time

	AvgPrice7D   float64
	AvgPrice30D  float64
	Volume7D     float64
	Volatility7D float64
	Trend        float64 // -1, 0, +1 over the trailing 30-day window

	// Target is the next day's average price. Populated only in training
	// mode; inference rows have no lookahead.
	Target float64
}

// Vector returns the feature columns without the intercept term.
func (r FeatureRow) Vector() []float64 {
	return []float64{r.AvgPrice7D, r.AvgPrice30D, r.Volume7D, r.Volatility7D, r.Trend}
}

// numFeatures is the width of Vector. Model weights are numFeatures+1 wide
// (intercept first).
const numFeatures = 5

// BuildFeatures derives rolling-window feature rows from one pair's daily
// history. Rows whose trailing windows are not fully covered are dropped, so
// the first 30 days of a series never produce a row. In training mode each
// row also needs the following day as its target, so the final day is
// excluded; in inference mode only the latest complete row is returned.
//
// Fewer than minHistory input days yields no rows at all.
func BuildFeatures(recs []model.HistoryRecord, minHistory int, mode Mode) []FeatureRow {
	if len(recs) < minHistory || len(recs) < longWindow {
		return nil
	}

	recs = append([]model.HistoryRecord(nil), recs...)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date.Before(recs[j].Date) })

	prices := make([]float64, len(recs))
	volumes := make([]float64, len(recs))
	ordinals := make([]float64, len(recs))
	for i, rec := range recs {
		prices[i] = rec.Average
		volumes[i] = float64(rec.Volume)
		ordinals[i] = float64(rec.Date.Unix() / 86400)
	}

	rowAt := func(i int) FeatureRow {
		trendStart := i - longWindow + 1
		if trendStart < 0 {
			trendStart = 0
		}
		var trend float64
		if i-trendStart+1 >= trendMinPoints {
			trend = float64(analysis.TrendDirection(
				ordinals[trendStart:i+1], prices[trendStart:i+1], trendThreshold))
		}
		return FeatureRow{
			Date:         recs[i].Date,
			AvgPrice7D:   windowMean(prices, i, shortWindow),
			AvgPrice30D:  windowMean(prices, i, longWindow),
			Volume7D:     windowMean(volumes, i, shortWindow),
			Volatility7D: windowStdDev(prices, i, shortWindow),
			Trend:        trend,
		}
	}

	if mode == ModeInference {
		last := len(recs) - 1
		return []FeatureRow{rowAt(last)}
	}

	var rows []FeatureRow
	for i := longWindow - 1; i < len(recs)-1; i++ {
		row := rowAt(i)
		row.Target = prices[i+1]
		rows = append(rows, row)
	}
	return rows
}

// windowMean averages the trailing window ending at index i inclusive. The
// caller guarantees i+1 >= window.
func windowMean(xs []float64, i, window int) float64 {
	var sum float64
	for j := i - window + 1; j <= i; j++ {
		sum += xs[j]
	}
	return sum / float64(window)
}

// windowStdDev is the sample standard deviation over the same trailing
// window as windowMean.
func windowStdDev(xs []float64, i, window int) float64 {
	m := windowMean(xs, i, window)
	var ss float64
	for j := i - window + 1; j <= i; j++ {
		d := xs[j] - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(window-1))
}
