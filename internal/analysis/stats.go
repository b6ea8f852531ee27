package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// topDecileMean returns the mean of prices at or above their 90th
// percentile. With fewer than 2 samples the percentile is undefined and the
// plain mean is returned; ok is false for an empty input.
func topDecileMean(prices []float64) (est float64, ok bool) {
	if len(prices) == 0 {
		return 0, false
	}
	if len(prices) < 2 {
		return prices[0], true
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	cutoff := stat.Quantile(0.9, stat.Empirical, sorted, nil)

	var sum float64
	var n int
	for _, p := range prices {
		if p >= cutoff {
			sum += p
			n++
		}
	}
	return sum / float64(n), true
}

// bottomDecileMean returns the mean of prices at or below their 10th
// percentile, with the same degeneracy rules as topDecileMean.
func bottomDecileMean(prices []float64) (est float64, ok bool) {
	if len(prices) == 0 {
		return 0, false
	}
	if len(prices) < 2 {
		return prices[0], true
	}

	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	cutoff := stat.Quantile(0.1, stat.Empirical, sorted, nil)

	var sum float64
	var n int
	for _, p := range prices {
		if p <= cutoff {
			sum += p
			n++
		}
	}
	return sum / float64(n), true
}

// TrendDirection classifies the OLS slope of price against day ordinal into
// {-1, 0, +1}, with a dead zone of ±threshold to suppress noise-driven
// flips. Fewer than 2 points or a degenerate fit yields 0.
func TrendDirection(dayOrdinals, prices []float64, threshold float64) int {
	if len(prices) < 2 || len(dayOrdinals) != len(prices) {
		return 0
	}

	_, slope := stat.LinearRegression(dayOrdinals, prices, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	if slope > threshold {
		return 1
	}
	if slope < -threshold {
		return -1
	}
	return 0
}

// correlation returns the Pearson correlation of the two series, mapping the
// undefined cases (fewer than 2 points, zero variance) to 0.
func correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

// sampleStdDev returns the sample standard deviation, 0 below 2 points.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sd := stat.StdDev(xs, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}

// dayOrdinal converts a UTC date to a whole-day count usable as a
// regression abscissa.
func dayOrdinal(unixSeconds int64) float64 {
	return float64(unixSeconds / 86400)
}
