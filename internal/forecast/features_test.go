package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/evetools/marketpulse/internal/model"
)

func series(days int, price func(i int) float64, volume int64) []model.HistoryRecord {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	recs := make([]model.HistoryRecord, days)
	for i := range recs {
		recs[i] = model.HistoryRecord{
			TypeID:   34,
			RegionID: 1,
			Date:     base.AddDate(0, 0, i),
			Average:  price(i),
			Volume:   volume,
		}
	}
	return recs
}

func TestBuildFeatures(t *testing.T) {
	flat := func(i int) float64 { return 100 }

	t.Run("short series yields nothing", func(t *testing.T) {
		if rows := BuildFeatures(series(10, flat, 50), 30, ModeTraining); rows != nil {
			t.Errorf("rows = %d, want none for 10 days", len(rows))
		}
	})

	t.Run("training row count", func(t *testing.T) {
		// 40 days: rows start once 30 days of window exist (index 29) and the
		// last day has no next-day target, so indices 29..38 = 10 rows.
		rows := BuildFeatures(series(40, flat, 50), 30, ModeTraining)
		if len(rows) != 10 {
			t.Fatalf("rows = %d, want 10", len(rows))
		}
	})

	t.Run("flat series features", func(t *testing.T) {
		rows := BuildFeatures(series(40, flat, 50), 30, ModeTraining)
		for _, row := range rows {
			if row.AvgPrice7D != 100 || row.AvgPrice30D != 100 {
				t.Fatalf("price means = (%v, %v), want (100, 100)", row.AvgPrice7D, row.AvgPrice30D)
			}
			if row.Volume7D != 50 {
				t.Fatalf("Volume7D = %v, want 50", row.Volume7D)
			}
			if row.Volatility7D != 0 {
				t.Fatalf("Volatility7D = %v, want 0", row.Volatility7D)
			}
			if row.Target != 100 {
				t.Fatalf("Target = %v, want 100", row.Target)
			}
		}
	})

	t.Run("training targets are next-day prices", func(t *testing.T) {
		linear := func(i int) float64 { return float64(i) }
		rows := BuildFeatures(series(35, linear, 50), 30, ModeTraining)
		if len(rows) == 0 {
			t.Fatal("no rows")
		}
		for k, row := range rows {
			want := float64(29 + k + 1) // price of the day after index 29+k
			if row.Target != want {
				t.Errorf("rows[%d].Target = %v, want %v", k, row.Target, want)
			}
		}
	})

	t.Run("rising series trend", func(t *testing.T) {
		linear := func(i int) float64 { return float64(i) }
		rows := BuildFeatures(series(35, linear, 50), 30, ModeTraining)
		for _, row := range rows {
			if row.Trend != 1 {
				t.Fatalf("Trend = %v, want 1 for slope 1/day", row.Trend)
			}
		}
	})

	t.Run("inference returns only the latest row", func(t *testing.T) {
		linear := func(i int) float64 { return float64(i) }
		recs := series(40, linear, 50)
		rows := BuildFeatures(recs, 30, ModeInference)
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		if !rows[0].Date.Equal(recs[len(recs)-1].Date) {
			t.Errorf("Date = %v, want %v", rows[0].Date, recs[len(recs)-1].Date)
		}
		if rows[0].Target != 0 {
			t.Errorf("Target = %v, want 0 in inference mode", rows[0].Target)
		}
	})

	t.Run("unsorted input is handled", func(t *testing.T) {
		recs := series(40, flat, 50)
		recs[0], recs[39] = recs[39], recs[0]
		rows := BuildFeatures(recs, 30, ModeInference)
		if len(rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(rows))
		}
		want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 39)
		if !rows[0].Date.Equal(want) {
			t.Errorf("Date = %v, want %v", rows[0].Date, want)
		}
	})
}

func TestWindowStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := windowStdDev(xs, len(xs)-1, len(xs))
	want := math.Sqrt(32.0 / 7.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
}
