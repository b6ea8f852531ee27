package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/evetools/marketpulse/internal/model"
)

const dateLayout = "2006-01-02"

// fetchWindow computes the inclusive [start, end] date range to fetch.
// Resumes from the day after the latest stored date, or starts one retention
// horizon back when the table is empty. The end is yesterday: today's file
// can still be partial upstream.
func fetchWindow(latest time.Time, haveLatest bool, today time.Time, retentionDays int) (start, end time.Time) {
	end = today.AddDate(0, 0, -1)
	if haveLatest {
		start = latest.AddDate(0, 0, 1)
	} else {
		start = today.AddDate(0, 0, -retentionDays)
	}
	return start, end
}

// SyncHistory runs the daily-history flow: compute the gap window, consult
// the availability manifest, fetch the listed days concurrently, and upsert.
// A day that fails to fetch or parse is skipped; it is reconsidered next
// cycle because the stored max date only advances past persisted days.
func (r *Reconciler) SyncHistory(ctx context.Context, logger *slog.Logger) error {
	latest, haveLatest, err := r.history.LatestDate(ctx)
	if err != nil {
		return err
	}

	today := r.today()
	start, end := fetchWindow(latest, haveLatest, today, r.cfg.RetentionDays)
	if start.After(end) {
		logger.Info("market history is up to date")
		return nil
	}

	manifest, err := r.fetcher.FetchBytes(ctx, r.cfg.TotalsURL)
	if err != nil {
		logger.Warn("history availability manifest fetch failed", "error", err)
		return nil
	}

	var totals map[string]int64
	if err := json.Unmarshal(manifest, &totals); err != nil {
		logger.Error("history availability manifest unusable", "error", err)
		return nil
	}

	var wanted []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := totals[d.Format(dateLayout)]; ok {
			wanted = append(wanted, d)
		}
	}
	if len(wanted) == 0 {
		logger.Info("no new history files available",
			"from", start.Format(dateLayout),
			"to", end.Format(dateLayout),
		)
		return nil
	}

	logger.Info("fetching history files",
		"days", len(wanted),
		"from", wanted[0].Format(dateLayout),
		"to", wanted[len(wanted)-1].Format(dateLayout),
	)

	// Per-day fan-out; a failed day is dropped without affecting siblings.
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var recs []model.HistoryRecord
	var failed int

	for _, day := range wanted {
		wg.Add(1)
		go func(day time.Time) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			url := fmt.Sprintf("%s/%d/market-history-%s.csv.bz2",
				r.cfg.HistoryBaseURL, day.Year(), day.Format(dateLayout))

			data, err := r.fetcher.FetchBytes(ctx, url)
			if err != nil {
				logger.Warn("history day fetch failed", "date", day.Format(dateLayout), "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			dayRecs, err := parseHistoryBz2(data)
			if err != nil {
				logger.Warn("history day unusable", "date", day.Format(dateLayout), "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			recs = append(recs, dayRecs...)
			mu.Unlock()
		}(day)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(recs) == 0 {
		logger.Info("no new history records to store", "failed_days", failed)
		return nil
	}

	overwritten, err := r.history.Upsert(ctx, recs)
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}

	logger.Info("history sync complete",
		"records", len(recs),
		"overwritten", overwritten,
		"failed_days", failed,
	)
	return nil
}
