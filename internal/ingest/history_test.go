package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/evetools/marketpulse/internal/model"
)

// dedupHistoryStore keeps one row per (type, region, date) key, mirroring the
// ON CONFLICT overwrite of the real repository, so flow tests can observe
// upsert semantics rather than raw appends.
type dedupHistoryStore struct {
	latest     time.Time
	haveLatest bool

	rows       map[string]model.HistoryRecord
	overwrites int
}

func historyKey(r model.HistoryRecord) string {
	return fmt.Sprintf("%d/%d/%s", r.TypeID, r.RegionID, r.Date.Format(dateLayout))
}

func (f *dedupHistoryStore) Upsert(ctx context.Context, recs []model.HistoryRecord) (int, error) {
	if f.rows == nil {
		f.rows = make(map[string]model.HistoryRecord)
	}
	var overwritten int
	for _, r := range recs {
		if _, ok := f.rows[historyKey(r)]; ok {
			overwritten++
		}
		f.rows[historyKey(r)] = r
	}
	f.overwrites += overwritten
	return overwritten, nil
}

func (f *dedupHistoryStore) LatestDate(ctx context.Context) (time.Time, bool, error) {
	return f.latest, f.haveLatest, nil
}

func (f *dedupHistoryStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFetchWindow(t *testing.T) {
	today := day(2026, 8, 30)

	t.Run("resumes after latest stored date", func(t *testing.T) {
		start, end := fetchWindow(day(2026, 8, 20), true, today, 90)
		if !start.Equal(day(2026, 8, 21)) {
			t.Errorf("start = %v, want 2026-08-21", start)
		}
		if !end.Equal(day(2026, 8, 29)) {
			t.Errorf("end = %v, want 2026-08-29", end)
		}
	})

	t.Run("empty table starts one retention horizon back", func(t *testing.T) {
		start, end := fetchWindow(time.Time{}, false, today, 90)
		if !start.Equal(today.AddDate(0, 0, -90)) {
			t.Errorf("start = %v, want %v", start, today.AddDate(0, 0, -90))
		}
		if !end.Equal(day(2026, 8, 29)) {
			t.Errorf("end = %v, want 2026-08-29", end)
		}
	})

	t.Run("up to date yields inverted window", func(t *testing.T) {
		start, end := fetchWindow(day(2026, 8, 29), true, today, 90)
		if !start.After(end) {
			t.Errorf("window [%v, %v] should be empty", start, end)
		}
	})
}

func TestSyncHistory(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	dayURL := func(cfg Config, d time.Time) string {
		return fmt.Sprintf("%s/%d/market-history-%s.csv.bz2", cfg.HistoryBaseURL, d.Year(), d.Format(dateLayout))
	}

	t.Run("fetches manifest-listed days and upserts", func(t *testing.T) {
		cfg := testConfig()
		target := day(2026, 8, 28)
		fetcher := &fakeFetcher{bodies: map[string][]byte{
			cfg.TotalsURL:       []byte(`{"2026-08-28": 123456}`),
			dayURL(cfg, target): historyBz2,
		}}
		history := &fakeHistoryStore{latest: day(2026, 8, 27), haveLatest: true}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("SyncHistory: %v", err)
		}
		if len(history.upserted) != 1 {
			t.Fatalf("records = %d, want 1", len(history.upserted))
		}
		rec := history.upserted[0]
		if rec.TypeID != 34 || rec.RegionID != 10000002 {
			t.Errorf("record = %+v", rec)
		}
		if !rec.Date.Equal(target) {
			t.Errorf("Date = %v, want %v", rec.Date, target)
		}
		if rec.Volume != 123456 {
			t.Errorf("Volume = %d, want 123456", rec.Volume)
		}
	})

	t.Run("republished day overwrites in place", func(t *testing.T) {
		cfg := testConfig()
		target := day(2026, 8, 28)
		fetcher := &fakeFetcher{bodies: map[string][]byte{
			cfg.TotalsURL:       []byte(`{"2026-08-28": 123456}`),
			dayURL(cfg, target): historyBz2,
		}}
		history := &dedupHistoryStore{latest: day(2026, 8, 27), haveLatest: true}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("first SyncHistory: %v", err)
		}
		if len(history.rows) != 1 {
			t.Fatalf("rows after first sync = %d, want 1", len(history.rows))
		}

		// Upstream republishes the same day with corrected figures. The
		// stored max date has not advanced past it, so the next cycle
		// re-fetches and must overwrite rather than duplicate.
		fetcher.bodies[dayURL(cfg, target)] = historyRevisedBz2

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("second SyncHistory: %v", err)
		}
		if len(history.rows) != 1 {
			t.Fatalf("rows after re-ingestion = %d, want 1", len(history.rows))
		}
		if history.overwrites != 1 {
			t.Errorf("overwrites = %d, want 1", history.overwrites)
		}

		rec := history.rows[historyKey(model.HistoryRecord{TypeID: 34, RegionID: 10000002, Date: target})]
		if math.Abs(rec.Average-6.4) > 1e-9 {
			t.Errorf("Average = %v, want the republished 6.4", rec.Average)
		}
		if rec.Volume != 150000 {
			t.Errorf("Volume = %d, want the republished 150000", rec.Volume)
		}
	})

	t.Run("unlisted days are not fetched", func(t *testing.T) {
		cfg := testConfig()
		fetcher := &fakeFetcher{bodies: map[string][]byte{
			cfg.TotalsURL: []byte(`{}`),
		}}
		history := &fakeHistoryStore{latest: day(2026, 8, 25), haveLatest: true}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("SyncHistory: %v", err)
		}
		if len(history.upserted) != 0 {
			t.Errorf("records = %d, want 0", len(history.upserted))
		}
		if got := len(fetcher.fetched); got != 1 { // just the manifest
			t.Errorf("fetches = %d, want 1", got)
		}
	})

	t.Run("failed day is skipped without failing the cycle", func(t *testing.T) {
		cfg := testConfig()
		good := day(2026, 8, 28)
		bad := day(2026, 8, 27)
		fetcher := &fakeFetcher{
			bodies: map[string][]byte{
				cfg.TotalsURL:     []byte(`{"2026-08-27": 1, "2026-08-28": 1}`),
				dayURL(cfg, good): historyBz2,
			},
			errs: map[string]error{dayURL(cfg, bad): errors.New("404")},
		}
		history := &fakeHistoryStore{latest: day(2026, 8, 26), haveLatest: true}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("SyncHistory: %v", err)
		}
		if len(history.upserted) != 1 {
			t.Errorf("records = %d, want 1 from the good day", len(history.upserted))
		}
	})

	t.Run("manifest failure degrades to no-op", func(t *testing.T) {
		cfg := testConfig()
		fetcher := &fakeFetcher{errs: map[string]error{cfg.TotalsURL: errors.New("503")}}
		history := &fakeHistoryStore{latest: day(2026, 8, 26), haveLatest: true}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err != nil {
			t.Fatalf("SyncHistory: %v", err)
		}
		if len(history.upserted) != 0 {
			t.Errorf("records = %d, want 0", len(history.upserted))
		}
	})

	t.Run("latest-date failure is fatal", func(t *testing.T) {
		cfg := testConfig()
		history := &fakeHistoryStore{latestErr: errors.New("db down")}
		r := newTestReconciler(cfg, &fakeFetcher{}, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("upsert failure is fatal", func(t *testing.T) {
		cfg := testConfig()
		target := day(2026, 8, 28)
		fetcher := &fakeFetcher{bodies: map[string][]byte{
			cfg.TotalsURL:       []byte(`{"2026-08-28": 1}`),
			dayURL(cfg, target): historyBz2,
		}}
		history := &fakeHistoryStore{
			latest: day(2026, 8, 27), haveLatest: true,
			upsertErr: errors.New("db down"),
		}
		r := newTestReconciler(cfg, fetcher, &fakeOrderStore{}, history, &fakeWatermark{}, now)

		if err := r.SyncHistory(context.Background(), quietLogger()); err == nil {
			t.Fatal("expected error")
		}
	})
}
