package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evetools/marketpulse/internal/model"
)

// Pair identifies one (item, region) series.
type Pair struct {
	TypeID   int64
	RegionID int64
}

// History persists daily aggregated trading records.
type History struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewHistory creates a history repository.
func NewHistory(db *pgxpool.Pool, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	return &History{db: db, logger: logger}
}

// Upsert writes records keyed by (type, region, date); a republished date
// overwrites the stored row. Returns the number of conflicts overwritten.
func (s *History) Upsert(ctx context.Context, recs []model.HistoryRecord) (overwritten int, err error) {
	batch := &pgx.Batch{}
	for _, r := range recs {
		batch.Queue(`
			INSERT INTO market_history (type_id, region_id, date, average, highest, lowest,
				order_count, volume, http_last_modified)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (type_id, region_id, date) DO UPDATE SET
				average            = EXCLUDED.average,
				highest            = EXCLUDED.highest,
				lowest             = EXCLUDED.lowest,
				order_count        = EXCLUDED.order_count,
				volume             = EXCLUDED.volume,
				http_last_modified = EXCLUDED.http_last_modified
			RETURNING (xmax <> 0) AS updated
		`, r.TypeID, r.RegionID, r.Date, r.Average, r.Highest, r.Lowest,
			r.OrderCount, r.Volume, r.LastModified)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		var wasUpdate bool
		if err := results.QueryRow().Scan(&wasUpdate); err != nil {
			return 0, fmt.Errorf("upsert history: %w", err)
		}
		if wasUpdate {
			overwritten++
		}
	}

	return overwritten, nil
}

// LatestDate returns the most recent stored history date.
func (s *History) LatestDate(ctx context.Context) (time.Time, bool, error) {
	var d *time.Time
	if err := s.db.QueryRow(ctx, `SELECT MAX(date) FROM market_history`).Scan(&d); err != nil {
		return time.Time{}, false, fmt.Errorf("latest history date: %w", err)
	}
	if d == nil {
		return time.Time{}, false, nil
	}
	return *d, true, nil
}

// PurgeOlderThan deletes rows with a date before the cutoff.
func (s *History) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.db.Exec(ctx, `DELETE FROM market_history WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	return ct.RowsAffected(), nil
}

// ForRegionSince returns all records for a region on or after the given date.
func (s *History) ForRegionSince(ctx context.Context, regionID int64, since time.Time) ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT type_id, date, average, volume
		FROM market_history
		WHERE region_id = $1 AND date >= $2
	`, regionID, since)
	if err != nil {
		return nil, fmt.Errorf("query history for region %d: %w", regionID, err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		r := model.HistoryRecord{RegionID: regionID}
		if err := rows.Scan(&r.TypeID, &r.Date, &r.Average, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ForPair returns one (item, region) series ordered by date ascending.
// A zero since returns the full series.
func (s *History) ForPair(ctx context.Context, typeID, regionID int64, since time.Time) ([]model.HistoryRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, average, volume
		FROM market_history
		WHERE type_id = $1 AND region_id = $2 AND date >= $3
		ORDER BY date ASC
	`, typeID, regionID, since)
	if err != nil {
		return nil, fmt.Errorf("query history for pair (%d, %d): %w", typeID, regionID, err)
	}
	defer rows.Close()

	var out []model.HistoryRecord
	for rows.Next() {
		r := model.HistoryRecord{TypeID: typeID, RegionID: regionID}
		if err := rows.Scan(&r.Date, &r.Average, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PairsWithMinDays returns the (item, region) pairs with at least minDays of
// stored history, i.e. the pairs eligible for model training.
func (s *History) PairsWithMinDays(ctx context.Context, minDays int) ([]Pair, error) {
	rows, err := s.db.Query(ctx, `
		SELECT type_id, region_id
		FROM market_history
		GROUP BY type_id, region_id
		HAVING COUNT(date) >= $1
	`, minDays)
	if err != nil {
		return nil, fmt.Errorf("query trainable pairs: %w", err)
	}
	defer rows.Close()

	var out []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.TypeID, &p.RegionID); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
