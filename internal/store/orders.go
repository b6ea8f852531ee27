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

// Orders persists live market orders.
type Orders struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewOrders creates an order repository.
func NewOrders(db *pgxpool.Pool, logger *slog.Logger) *Orders {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orders{db: db, logger: logger}
}

var orderColumns = []string{
	"order_id", "type_id", "region_id", "location_id", "system_id",
	"volume_total", "volume_remain", "min_volume", "price", "is_buy_order",
	"duration", "issued", "order_range", "retrieved_at",
}

func orderRow(o model.MarketOrder) []any {
	return []any{
		o.OrderID, o.TypeID, o.RegionID, o.LocationID, o.SystemID,
		o.VolumeTotal, o.VolumeRemain, o.MinVolume, o.Price, o.IsBuyOrder,
		o.Duration, o.Issued, o.Range, o.RetrievedAt,
	}
}

// ReplaceAll swaps the entire order table for the given snapshot in a single
// transaction. Correct only for a complete single-source dump.
func (s *Orders) ReplaceAll(ctx context.Context, orders []model.MarketOrder) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE TABLE market_orders`); err != nil {
		return fmt.Errorf("truncate market_orders: %w", err)
	}

	start := time.Now()
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"market_orders"},
		orderColumns,
		pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
			return orderRow(orders[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy market_orders: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	s.logger.Debug("replaced market orders",
		"rows", n,
		"duration", time.Since(start),
	)
	return nil
}

// Upsert inserts orders by id, updating the fields that can change without
// changing identity: price, remaining quantity, duration, range, freshness.
// Returns the number of pre-existing rows that were updated.
func (s *Orders) Upsert(ctx context.Context, orders []model.MarketOrder) (updated int, err error) {
	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(`
			INSERT INTO market_orders (order_id, type_id, region_id, location_id, system_id,
				volume_total, volume_remain, min_volume, price, is_buy_order,
				duration, issued, order_range, retrieved_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (order_id) DO UPDATE SET
				price         = EXCLUDED.price,
				volume_remain = EXCLUDED.volume_remain,
				duration      = EXCLUDED.duration,
				order_range   = EXCLUDED.order_range,
				retrieved_at  = EXCLUDED.retrieved_at
			RETURNING (xmax <> 0) AS updated
		`, orderRow(o)...)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range orders {
		var wasUpdate bool
		if err := results.QueryRow().Scan(&wasUpdate); err != nil {
			return 0, fmt.Errorf("upsert order: %w", err)
		}
		if wasUpdate {
			updated++
		}
	}

	return updated, nil
}

// EvictStale deletes orders within the given regions whose freshness stamp
// predates the cycle start. Only regions whose poll succeeded may be passed;
// failed regions keep their rows untouched.
func (s *Orders) EvictStale(ctx context.Context, regionIDs []int64, before time.Time) (int64, error) {
	if len(regionIDs) == 0 {
		return 0, nil
	}
	ct, err := s.db.Exec(ctx, `
		DELETE FROM market_orders
		WHERE region_id = ANY($1) AND retrieved_at < $2
	`, regionIDs, before)
	if err != nil {
		return 0, fmt.Errorf("evict stale orders: %w", err)
	}
	return ct.RowsAffected(), nil
}

// ForRegion returns the order fields the analysis engine consumes.
func (s *Orders) ForRegion(ctx context.Context, regionID int64) ([]model.MarketOrder, error) {
	rows, err := s.db.Query(ctx, `
		SELECT order_id, type_id, price, is_buy_order, volume_remain
		FROM market_orders
		WHERE region_id = $1
	`, regionID)
	if err != nil {
		return nil, fmt.Errorf("query orders for region %d: %w", regionID, err)
	}
	defer rows.Close()

	var out []model.MarketOrder
	for rows.Next() {
		o := model.MarketOrder{RegionID: regionID}
		if err := rows.Scan(&o.OrderID, &o.TypeID, &o.Price, &o.IsBuyOrder, &o.VolumeRemain); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Count returns the number of stored orders. Used for the initial-load check.
func (s *Orders) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM market_orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}
