package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements creates every table and index the pipeline needs.
// All statements are idempotent so InitSchema is safe to run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS market_orders (
		order_id      BIGINT PRIMARY KEY,
		type_id       BIGINT NOT NULL,
		region_id     BIGINT NOT NULL,
		location_id   BIGINT NOT NULL,
		system_id     BIGINT NOT NULL DEFAULT 0,
		volume_total  BIGINT NOT NULL,
		volume_remain BIGINT NOT NULL,
		min_volume    BIGINT NOT NULL DEFAULT 1,
		price         DOUBLE PRECISION NOT NULL,
		is_buy_order  BOOLEAN NOT NULL,
		duration      INT NOT NULL DEFAULT 0,
		issued        TIMESTAMPTZ NOT NULL,
		order_range   VARCHAR(32) NOT NULL DEFAULT '',
		retrieved_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_market_orders_type_region
		ON market_orders (type_id, region_id)`,
	`CREATE INDEX IF NOT EXISTS idx_market_orders_region_retrieved
		ON market_orders (region_id, retrieved_at)`,

	`CREATE TABLE IF NOT EXISTS market_history (
		type_id            BIGINT NOT NULL,
		region_id          BIGINT NOT NULL,
		date               DATE NOT NULL,
		average            DOUBLE PRECISION NOT NULL,
		highest            DOUBLE PRECISION NOT NULL,
		lowest             DOUBLE PRECISION NOT NULL,
		order_count        BIGINT NOT NULL,
		volume             BIGINT NOT NULL,
		http_last_modified TIMESTAMPTZ,
		UNIQUE (type_id, region_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_market_history_type_region
		ON market_history (type_id, region_id)`,

	`CREATE TABLE IF NOT EXISTS pipeline_watermark (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS market_analysis (
		type_id                  BIGINT NOT NULL,
		region_id                BIGINT NOT NULL,
		avg_buy_price            DOUBLE PRECISION NOT NULL,
		avg_sell_price           DOUBLE PRECISION NOT NULL,
		profit_per_unit          DOUBLE PRECISION NOT NULL,
		roi_percent              DOUBLE PRECISION NOT NULL,
		avg_daily_volume         DOUBLE PRECISION NOT NULL,
		volatility_30d           DOUBLE PRECISION NOT NULL,
		trend_direction          INT NOT NULL,
		price_volume_correlation DOUBLE PRECISION NOT NULL,
		profit_score             DOUBLE PRECISION NOT NULL,
		computed_at              TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (type_id, region_id)
	)`,

	`CREATE TABLE IF NOT EXISTS region_names (
		region_id BIGINT PRIMARY KEY,
		name      VARCHAR(255) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS item_names (
		type_id BIGINT PRIMARY KEY,
		name    VARCHAR(255) NOT NULL
	)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
