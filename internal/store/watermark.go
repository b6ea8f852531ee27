package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Well-known watermark keys.
const (
	KeyOrdersLastModified = "market_orders_last_modified"
	KeyLastRunID          = "last_run_id"
	KeyLastRunAt          = "last_run_at"
	KeyLastRunStatus      = "last_run_status"
)

// Watermark is the pipeline metadata store: a small key/value table read
// before fetches to decide whether a re-download is necessary, and written
// only after the corresponding data write commits.
type Watermark struct {
	db *pgxpool.Pool
}

// NewWatermark creates a watermark store.
func NewWatermark(db *pgxpool.Pool) *Watermark {
	return &Watermark{db: db}
}

// Get returns the stored value for key, with ok=false when absent.
func (s *Watermark) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM pipeline_watermark WHERE key = $1`, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get watermark %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts the value for key.
func (s *Watermark) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO pipeline_watermark (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set watermark %q: %w", key, err)
	}
	return nil
}
