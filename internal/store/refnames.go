package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evetools/marketpulse/internal/model"
)

// RefNames persists the item and region name lookups backing the
// read-through cache in internal/refdata.
type RefNames struct {
	db *pgxpool.Pool
}

// NewRefNames creates a reference-name repository.
func NewRefNames(db *pgxpool.Pool) *RefNames {
	return &RefNames{db: db}
}

// ItemNames loads every cached item name.
func (s *RefNames) ItemNames(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.Query(ctx, `SELECT type_id, name FROM item_names`)
	if err != nil {
		return nil, fmt.Errorf("load item names: %w", err)
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.TypeID, &it.Name); err != nil {
			return nil, fmt.Errorf("scan item name: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// RegionNames loads every cached region name.
func (s *RefNames) RegionNames(ctx context.Context) ([]model.Region, error) {
	rows, err := s.db.Query(ctx, `SELECT region_id, name FROM region_names`)
	if err != nil {
		return nil, fmt.Errorf("load region names: %w", err)
	}
	defer rows.Close()

	var out []model.Region
	for rows.Next() {
		var r model.Region
		if err := rows.Scan(&r.RegionID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan region name: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveItemName upserts one item name.
func (s *RefNames) SaveItemName(ctx context.Context, it model.Item) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO item_names (type_id, name)
		VALUES ($1, $2)
		ON CONFLICT (type_id) DO UPDATE SET name = EXCLUDED.name
	`, it.TypeID, it.Name)
	if err != nil {
		return fmt.Errorf("save item name %d: %w", it.TypeID, err)
	}
	return nil
}

// SaveRegionName upserts one region name.
func (s *RefNames) SaveRegionName(ctx context.Context, r model.Region) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO region_names (region_id, name)
		VALUES ($1, $2)
		ON CONFLICT (region_id) DO UPDATE SET name = EXCLUDED.name
	`, r.RegionID, r.Name)
	if err != nil {
		return fmt.Errorf("save region name %d: %w", r.RegionID, err)
	}
	return nil
}
