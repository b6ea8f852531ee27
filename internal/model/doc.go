// Package model defines shared data types used across the market pipeline.
//
// All types mirror the persisted schema (see internal/database/schema.go).
//
// Conventions:
//   - Prices: float64 ISK
//   - History dates: time.Time at UTC midnight
//   - IDs: int64 for orders/locations, int64 for regions, int64 for item types
package model
