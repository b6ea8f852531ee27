// Package database provides the PostgreSQL connection pool and schema
// bootstrap for the market pipeline.
//
// The relational store is the single source of truth: orders, daily history,
// watermarks and analysis snapshots all live here. Forecast artifacts are the
// one exception (see internal/forecast).
package database
