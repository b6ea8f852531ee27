// Package ingest implements the Ingestion Reconciler.
//
// Three flows, all idempotent and safe to re-run:
//   - Snapshot flow: Last-Modified gate against the watermark, then a full
//     replace of the order table from the bulk bz2 dump.
//   - Polled flow: per-region page-through of the live-order API, upsert by
//     order id, then eviction of stale rows in successfully polled regions.
//   - History flow: date-gap window against an availability manifest, per-day
//     concurrent fetch, upsert keyed on (item, region, date).
//
// Fetch, decompression and parse failures degrade freshness, never
// correctness: parsing completes fully in memory before any write, and
// watermarks advance only after the corresponding write commits. The
// reconciler must not be invoked concurrently with itself.
package ingest
