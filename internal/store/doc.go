// Package store implements the repositories over PostgreSQL.
//
// Write phases are strictly sequential and transactional per phase:
// the snapshot replace runs as TRUNCATE + bulk copy in one transaction, the
// polled upsert commits before eviction runs, and the retention purge is a
// single DELETE. Watermarks are written by callers only after the
// corresponding data write has committed.
package store
