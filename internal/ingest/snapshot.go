package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/evetools/marketpulse/internal/store"
)

// SyncOrderSnapshot runs the full-replace flow against the bulk order dump.
//
// The remote Last-Modified is compared to the stored watermark; the download
// is skipped when the remote is not newer. An inconclusive check (failed HEAD
// or missing header) falls through to downloading. The watermark is advanced
// only after the replace commits.
func (r *Reconciler) SyncOrderSnapshot(ctx context.Context, logger *slog.Logger) error {
	logger.Info("checking order snapshot freshness", "url", r.cfg.SnapshotURL)

	remote, haveRemote, err := r.fetcher.LastModified(ctx, r.cfg.SnapshotURL)
	if err != nil {
		logger.Warn("snapshot freshness check failed, downloading anyway", "error", err)
	} else if !haveRemote {
		logger.Warn("snapshot has no Last-Modified header, downloading anyway")
	}

	if haveRemote {
		if raw, found, err := r.watermark.Get(ctx, store.KeyOrdersLastModified); err != nil {
			logger.Warn("watermark read failed, downloading anyway", "error", err)
		} else if found {
			stored, perr := time.Parse(time.RFC3339, raw)
			if perr == nil && !remote.After(stored) {
				logger.Info("order snapshot is up to date", "last_modified", stored)
				return nil
			}
		}
	}

	data, err := r.fetcher.FetchBytes(ctx, r.cfg.SnapshotURL)
	if err != nil {
		logger.Warn("order snapshot download failed", "error", err)
		return nil
	}

	orders, err := parseOrdersBz2(data, r.now().UTC())
	if err != nil {
		logger.Error("order snapshot unusable", "error", err)
		return nil
	}

	if err := r.orders.ReplaceAll(ctx, orders); err != nil {
		return err
	}
	logger.Info("order snapshot replaced", "orders", len(orders))

	if haveRemote {
		if err := r.watermark.Set(ctx, store.KeyOrdersLastModified, remote.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
