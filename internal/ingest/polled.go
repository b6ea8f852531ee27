package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/evetools/marketpulse/internal/model"
)

// SyncOrdersPolled runs the incremental flow: page through live orders per
// region, upsert by order id, then evict rows that were present before but
// absent from this poll, restricted to regions whose poll fully succeeded.
func (r *Reconciler) SyncOrdersPolled(ctx context.Context, logger *slog.Logger) error {
	cycleStart := r.now().UTC()

	// Fetch phase: regions fan out concurrently, bounded by a semaphore.
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[int64][]model.MarketOrder)

	for _, regionID := range r.cfg.Regions {
		wg.Add(1)
		go func(regionID int64) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			url := fmt.Sprintf("%s/markets/%d/orders/?order_type=all", r.cfg.APIBaseURL, regionID)
			pages, err := r.fetcher.FetchPaged(ctx, url, r.cfg.Concurrency)
			if err != nil {
				logger.Warn("region poll failed",
					"region_id", regionID,
					"error", err,
				)
				return
			}

			var parsed []model.MarketOrder
			for i, page := range pages {
				orders, err := parseLiveOrders(page, regionID, cycleStart)
				if err != nil {
					// One bad page poisons the region: a partial book would
					// cause false eviction, so the region is skipped whole.
					logger.Warn("region page unusable, skipping region",
						"region_id", regionID,
						"page", i+1,
						"error", err,
					)
					return
				}
				parsed = append(parsed, orders...)
			}

			mu.Lock()
			results[regionID] = parsed
			mu.Unlock()
		}(regionID)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Write phase: strictly sequential. Upserts commit before eviction runs.
	successful := make([]int64, 0, len(results))
	for id := range results {
		successful = append(successful, id)
	}
	sort.Slice(successful, func(i, j int) bool { return successful[i] < successful[j] })

	var total, updated int
	for _, regionID := range successful {
		batch := results[regionID]
		if len(batch) == 0 {
			continue
		}
		n, err := r.orders.Upsert(ctx, batch)
		if err != nil {
			return fmt.Errorf("upsert orders for region %d: %w", regionID, err)
		}
		total += len(batch)
		updated += n
	}

	evicted, err := r.orders.EvictStale(ctx, successful, cycleStart)
	if err != nil {
		return fmt.Errorf("evict stale orders: %w", err)
	}

	logger.Info("polled order sync complete",
		"regions_polled", len(r.cfg.Regions),
		"regions_ok", len(successful),
		"orders", total,
		"updated", updated,
		"evicted", evicted,
	)
	return nil
}
