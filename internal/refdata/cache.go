package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/evetools/marketpulse/internal/model"
)

// Store is the persistent side of the cache. Implemented by *store.RefNames.
type Store interface {
	ItemNames(ctx context.Context) ([]model.Item, error)
	RegionNames(ctx context.Context) ([]model.Region, error)
	SaveItemName(ctx context.Context, it model.Item) error
	SaveRegionName(ctx context.Context, r model.Region) error
}

// LoaderFunc resolves one unknown id to a display name, typically against
// the upstream API. Returning an error leaves the id unresolved this time.
type LoaderFunc func(ctx context.Context, id int64) (string, error)

// Cache is a read-through name cache backed by a Store.
type Cache struct {
	store  Store
	logger *slog.Logger

	// loaders are optional; without them a miss simply returns ok=false.
	itemLoader   LoaderFunc
	regionLoader LoaderFunc

	mu      sync.RWMutex
	items   map[int64]string
	regions map[int64]string
}

// Option configures a Cache.
type Option func(*Cache)

// WithItemLoader resolves unknown item ids on a cache miss.
func WithItemLoader(fn LoaderFunc) Option {
	return func(c *Cache) { c.itemLoader = fn }
}

// WithRegionLoader resolves unknown region ids on a cache miss.
func WithRegionLoader(fn LoaderFunc) Option {
	return func(c *Cache) { c.regionLoader = fn }
}

// New creates an empty cache. Call Preload to warm it from the store.
func New(store Store, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:   store,
		logger:  logger,
		items:   make(map[int64]string),
		regions: make(map[int64]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Preload replaces the in-memory maps with everything the store knows.
func (c *Cache) Preload(ctx context.Context) error {
	items, err := c.store.ItemNames(ctx)
	if err != nil {
		return fmt.Errorf("preload item names: %w", err)
	}
	regions, err := c.store.RegionNames(ctx)
	if err != nil {
		return fmt.Errorf("preload region names: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int64]string, len(items))
	for _, it := range items {
		c.items[it.TypeID] = it.Name
	}
	c.regions = make(map[int64]string, len(regions))
	for _, r := range regions {
		c.regions[r.RegionID] = r.Name
	}

	c.logger.Info("reference names preloaded",
		"items", len(c.items),
		"regions", len(c.regions),
	)
	return nil
}

// ItemName resolves an item id, loading and writing back on a miss.
func (c *Cache) ItemName(ctx context.Context, typeID int64) (string, bool) {
	c.mu.RLock()
	name, ok := c.items[typeID]
	c.mu.RUnlock()
	if ok {
		return name, true
	}
	if c.itemLoader == nil {
		return "", false
	}

	name, err := c.itemLoader(ctx, typeID)
	if err != nil {
		c.logger.Warn("item name lookup failed", "type_id", typeID, "error", err)
		return "", false
	}

	c.mu.Lock()
	c.items[typeID] = name
	c.mu.Unlock()

	// Write-back is best effort; the in-memory entry already serves reads.
	if err := c.store.SaveItemName(ctx, model.Item{TypeID: typeID, Name: name}); err != nil {
		c.logger.Warn("item name write-back failed", "type_id", typeID, "error", err)
	}
	return name, true
}

// RegionName resolves a region id, loading and writing back on a miss.
func (c *Cache) RegionName(ctx context.Context, regionID int64) (string, bool) {
	c.mu.RLock()
	name, ok := c.regions[regionID]
	c.mu.RUnlock()
	if ok {
		return name, true
	}
	if c.regionLoader == nil {
		return "", false
	}

	name, err := c.regionLoader(ctx, regionID)
	if err != nil {
		c.logger.Warn("region name lookup failed", "region_id", regionID, "error", err)
		return "", false
	}

	c.mu.Lock()
	c.regions[regionID] = name
	c.mu.Unlock()

	if err := c.store.SaveRegionName(ctx, model.Region{RegionID: regionID, Name: name}); err != nil {
		c.logger.Warn("region name write-back failed", "region_id", regionID, "error", err)
	}
	return name, true
}
