// Package cache holds the normalized dataset for a bounded time window,
// recomputing it on expiry. The cached value is immutable once published.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"salescli/pkg/contracts/domain"
)

// DefaultTTL is the dataset validity window.
const DefaultTTL = 600 * time.Second

// Loader produces a fresh dataset for a cache key. In production this is
// fetch-and-normalize against the sheet export.
type Loader func(ctx context.Context, key Key) (domain.Dataset, error)

// Key identifies one cached dataset: the remote source and the target tab.
type Key struct {
	SheetID string
	TabName string
}

func (k Key) String() string {
	return k.SheetID + "/" + k.TabName
}

type entry struct {
	dataset   domain.Dataset
	expiresAt time.Time
}

// DatasetCache implements get-or-refresh semantics with a TTL fixed at
// construction. A failed refresh yields an empty dataset and the error; the
// previous value is discarded rather than served stale.
type DatasetCache struct {
	loader Loader
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[Key]entry
	group   singleflight.Group
}

// NewDatasetCache creates a cache around the given loader. A non-positive
// ttl falls back to DefaultTTL.
func NewDatasetCache(loader Loader, ttl time.Duration, logger *slog.Logger) *DatasetCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DatasetCache{
		loader:  loader,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "dataset_cache")),
		now:     time.Now,
		entries: make(map[Key]entry),
	}
}

// Get returns the cached dataset for key, refreshing it when absent or past
// its TTL. Concurrent refreshes for the same key are collapsed into one load.
func (c *DatasetCache) Get(ctx context.Context, key Key) (domain.Dataset, error) {
	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(cached.expiresAt) {
		return cached.dataset, nil
	}

	result, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		return c.refresh(ctx, key)
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset), nil
}

// refresh replaces the cached entry wholesale. On failure the expired value
// is evicted so a later call retries the source instead of serving stale.
func (c *DatasetCache) refresh(ctx context.Context, key Key) (domain.Dataset, error) {
	dataset, err := c.loader(ctx, key)
	if err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()

		c.logger.Error("dataset refresh failed",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
		return domain.Dataset{}, fmt.Errorf("refresh dataset %s: %w", key, err)
	}

	dataset.FetchedAt = c.now().UTC()

	c.mu.Lock()
	c.entries[key] = entry{dataset: dataset, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	c.logger.Info("dataset refreshed",
		slog.String("key", key.String()),
		slog.Int("order_count", len(dataset.Orders)),
		slog.Int("loaded_rows", dataset.LoadedRows),
		slog.Int("dropped_rows", dataset.DroppedRows))

	return dataset, nil
}
