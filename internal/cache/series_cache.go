package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/models"
)

// SeriesStore is the persistent layer behind SeriesCache
type SeriesStore interface {
	GetSeries(ctx context.Context, siteName, date string) (*models.SeriesRecord, error)
	SaveSeries(ctx context.Context, record models.SeriesRecord) error
	SaveSeriesBatch(ctx context.Context, records []models.SeriesRecord) error
}

// SeriesCache provides a two-layer cache of fetched series using LRU and DynamoDB.
// Records are immutable once stored; callers must not modify a returned record.
type SeriesCache struct {
	lru          *lru.Cache[string, *models.SeriesRecord]
	useLRU       bool
	store        SeriesStore
	clock        clock.Clock
	freshness    time.Duration
	lruHits      atomic.Uint64
	lruMisses    atomic.Uint64
	dynamoHits   atomic.Uint64
	dynamoMisses atomic.Uint64
}

// NewSeriesCache builds the cache. store may be nil to keep records in memory only.
func NewSeriesCache(cacheConfig *config.CacheConfig, store SeriesStore, clk clock.Clock) (*SeriesCache, error) {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	if clk == nil {
		clk = clock.System()
	}

	size := cacheConfig.SeriesLRUSize
	if !cacheConfig.EnableLRUCache || size <= 0 {
		// golang-lru rejects a zero size
		size = 1
	}

	lruCache, err := lru.New[string, *models.SeriesRecord](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	if !cacheConfig.EnableDynamoCache {
		store = nil
	}

	return &SeriesCache{
		lru:       lruCache,
		useLRU:    cacheConfig.EnableLRUCache,
		store:     store,
		clock:     clk,
		freshness: cacheConfig.GetSeriesFreshness(),
	}, nil
}

// getCacheKey generates a unique cache key for a site and date
func getCacheKey(siteName, date string) string {
	return fmt.Sprintf("%s:%s", siteName, date)
}

// DateKey formats the site-local calendar date of t
func DateKey(site models.Site, t time.Time) string {
	return t.In(site.Location()).Format(time.DateOnly)
}

// IsFresh reports whether the record is young enough to use without re-fetching
func (c *SeriesCache) IsFresh(record *models.SeriesRecord) bool {
	return record != nil && record.Age(c.clock.Now()) < c.freshness
}

// GetSeries returns the newest record held by either layer and whether it is fresh.
// A stale record is still returned so callers can fall back to it.
func (c *SeriesCache) GetSeries(ctx context.Context, siteName, date string) (*models.SeriesRecord, bool, error) {
	key := getCacheKey(siteName, date)

	var cached *models.SeriesRecord
	if c.useLRU {
		cached, _ = c.lru.Get(key)
	}
	if c.IsFresh(cached) {
		c.lruHits.Add(1)
		log.Debug().Str("key", key).Msg("Series LRU cache hit")
		return cached, true, nil
	}
	c.lruMisses.Add(1)

	if c.store == nil {
		return cached, false, nil
	}

	stored, err := c.store.GetSeries(ctx, siteName, date)
	if err != nil {
		if cached != nil {
			log.Warn().Err(err).Str("key", key).Msg("DynamoDB lookup failed, using stale LRU entry")
			return cached, false, nil
		}
		return nil, false, fmt.Errorf("getting series from store: %w", err)
	}

	if stored == nil || (cached != nil && stored.FetchedAt <= cached.FetchedAt) {
		c.dynamoMisses.Add(1)
		return cached, false, nil
	}

	c.dynamoHits.Add(1)
	c.remember(key, stored)
	return stored, c.IsFresh(stored), nil
}

// SaveSeries saves a record to both layers
func (c *SeriesCache) SaveSeries(ctx context.Context, record models.SeriesRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid series record: %w", err)
	}

	stored := record
	c.remember(getCacheKey(record.SiteName, record.Date), &stored)

	if c.store == nil {
		return nil
	}

	if err := c.store.SaveSeries(ctx, record); err != nil {
		return fmt.Errorf("saving series to DynamoDB: %w", err)
	}

	return nil
}

// SaveSeriesBatch saves multiple records to both layers
func (c *SeriesCache) SaveSeriesBatch(ctx context.Context, records []models.SeriesRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid series record: %w", err)
		}
		recordCopy := record
		c.remember(getCacheKey(record.SiteName, record.Date), &recordCopy)
	}

	if c.store == nil {
		return nil
	}

	if err := c.store.SaveSeriesBatch(ctx, records); err != nil {
		return fmt.Errorf("saving series batch to DynamoDB: %w", err)
	}

	return nil
}

func (c *SeriesCache) remember(key string, record *models.SeriesRecord) {
	if c.useLRU {
		c.lru.Add(key, record)
	}
}

// GetCacheStats returns statistics about cache hits and misses
func (c *SeriesCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits.Load(),
		"lru_misses":    c.lruMisses.Load(),
		"dynamo_hits":   c.dynamoHits.Load(),
		"dynamo_misses": c.dynamoMisses.Load(),
	}
}
