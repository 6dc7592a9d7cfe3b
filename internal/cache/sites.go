package cache

import (
	"sync"
	"time"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/models"
)

const DefaultSiteListTTL = 24 * time.Hour

// SiteCache holds the resolved site list in memory until it expires
type SiteCache struct {
	sites       []models.Site
	lastUpdated time.Time
	ttl         time.Duration
	clock       clock.Clock
	mu          sync.RWMutex
}

func NewSiteCache(ttl time.Duration, clk clock.Clock) *SiteCache {
	if clk == nil {
		clk = clock.System()
	}
	return &SiteCache{
		sites:       make([]models.Site, 0),
		lastUpdated: time.Time{}, // Zero time to ensure first fetch
		ttl:         ttl,
		clock:       clk,
	}
}

// GetSites returns a copy of the cached sites, or nil when expired
func (c *SiteCache) GetSites() []models.Site {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	out := make([]models.Site, len(c.sites))
	copy(out, c.sites)
	return out
}

func (c *SiteCache) SetSites(sites []models.Site) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sites = sites
	c.lastUpdated = c.clock.Now()
}

func (c *SiteCache) isExpired() bool {
	return c.lastUpdated.IsZero() || c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
