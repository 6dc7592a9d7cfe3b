package site

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/cache"
	"github.com/cliffcheck/beachable/internal/models"
)

const defaultNearestLimit = 5

type Finder struct {
	catalog  cache.SiteCatalogProvider
	memCache *cache.SiteCache
	validate *validator.Validate
	mu       sync.Mutex
}

var _ models.SiteFinder = (*Finder)(nil)

// NewFinder creates a finder. A nil catalog means the built-in sites are used.
func NewFinder(catalog cache.SiteCatalogProvider, memCache *cache.SiteCache) *Finder {
	if memCache == nil {
		memCache = cache.NewSiteCache(cache.DefaultSiteListTTL, nil)
	}

	return &Finder{
		catalog:  catalog,
		memCache: memCache,
		validate: validator.New(),
	}
}

// FindSite looks a site up by name, ignoring case
func (f *Finder) FindSite(ctx context.Context, name string) (*models.Site, error) {
	sites, err := f.getSiteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting site list: %w", err)
	}

	for _, s := range sites {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return &s, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, name)
}

// ListSites returns every valid site ordered by name
func (f *Finder) ListSites(ctx context.Context) ([]models.Site, error) {
	sites, err := f.getSiteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting site list: %w", err)
	}
	return sites, nil
}

func (f *Finder) FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]models.Site, error) {
	// Validate coordinates
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", lon)
	}

	sites, err := f.getSiteList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting site list: %w", err)
	}

	for i := range sites {
		sites[i].Distance = calculateDistance(lat, lon, sites[i].Latitude, sites[i].Longitude)
	}

	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Distance < sites[j].Distance
	})

	if limit <= 0 {
		limit = defaultNearestLimit
	}
	if limit > len(sites) {
		limit = len(sites)
	}

	return sites[:limit], nil
}

func (f *Finder) getSiteList(ctx context.Context) ([]models.Site, error) {
	if sites := f.memCache.GetSites(); sites != nil {
		log.Debug().Msg("Memory cache HIT for site list")
		return sites, nil
	}

	// Concurrent callers share one catalog load
	f.mu.Lock()
	defer f.mu.Unlock()

	if sites := f.memCache.GetSites(); sites != nil {
		return sites, nil
	}

	raw := DefaultSites()
	if f.catalog != nil {
		stored, err := f.catalog.GetSites(ctx)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("Error getting site catalog, using built-in sites")
			// Not cached so the next call retries the catalog
			return f.sanitize(raw), nil
		case len(stored) == 0:
			log.Warn().Msg("Site catalog is empty, seeding it with built-in sites")
			if err := f.catalog.SaveSites(ctx, f.sanitize(raw)); err != nil {
				log.Error().Err(err).Msg("Error seeding site catalog")
			}
		default:
			log.Debug().Int("site_count", len(stored)).Msg("Loaded site catalog")
			raw = stored
		}
	}

	sites := f.sanitize(raw)
	f.memCache.SetSites(sites)

	out := make([]models.Site, len(sites))
	copy(out, sites)
	return out, nil
}

// sanitize drops entries that cannot be evaluated and orders the rest by name
func (f *Finder) sanitize(raw []models.Site) []models.Site {
	seen := make(map[string]bool, len(raw))
	sites := make([]models.Site, 0, len(raw))

	for _, s := range raw {
		s.Name = strings.TrimSpace(s.Name)
		s.Distance = 0

		if err := f.check(s); err != nil {
			log.Warn().Err(NewConfigurationError(s.Name, err)).Msg("Skipping site")
			continue
		}

		key := strings.ToLower(s.Name)
		if seen[key] {
			log.Warn().Err(NewConfigurationError(s.Name, fmt.Errorf("duplicate name"))).Msg("Skipping site")
			continue
		}
		seen[key] = true
		sites = append(sites, s)
	}

	sort.Slice(sites, func(i, j int) bool {
		return sites[i].Name < sites[j].Name
	})
	return sites
}

func (f *Finder) check(s models.Site) error {
	if err := f.validate.Struct(s); err != nil {
		return err
	}
	if math.IsNaN(s.Threshold) || math.IsInf(s.Threshold, 0) {
		return fmt.Errorf("threshold must be a finite number")
	}
	return nil
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // km

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
