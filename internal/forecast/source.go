// Package forecast turns cached or freshly fetched samples into tide series.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/cache"
	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/internal/tide"
	"github.com/cliffcheck/beachable/internal/worldtides"
)

// SeriesCache is the part of cache.SeriesCache the source needs
type SeriesCache interface {
	GetSeries(ctx context.Context, siteName, date string) (*models.SeriesRecord, bool, error)
	SaveSeries(ctx context.Context, record models.SeriesRecord) error
	SaveSeriesBatch(ctx context.Context, records []models.SeriesRecord) error
}

var _ SeriesCache = (*cache.SeriesCache)(nil)

// Source provides per-site series with heights in feet
type Source struct {
	fetcher worldtides.SampleFetcher
	cache   SeriesCache
	clock   clock.Clock
}

// daySeries is one resolved site-local day
type daySeries struct {
	samples   []models.Sample
	fetchedAt time.Time
	// stale is set when the provider failed and an expired cache entry was used
	stale bool
	// fetched holds the record to cache when the provider was called
	fetched *models.SeriesRecord
}

// NewSource creates a source. seriesCache may be nil to always fetch.
func NewSource(fetcher worldtides.SampleFetcher, seriesCache SeriesCache, clk clock.Clock) *Source {
	if clk == nil {
		clk = clock.System()
	}
	return &Source{
		fetcher: fetcher,
		cache:   seriesCache,
		clock:   clk,
	}
}

// Day returns the series for the site-local calendar day containing day.
func (s *Source) Day(ctx context.Context, site models.Site, day time.Time) (tide.Series, error) {
	result, err := s.resolve(ctx, site, day)
	if err != nil {
		return tide.Series{}, err
	}
	if result.fetched != nil {
		s.save(ctx, site, []models.SeriesRecord{*result.fetched})
	}
	return toFeet(result.samples), nil
}

// Span returns the series for days consecutive site-local days starting at from,
// and the fetch time of the oldest day used. Only the first day is required. A later
// day is dropped when it fails or when its freshness differs from the first day, so
// stale and fresh data are never joined.
func (s *Source) Span(ctx context.Context, site models.Site, from time.Time, days int) (tide.Series, time.Time, error) {
	first, err := s.resolve(ctx, site, from)
	if err != nil {
		return tide.Series{}, time.Time{}, err
	}

	var fetched []models.SeriesRecord
	if first.fetched != nil {
		fetched = append(fetched, *first.fetched)
	}

	// Cached samples are shared and must not be appended to in place
	samples := append([]models.Sample(nil), first.samples...)
	fetchedAt := first.fetchedAt

	loc := site.Location()
	local := from.In(loc)
	for i := 1; i < days; i++ {
		next := time.Date(local.Year(), local.Month(), local.Day()+i, 12, 0, 0, 0, loc)
		more, err := s.resolve(ctx, site, next)
		if err != nil {
			log.Warn().Err(err).Str("site", site.Name).Int("day", i).Msg("Extending series failed")
			break
		}
		if more.fetched != nil {
			fetched = append(fetched, *more.fetched)
		}
		if more.stale != first.stale {
			log.Warn().
				Str("site", site.Name).
				Int("day", i).
				Bool("stale", more.stale).
				Msg("Not joining stale and fresh series")
			break
		}
		samples = append(samples, more.samples...)
		if more.fetchedAt.Before(fetchedAt) {
			fetchedAt = more.fetchedAt
		}
	}

	s.save(ctx, site, fetched)

	return toFeet(samples), fetchedAt, nil
}

// CacheStats reports series cache hits and misses, or nil without a cache.
func (s *Source) CacheStats() map[string]uint64 {
	if stats, ok := s.cache.(interface{ GetCacheStats() map[string]uint64 }); ok {
		return stats.GetCacheStats()
	}
	return nil
}

// resolve finds one day: fresh cache, then provider, then stale cache.
func (s *Source) resolve(ctx context.Context, site models.Site, day time.Time) (daySeries, error) {
	date := cache.DateKey(site, day)

	var stale *models.SeriesRecord
	if s.cache != nil {
		record, fresh, err := s.cache.GetSeries(ctx, site.Name, date)
		if err != nil {
			log.Warn().Err(err).Str("site", site.Name).Str("date", date).Msg("Series cache lookup failed")
		}
		if record != nil && fresh {
			return daySeries{samples: record.Samples, fetchedAt: time.Unix(record.FetchedAt, 0)}, nil
		}
		stale = record
	}

	samples, err := s.fetcher.FetchSamples(ctx, site, day)
	if err != nil {
		if stale != nil {
			log.Warn().
				Err(err).
				Str("site", site.Name).
				Str("date", date).
				Dur("age", stale.Age(s.clock.Now())).
				Msg("Fetch failed, using stale series")
			return daySeries{samples: stale.Samples, fetchedAt: time.Unix(stale.FetchedAt, 0), stale: true}, nil
		}
		return daySeries{}, fmt.Errorf("fetching samples for %s: %w", site.Name, err)
	}

	now := s.clock.Now()
	return daySeries{
		samples:   samples,
		fetchedAt: now,
		fetched: &models.SeriesRecord{
			SiteName:  site.Name,
			Date:      date,
			Samples:   samples,
			FetchedAt: now.Unix(),
		},
	}, nil
}

// save caches freshly fetched days, in one batch when there are several
func (s *Source) save(ctx context.Context, site models.Site, records []models.SeriesRecord) {
	if s.cache == nil || len(records) == 0 {
		return
	}

	var err error
	if len(records) == 1 {
		err = s.cache.SaveSeries(ctx, records[0])
	} else {
		err = s.cache.SaveSeriesBatch(ctx, records)
	}
	if err != nil {
		log.Error().Err(err).Str("site", site.Name).Int("days", len(records)).Msg("Failed to cache series")
	}
}

func toFeet(samples []models.Sample) tide.Series {
	return tide.NewSeries(samples).Convert(models.FeetPerMeter)
}
