// Package beach answers "can I get onto the beach right now?" for each site.
package beach

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/internal/tide"
)

// Status looks ahead across today and tomorrow so crossings after midnight are found
const lookaheadDays = 2

// SeriesSource provides a site's series in feet
type SeriesSource interface {
	Span(ctx context.Context, site models.Site, from time.Time, days int) (tide.Series, time.Time, error)
}

type Service struct {
	sites       models.SiteFinder
	source      SeriesSource
	clock       clock.Clock
	opts        tide.Options
	concurrency int
}

type Option func(*Service)

func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		s.clock = clk
	}
}

func WithOptions(opts tide.Options) Option {
	return func(s *Service) {
		s.opts = opts
	}
}

func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(sites models.SiteFinder, source SeriesSource, opts ...Option) *Service {
	s := &Service{
		sites:       sites,
		source:      source,
		clock:       clock.System(),
		opts:        tide.DefaultOptions(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status evaluates one site by name. Only resolving the site can fail; missing
// tide data is reported inside the returned status.
func (s *Service) Status(ctx context.Context, siteName string) (*models.BeachStatus, error) {
	site, err := s.sites.FindSite(ctx, siteName)
	if err != nil {
		return nil, fmt.Errorf("finding site: %w", err)
	}

	status := s.evaluate(ctx, *site)
	return &status, nil
}

// StatusAll evaluates every site. One site's failure never hides the others.
func (s *Service) StatusAll(ctx context.Context) ([]models.BeachStatus, error) {
	sites, err := s.sites.ListSites(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	return s.evaluateAll(ctx, sites), nil
}

// Nearby evaluates the sites closest to a point
func (s *Service) Nearby(ctx context.Context, lat, lon float64, limit int) ([]models.BeachStatus, error) {
	sites, err := s.sites.FindNearestSites(ctx, lat, lon, limit)
	if err != nil {
		return nil, fmt.Errorf("finding nearest sites: %w", err)
	}
	return s.evaluateAll(ctx, sites), nil
}

func (s *Service) evaluateAll(ctx context.Context, sites []models.Site) []models.BeachStatus {
	statuses := make([]models.BeachStatus, len(sites))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, site := range sites {
		g.Go(func() error {
			statuses[i] = s.evaluate(gctx, site)
			return nil
		})
	}
	// evaluate never fails
	_ = g.Wait()

	return statuses
}

func (s *Service) evaluate(ctx context.Context, site models.Site) models.BeachStatus {
	now := s.clock.Now()
	status := models.BeachStatus{Site: site, Summary: SummaryNoData}

	series, fetchedAt, err := s.source.Span(ctx, site, now, lookaheadDays)
	if err != nil {
		log.Warn().Err(err).Str("site", site.Name).Msg("No series for site")
		status.Error = err.Error()
		return status
	}
	status.FetchedAt = fetchedAt

	snapshot, err := tide.Evaluate(series, site, now, s.opts)
	if err != nil {
		log.Warn().Err(err).Str("site", site.Name).Msg("Could not evaluate site")
		status.Error = err.Error()
		return status
	}

	status.Snapshot = &snapshot
	status.Summary = Summarize(snapshot)

	log.Debug().
		Str("site", site.Name).
		Float64("height", snapshot.EstimatedHeight).
		Bool("usable", snapshot.Usable).
		Str("trend", string(snapshot.Trend)).
		Msg("Evaluated site")

	return status
}
