// Package alert runs the daily check that tells subscribers when a beach will be
// walkable during daylight.
package alert

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/daylight"
	"github.com/cliffcheck/beachable/internal/models"
	"github.com/cliffcheck/beachable/internal/notify"
	"github.com/cliffcheck/beachable/internal/tide"
)

const DefaultTopic = "tide-updates"

// Skip reasons recorded in a SiteReport
const (
	SkipNoDaylight = "no daylight"
	SkipNoSeries   = "no tide data"
	SkipNoWindows  = "no low tide during daylight"
)

// DaySource provides one site-local day of samples in feet
type DaySource interface {
	Day(ctx context.Context, site models.Site, day time.Time) (tide.Series, error)
}

// CacheStatser reports series cache hits and misses
type CacheStatser interface {
	CacheStats() map[string]uint64
}

// SiteReport is the outcome for one site
type SiteReport struct {
	Site       string                  `json:"site"`
	Windows    []models.DaylightWindow `json:"windows,omitempty"`
	Sent       int                     `json:"sent"`
	Failed     int                     `json:"failed"`
	SkipReason string                  `json:"skipReason,omitempty"`
}

// Report summarises one run of the job
type Report struct {
	RanAt time.Time    `json:"ranAt"`
	Sites []SiteReport `json:"sites"`
	Sent  int          `json:"sent"`
}

type Job struct {
	sites       models.SiteFinder
	daylight    daylight.Fetcher
	source      DaySource
	notifier    notify.Notifier
	stats       CacheStatser
	clock       clock.Clock
	topic       string
	concurrency int
}

type Option func(*Job)

func WithClock(clk clock.Clock) Option {
	return func(j *Job) {
		j.clock = clk
	}
}

// WithCacheStats logs the cache counters at the end of each run
func WithCacheStats(stats CacheStatser) Option {
	return func(j *Job) {
		j.stats = stats
	}
}

func WithTopic(topic string) Option {
	return func(j *Job) {
		if topic != "" {
			j.topic = topic
		}
	}
}

func WithConcurrency(n int) Option {
	return func(j *Job) {
		if n > 0 {
			j.concurrency = n
		}
	}
}

func NewJob(sites models.SiteFinder, daylightFetcher daylight.Fetcher, source DaySource, notifier notify.Notifier, opts ...Option) *Job {
	j := &Job{
		sites:       sites,
		daylight:    daylightFetcher,
		source:      source,
		notifier:    notifier,
		clock:       clock.System(),
		topic:       DefaultTopic,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run checks every site for today. Only failing to list the sites is an error;
// per-site problems are recorded in the report.
func (j *Job) Run(ctx context.Context) (Report, error) {
	now := j.clock.Now()

	sites, err := j.sites.ListSites(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing sites: %w", err)
	}

	report := Report{RanAt: now, Sites: make([]SiteReport, len(sites))}
	var sent atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for i, site := range sites {
		g.Go(func() error {
			report.Sites[i] = j.checkSite(gctx, site, now)
			sent.Add(int64(report.Sites[i].Sent))
			return nil
		})
	}
	// checkSite never fails
	_ = g.Wait()

	report.Sent = int(sent.Load())

	event := log.Info().
		Int("sites", len(sites)).
		Int("sent", report.Sent)
	if j.stats != nil {
		for name, count := range j.stats.CacheStats() {
			event = event.Uint64(name, count)
		}
	}
	event.Msg("Alert run complete")

	return report, nil
}

func (j *Job) checkSite(ctx context.Context, site models.Site, now time.Time) SiteReport {
	result := SiteReport{Site: site.Name}

	interval, err := j.daylight.FetchDaylight(ctx, site, now)
	if err != nil || !interval.Valid() {
		log.Warn().Err(err).Str("site", site.Name).Msg("Daylight unknown, not alerting")
		result.SkipReason = SkipNoDaylight
		return result
	}

	series, err := j.source.Day(ctx, site, now)
	if err == nil && series.Len() < 2 {
		err = tide.ErrInsufficientData
	}
	if err != nil {
		log.Warn().Err(err).Str("site", site.Name).Msg("No tide data, not alerting")
		result.SkipReason = SkipNoSeries
		return result
	}

	result.Windows = tide.ActionableWindows(series, site.Threshold, interval)
	if len(result.Windows) == 0 {
		log.Info().Str("site", site.Name).Float64("threshold", site.Threshold).Msg("No low tide windows during daylight")
		result.SkipReason = SkipNoWindows
		return result
	}

	for _, w := range result.Windows {
		n := BuildNotification(site, w, j.topic)
		if err := j.notifier.Notify(ctx, n); err != nil {
			log.Error().Err(err).Str("site", site.Name).Msg("Failed to send notification")
			result.Failed++
			continue
		}
		result.Sent++
	}

	return result
}
