// Package daylight resolves sunrise and sunset for a site on a given day.
package daylight

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/models"
)

type Fetcher interface {
	FetchDaylight(ctx context.Context, site models.Site, day time.Time) (models.DaylightInterval, error)
}

// Error reports a daylight lookup that produced no usable interval
type Error struct {
	Site    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("daylight for %s: %s: %v", e.Site, e.Message, e.Err)
	}
	return fmt.Sprintf("daylight for %s: %s", e.Site, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(site, message string, err error) *Error {
	return &Error{
		Site:    site,
		Message: message,
		Err:     err,
	}
}

// FallbackFetcher asks Primary first and Secondary when Primary fails.
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
}

func (f *FallbackFetcher) FetchDaylight(ctx context.Context, site models.Site, day time.Time) (models.DaylightInterval, error) {
	interval, err := f.Primary.FetchDaylight(ctx, site, day)
	if err == nil {
		return interval, nil
	}

	log.Warn().Err(err).Str("site", site.Name).Msg("Primary daylight source failed, using fallback")

	interval, fallbackErr := f.Secondary.FetchDaylight(ctx, site, day)
	if fallbackErr != nil {
		return models.DaylightInterval{}, fmt.Errorf("fetching daylight: %w", fallbackErr)
	}
	return interval, nil
}

// localDay returns midnight of day's calendar date in the site's zone.
func localDay(site models.Site, day time.Time) time.Time {
	loc := site.Location()
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
